package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
)

// ProgrammerPoller keeps a programmer's dashboard current with two
// independent loops: the notification feed refreshes on a short interval,
// the session list on a longer one. A failure in either loop never stalls
// the other, and overlapping ticks are skipped rather than queued.
type ProgrammerPoller struct {
	client          *Client
	userID          string
	notifyInterval  time.Duration
	sessionInterval time.Duration
	onNotifications func([]models.Notification)
	onSessions      func([]models.Session)
	logger          *zap.Logger

	notifyInFlight  atomic.Bool
	sessionInFlight atomic.Bool
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewProgrammerPoller constructs the poller. Zero intervals fall back to
// 15s for notifications and 30s for sessions.
func NewProgrammerPoller(client *Client, userID string, notifyInterval, sessionInterval time.Duration, onNotifications func([]models.Notification), onSessions func([]models.Session), logger *zap.Logger) *ProgrammerPoller {
	if notifyInterval <= 0 {
		notifyInterval = 15 * time.Second
	}
	if sessionInterval <= 0 {
		sessionInterval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgrammerPoller{
		client:          client,
		userID:          userID,
		notifyInterval:  notifyInterval,
		sessionInterval: sessionInterval,
		onNotifications: onNotifications,
		onSessions:      onSessions,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start launches both polling loops. Each fetches immediately on start.
func (p *ProgrammerPoller) Start(ctx context.Context) {
	p.wg.Add(2)
	go p.runNotifications(ctx)
	go p.runSessions(ctx)
}

// Stop halts both loops and waits for in-flight fetches. Neither callback
// is invoked after Stop returns.
func (p *ProgrammerPoller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}

func (p *ProgrammerPoller) runNotifications(ctx context.Context) {
	defer p.wg.Done()

	p.pollNotifications(ctx)

	ticker := time.NewTicker(p.notifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollNotifications(ctx)
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *ProgrammerPoller) runSessions(ctx context.Context) {
	defer p.wg.Done()

	p.pollSessions(ctx)

	ticker := time.NewTicker(p.sessionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollSessions(ctx)
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *ProgrammerPoller) pollNotifications(ctx context.Context) {
	if !p.notifyInFlight.CompareAndSwap(false, true) {
		p.logger.Debug("skipping overlapping notification tick", zap.String("user_id", p.userID))
		return
	}
	defer p.notifyInFlight.Store(false)

	notifications, err := p.client.Notifications(ctx, p.userID)
	if err != nil {
		p.logger.Warn("failed to fetch notifications", zap.String("user_id", p.userID), zap.Error(err))
		return
	}
	if p.stopped() {
		return
	}
	p.onNotifications(notifications)
}

func (p *ProgrammerPoller) pollSessions(ctx context.Context) {
	if !p.sessionInFlight.CompareAndSwap(false, true) {
		p.logger.Debug("skipping overlapping session tick", zap.String("user_id", p.userID))
		return
	}
	defer p.sessionInFlight.Store(false)

	sessions, err := p.client.Sessions(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch sessions", zap.String("user_id", p.userID), zap.Error(err))
		return
	}
	if p.stopped() {
		return
	}
	p.onSessions(sessions)
}

func (p *ProgrammerPoller) stopped() bool {
	select {
	case <-p.stopChan:
		return true
	default:
		return false
	}
}
