package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
)

// GuidePoller refreshes a guide's pending-request view on a fixed interval.
// A tick that fires while the previous fetch is still running is skipped,
// never queued, so a slow portal cannot build a backlog of refreshes.
type GuidePoller struct {
	client    *Client
	guideID   string
	interval  time.Duration
	onPending func([]models.SessionRequest)
	logger    *zap.Logger

	inFlight atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewGuidePoller constructs a poller delivering pending requests to
// onPending after every successful fetch.
func NewGuidePoller(client *Client, guideID string, interval time.Duration, onPending func([]models.SessionRequest), logger *zap.Logger) *GuidePoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuidePoller{
		client:    client,
		guideID:   guideID,
		interval:  interval,
		onPending: onPending,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the polling loop. The first fetch happens immediately.
func (p *GuidePoller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

// Stop halts polling and waits for any in-flight fetch to finish. The
// callback is never invoked after Stop returns.
func (p *GuidePoller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}

func (p *GuidePoller) run(ctx context.Context) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-p.stopChan:
			p.logger.Info("guide poller stopped", zap.String("guide_id", p.guideID))
			return
		case <-ctx.Done():
			p.logger.Info("guide poller cancelled", zap.String("guide_id", p.guideID))
			return
		}
	}
}

func (p *GuidePoller) poll(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("skipping overlapping tick", zap.String("guide_id", p.guideID))
		return
	}
	defer p.inFlight.Store(false)

	pending, err := p.client.PendingRequests(ctx, p.guideID)
	if err != nil {
		p.logger.Warn("failed to fetch pending requests", zap.String("guide_id", p.guideID), zap.Error(err))
		return
	}

	// A fetch that completes after Stop must not touch the view.
	select {
	case <-p.stopChan:
		return
	default:
	}
	p.onPending(pending)
}
