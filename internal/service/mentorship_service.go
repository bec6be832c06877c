package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

type requestLedger interface {
	Resolve(ctx context.Context, id string, status models.RequestStatus) (*models.SessionRequest, error)
}

type sessionCreator interface {
	Create(ctx context.Context, session *models.Session) error
}

type mentorshipUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// MentorshipService coordinates the side effects of a guide's decision. The
// ledger is always written first: a crash mid-sequence leaves the request
// terminal but sessionless, which is reported to the caller and recovered
// manually rather than rolled back.
type MentorshipService struct {
	ledger    requestLedger
	sessions  sessionCreator
	notifier  requestNotifier
	users     mentorshipUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorshipService constructs the approval coordinator.
func NewMentorshipService(ledger requestLedger, sessions sessionCreator, notifier requestNotifier, users mentorshipUserRepository, validate *validator.Validate, logger *zap.Logger) *MentorshipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorshipService{ledger: ledger, sessions: sessions, notifier: notifier, users: users, validator: validate, logger: logger}
}

// Decide resolves a pending request and fans out the decision's side
// effects: on approval one session and one notification, on rejection one
// notification only.
func (s *MentorshipService) Decide(ctx context.Context, requestID string, req models.DecisionRequest) (*models.DecisionResult, error) {
	switch req.Status {
	case models.DecisionApproved, models.DecisionRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}
	if req.Status == models.DecisionApproved && strings.TrimSpace(req.MeetingLink) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "meeting link required to approve")
	}

	status := models.RequestApproved
	if req.Status == models.DecisionRejected {
		status = models.RequestRejected
	}

	// Step 1: the ledger. Everything after this point is fail-forward.
	request, err := s.ledger.Resolve(ctx, requestID, status)
	if err != nil {
		return nil, err
	}

	if status == models.RequestRejected {
		if _, err := s.notifier.Notify(ctx, models.NotificationInput{
			UserID: request.ProgrammerID,
			Kind:   models.NotifySessionRejected,
		}); err != nil {
			s.logger.Error("request rejected but notification failed", zap.String("request_id", request.ID), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrApprovalIncomplete.Code, appErrors.ErrApprovalIncomplete.Status, "status updated but notification delivery failed")
		}
		return &models.DecisionResult{Request: request}, nil
	}

	guideName := ""
	if guide, err := s.users.FindByID(ctx, request.GuideID); err == nil {
		guideName = guide.Name
	} else {
		s.logger.Warn("failed to fetch guide for approval notification", zap.String("guide_id", request.GuideID), zap.Error(err))
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Mentorship Session"
	}

	session := &models.Session{
		Title:           title,
		Description:     req.Description,
		MeetingLink:     req.MeetingLink,
		GuideID:         request.GuideID,
		ProgrammerEmail: request.ProgrammerEmail,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("request approved but session creation failed", zap.String("request_id", request.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrApprovalIncomplete.Code, appErrors.ErrApprovalIncomplete.Status, "status updated but session creation failed")
	}

	if _, err := s.notifier.Notify(ctx, models.NotificationInput{
		UserID:      request.ProgrammerID,
		Kind:        models.NotifySessionApproved,
		GuideName:   guideName,
		MeetingLink: req.MeetingLink,
	}); err != nil {
		s.logger.Error("session created but notification failed", zap.String("request_id", request.ID), zap.String("session_id", session.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrApprovalIncomplete.Code, appErrors.ErrApprovalIncomplete.Status, "session created but notification delivery failed")
	}

	return &models.DecisionResult{Request: request, SessionID: session.ID}, nil
}
