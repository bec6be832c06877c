package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	ListAll(ctx context.Context) ([]models.Session, error)
	ListByGuide(ctx context.Context, guideID string) ([]models.Session, error)
	ListByProgrammerEmail(ctx context.Context, email string) ([]models.Session, error)
}

type sessionRequestApprover interface {
	ApprovePendingByPair(ctx context.Context, guideID, programmerEmail string) error
}

type sessionUserRepository interface {
	FindByIDAndRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
	FindByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error)
}

// SessionService manages scheduled mentorship sessions.
type SessionService struct {
	sessions  sessionRepository
	requests  sessionRequestApprover
	users     sessionUserRepository
	notifier  requestNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the service.
func NewSessionService(sessions sessionRepository, requests sessionRequestApprover, users sessionUserRepository, notifier requestNotifier, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{sessions: sessions, requests: requests, users: users, notifier: notifier, validator: validate, logger: logger}
}

// CreateDirect schedules a session without going through a specific request.
// Any pending requests from the invited programmer to this guide are marked
// approved as a side effect, mirroring the approval path's end state.
func (s *SessionService) CreateDirect(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	if _, err := s.users.FindByIDAndRole(ctx, req.GuideID, models.RoleGuide); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guide not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch guide")
	}

	session := &models.Session{
		Title:           req.Title,
		Description:     req.Description,
		MeetingLink:     req.MeetingLink,
		GuideID:         req.GuideID,
		ProgrammerEmail: req.ProgrammerEmail,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	if err := s.requests.ApprovePendingByPair(ctx, req.GuideID, req.ProgrammerEmail); err != nil {
		s.logger.Warn("session created but pending requests not marked approved", zap.String("session_id", session.ID), zap.Error(err))
	}

	if programmer, err := s.users.FindByEmailAndRole(ctx, req.ProgrammerEmail, models.RoleProgrammer); err == nil {
		if _, err := s.notifier.Notify(ctx, models.NotificationInput{
			UserID:       programmer.ID,
			Kind:         models.NotifySessionScheduled,
			SessionTitle: session.Title,
		}); err != nil {
			s.logger.Warn("session created but notification failed", zap.String("session_id", session.ID), zap.Error(err))
		}
	} else {
		s.logger.Warn("invited programmer has no account, skipping notification", zap.String("email", req.ProgrammerEmail))
	}

	return session, nil
}

// ListAll returns every session for the programmer browse view.
func (s *SessionService) ListAll(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// ListForGuide returns the guide's scheduled sessions.
func (s *SessionService) ListForGuide(ctx context.Context, guideID string) ([]models.Session, error) {
	if guideID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "guide id required")
	}
	sessions, err := s.sessions.ListByGuide(ctx, guideID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guide sessions")
	}
	return sessions, nil
}

// ListForProgrammer returns the sessions a programmer was invited to.
func (s *SessionService) ListForProgrammer(ctx context.Context, email string) ([]models.Session, error) {
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "programmer email required")
	}
	sessions, err := s.sessions.ListByProgrammerEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programmer sessions")
	}
	return sessions, nil
}
