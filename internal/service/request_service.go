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

type sessionRequestRepository interface {
	Create(ctx context.Context, req *models.SessionRequest) error
	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
	ListPendingByGuide(ctx context.Context, guideID string) ([]models.SessionRequest, error)
	ResolveIfPending(ctx context.Context, id string, status models.RequestStatus) (bool, error)
}

type requestUserRepository interface {
	FindByIDAndRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
}

type requestNotifier interface {
	Notify(ctx context.Context, in models.NotificationInput) (*models.Notification, error)
}

// RequestService is the session-request ledger. It owns the request state
// machine: rows enter as pending and leave exactly once into approved or
// rejected.
type RequestService struct {
	requests  sessionRequestRepository
	users     requestUserRepository
	notifier  requestNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(requests sessionRequestRepository, users requestUserRepository, notifier requestNotifier, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{requests: requests, users: users, notifier: notifier, validator: validate, logger: logger}
}

// Submit records a programmer's request for time with a guide. Duplicate
// pending requests for the same pair are accepted; the ledger imposes no
// dedup constraint.
func (s *RequestService) Submit(ctx context.Context, req models.SubmitRequestRequest) (*models.SessionRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session request payload")
	}

	guide, err := s.users.FindByIDAndRole(ctx, req.GuideID, models.RoleGuide)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guide not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch guide")
	}

	programmer, err := s.users.FindByIDAndRole(ctx, req.ProgrammerID, models.RoleProgrammer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programmer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch programmer")
	}

	record := &models.SessionRequest{
		GuideID:         guide.ID,
		ProgrammerID:    programmer.ID,
		ProgrammerName:  programmer.Name,
		ProgrammerEmail: programmer.Email,
	}
	if err := s.requests.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session request")
	}

	// The guide learns about new requests on the next poll either way; a
	// failed notification must not undo the submission.
	if _, err := s.notifier.Notify(ctx, models.NotificationInput{
		UserID:         guide.ID,
		Kind:           models.NotifySessionRequested,
		ProgrammerName: programmer.Name,
	}); err != nil {
		s.logger.Warn("failed to notify guide of new request", zap.String("request_id", record.ID), zap.Error(err))
	}

	return record, nil
}

// ListPending returns the guide's unresolved requests oldest first. Terminal
// requests never appear here.
func (s *RequestService) ListPending(ctx context.Context, guideID string) ([]models.SessionRequest, error) {
	if guideID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "guide id required")
	}
	requests, err := s.requests.ListPendingByGuide(ctx, guideID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}
	return requests, nil
}

// Resolve transitions a request out of pending. A request that is already
// terminal fails with an invalid-state error and keeps its status; a repeat
// resolve is never silently accepted.
func (s *RequestService) Resolve(ctx context.Context, id string, status models.RequestStatus) (*models.SessionRequest, error) {
	if !status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch session request")
	}
	if req.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session request already resolved")
	}

	ok, err := s.requests.ResolveIfPending(ctx, id, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session request")
	}
	if !ok {
		// Lost the race against a concurrent resolve.
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session request already resolved")
	}

	req.Status = status
	return req, nil
}
