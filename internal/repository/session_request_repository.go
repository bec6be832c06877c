package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aegisworks/aegis-api/internal/models"
)

// SessionRequestRepository is the ledger of mentorship session requests.
// Rows are inserted as pending and mutated at most once into a terminal
// status; they are never deleted.
type SessionRequestRepository struct {
	db *sqlx.DB
}

// NewSessionRequestRepository creates the repository.
func NewSessionRequestRepository(db *sqlx.DB) *SessionRequestRepository {
	return &SessionRequestRepository{db: db}
}

// Create inserts a new pending request.
func (r *SessionRequestRepository) Create(ctx context.Context, req *models.SessionRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = models.RequestPending
	query := `INSERT INTO session_requests (id, guide_id, programmer_id, programmer_name, programmer_email, status, created_at)
VALUES (:id, :guide_id, :programmer_id, :programmer_name, :programmer_email, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create session request: %w", err)
	}
	return nil
}

// GetByID returns a request by identifier.
func (r *SessionRequestRepository) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	const query = `SELECT id, guide_id, programmer_id, programmer_name, programmer_email, status, created_at
FROM session_requests WHERE id = $1`
	var req models.SessionRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPendingByGuide returns the guide's unresolved requests oldest first,
// matching the first-come review queue on the dashboard.
func (r *SessionRequestRepository) ListPendingByGuide(ctx context.Context, guideID string) ([]models.SessionRequest, error) {
	const query = `SELECT id, guide_id, programmer_id, programmer_name, programmer_email, status, created_at
FROM session_requests WHERE guide_id = $1 AND status = 'pending' ORDER BY created_at ASC`
	var requests []models.SessionRequest
	if err := r.db.SelectContext(ctx, &requests, query, guideID); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requests, nil
}

// ResolveIfPending flips the request into a terminal status. The WHERE guard
// makes the transition atomic: zero affected rows means the request was
// already resolved (or never existed), and the caller must not treat a
// repeat resolve as success.
func (r *SessionRequestRepository) ResolveIfPending(ctx context.Context, id string, status models.RequestStatus) (bool, error) {
	const query = `UPDATE session_requests SET status = $1 WHERE id = $2 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("resolve session request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve session request rows: %w", err)
	}
	return affected == 1, nil
}

// ApprovePendingByPair marks any pending requests from the programmer to the
// guide approved. Used by the direct session-creation path where the guide
// schedules without going through a specific request.
func (r *SessionRequestRepository) ApprovePendingByPair(ctx context.Context, guideID, programmerEmail string) error {
	const query = `UPDATE session_requests SET status = 'approved'
WHERE guide_id = $1 AND programmer_email = $2 AND status = 'pending'`
	if _, err := r.db.ExecContext(ctx, query, guideID, programmerEmail); err != nil {
		return fmt.Errorf("approve pending requests: %w", err)
	}
	return nil
}
