package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aegisworks/aegis-api/internal/models"
)

// SessionRepository provides persistence for scheduled mentorship sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO sessions (id, title, description, meeting_link, guide_id, programmer_email, created_at)
VALUES (:id, :title, :description, :meeting_link, :guide_id, :programmer_email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

const sessionColumns = `s.id, s.title, s.description, s.meeting_link, s.guide_id, s.programmer_email, s.created_at, u.name AS guide_name`

// ListAll returns every session newest first, with the guide's name joined in.
func (r *SessionRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s JOIN users u ON s.guide_id = u.id ORDER BY s.created_at DESC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListByGuide returns the guide's sessions newest first.
func (r *SessionRepository) ListByGuide(ctx context.Context, guideID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s JOIN users u ON s.guide_id = u.id
WHERE s.guide_id = $1 ORDER BY s.created_at DESC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, guideID); err != nil {
		return nil, fmt.Errorf("list sessions by guide: %w", err)
	}
	return sessions, nil
}

// ListByProgrammerEmail returns the sessions a programmer was invited to.
func (r *SessionRepository) ListByProgrammerEmail(ctx context.Context, email string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s JOIN users u ON s.guide_id = u.id
WHERE s.programmer_email = $1 ORDER BY s.created_at DESC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, email); err != nil {
		return nil, fmt.Errorf("list sessions by programmer: %w", err)
	}
	return sessions, nil
}
