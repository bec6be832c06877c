package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aegisworks/aegis-api/internal/models"
)

// UserRepository provides persistence for portal users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO users (id, name, email, password_hash, role, created_at)
VALUES (:id, :name, :email, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email regardless of role.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailAndRole returns a user matching both email and role. Each
// dashboard authenticates against its own role.
func (r *UserRepository) FindByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = $1 AND role = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email, role); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDAndRole returns a user only when it holds the expected role.
func (r *UserRepository) FindByIDAndRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1 AND role = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id, role); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListGuides returns all users holding the guide role.
func (r *UserRepository) ListGuides(ctx context.Context) ([]models.Guide, error) {
	const query = `SELECT id, name, email FROM users WHERE role = 'guide' ORDER BY name ASC`
	var guides []models.Guide
	if err := r.db.SelectContext(ctx, &guides, query); err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	return guides, nil
}
