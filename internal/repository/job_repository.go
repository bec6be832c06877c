package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aegisworks/aegis-api/internal/models"
)

// JobRepository provides persistence for job postings.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates the repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO jobs (id, title, description, requirements, location, company_id, recruiter_id, created_at)
VALUES (:id, :title, :description, :requirements, :location, :company_id, :recruiter_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// UpdateDetails refreshes the mutable fields of an existing posting.
func (r *JobRepository) UpdateDetails(ctx context.Context, id, description, requirements, location string) error {
	const query = `UPDATE jobs SET description = $1, requirements = $2, location = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, description, requirements, location, id); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// FindByTitleAndCompany returns a posting keyed by title within a company.
func (r *JobRepository) FindByTitleAndCompany(ctx context.Context, title, companyID string) (*models.Job, error) {
	const query = `SELECT id, title, description, requirements, location, company_id, created_at
FROM jobs WHERE title = $1 AND company_id = $2 LIMIT 1`
	var job models.Job
	if err := r.db.GetContext(ctx, &job, query, title, companyID); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListAll returns every posting with its company name and industry.
func (r *JobRepository) ListAll(ctx context.Context) ([]models.Job, error) {
	const query = `SELECT j.id, j.title, j.description, j.requirements, j.location, j.company_id, j.created_at,
c.name AS company_name, c.industry AS industry
FROM jobs j JOIN companies c ON j.company_id = c.id
ORDER BY j.created_at DESC`
	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// GetByID returns a posting with company details.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	const query = `SELECT j.id, j.title, j.description, j.requirements, j.location, j.company_id, j.created_at,
c.name AS company_name, c.industry AS industry
FROM jobs j JOIN companies c ON j.company_id = c.id
WHERE j.id = $1`
	var job models.Job
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}
