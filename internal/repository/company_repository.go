package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aegisworks/aegis-api/internal/models"
)

// CompanyRepository provides persistence for companies.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates the repository.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a new company.
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO companies (id, name, description, location, industry, employees, created_at)
VALUES (:id, :name, :description, :location, :industry, :employees, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, company); err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// FindByName returns a company by exact name.
func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*models.Company, error) {
	const query = `SELECT id, name, description, location, industry, employees, created_at
FROM companies WHERE name = $1 LIMIT 1`
	var company models.Company
	if err := r.db.GetContext(ctx, &company, query, name); err != nil {
		return nil, err
	}
	return &company, nil
}

// ListWithJobs returns companies grouped with their open job roles.
func (r *CompanyRepository) ListWithJobs(ctx context.Context) ([]models.CompanyWithJobs, error) {
	const query = `SELECT c.id AS company_id, c.name AS company_name, j.id AS job_id, j.title AS job_title
FROM companies c
LEFT JOIN jobs j ON c.id = j.company_id
ORDER BY c.name ASC, j.title ASC`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var (
		companies []models.CompanyWithJobs
		index     = map[string]int{}
	)
	for rows.Next() {
		var row struct {
			CompanyID   string  `db:"company_id"`
			CompanyName string  `db:"company_name"`
			JobID       *string `db:"job_id"`
			JobTitle    *string `db:"job_title"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		i, ok := index[row.CompanyID]
		if !ok {
			companies = append(companies, models.CompanyWithJobs{ID: row.CompanyID, Name: row.CompanyName})
			i = len(companies) - 1
			index[row.CompanyID] = i
		}
		if row.JobID != nil && row.JobTitle != nil {
			companies[i].JobRoles = append(companies[i].JobRoles, models.JobRole{ID: *row.JobID, Title: *row.JobTitle})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company rows: %w", err)
	}
	return companies, nil
}
