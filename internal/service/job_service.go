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

type jobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	UpdateDetails(ctx context.Context, id, description, requirements, location string) error
	FindByTitleAndCompany(ctx context.Context, title, companyID string) (*models.Job, error)
	ListAll(ctx context.Context) ([]models.Job, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
}

type companyResolver interface {
	FindOrCreate(ctx context.Context, name string) (*models.Company, error)
}

// JobService manages recruiter job postings.
type JobService struct {
	jobs      jobRepository
	companies companyResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewJobService constructs the service.
func NewJobService(jobs jobRepository, companies companyResolver, validate *validator.Validate, logger *zap.Logger) *JobService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{jobs: jobs, companies: companies, validator: validate, logger: logger}
}

// Upsert posts a job, updating the existing posting when the recruiter
// submits the same title for the same company again.
func (s *JobService) Upsert(ctx context.Context, recruiterID string, req models.UpsertJobRequest) (*models.UpsertJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job payload")
	}

	company, err := s.companies.FindOrCreate(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	existing, err := s.jobs.FindByTitleAndCompany(ctx, req.Title, company.ID)
	if err == nil {
		if err := s.jobs.UpdateDetails(ctx, existing.ID, req.Description, req.Requirements, req.Location); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update job")
		}
		return &models.UpsertJobResponse{JobID: existing.ID, Updated: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up job")
	}

	job := &models.Job{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		CompanyID:    company.ID,
		RecruiterID:  recruiterID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create job")
	}
	return &models.UpsertJobResponse{JobID: job.ID, Updated: false}, nil
}

// List returns every posting with company details.
func (s *JobService) List(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.jobs.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list jobs")
	}
	return jobs, nil
}

// Get returns one posting by id.
func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch job")
	}
	return job, nil
}
