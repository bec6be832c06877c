package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/repository"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

type companyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByName(ctx context.Context, name string) (*models.Company, error)
	ListWithJobs(ctx context.Context) ([]models.CompanyWithJobs, error)
}

// CompanyService serves the company browse view and resolves companies for
// job postings.
type CompanyService struct {
	companies companyRepository
	cache     listingCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewCompanyService constructs the service.
func NewCompanyService(companies companyRepository, cache listingCache, cacheTTL time.Duration, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CompanyService{companies: companies, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns companies grouped with their job roles.
func (s *CompanyService) List(ctx context.Context) ([]models.CompanyWithJobs, error) {
	if s.cache != nil {
		var cached []models.CompanyWithJobs
		if err := s.cache.Get(ctx, repository.CacheKeyCompanies, &cached); err == nil {
			return cached, nil
		}
	}

	companies, err := s.companies.ListWithJobs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list companies")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, repository.CacheKeyCompanies, companies, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache company listing", zap.Error(err))
		}
	}
	return companies, nil
}

// FindOrCreate resolves a company by name, creating a bare record when the
// recruiter posts a job for a company the portal has not seen before.
func (s *CompanyService) FindOrCreate(ctx context.Context, name string) (*models.Company, error) {
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "company name required")
	}

	company, err := s.companies.FindByName(ctx, name)
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up company")
	}

	company = &models.Company{Name: name}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create company")
	}
	s.invalidateListing(ctx)
	return company, nil
}

func (s *CompanyService) invalidateListing(ctx context.Context) {
	type deleter interface {
		Delete(ctx context.Context, key string) error
	}
	if d, ok := s.cache.(deleter); ok && s.cache != nil {
		if err := d.Delete(ctx, repository.CacheKeyCompanies); err != nil {
			s.logger.Warn("failed to invalidate company cache", zap.Error(err))
		}
	}
}
