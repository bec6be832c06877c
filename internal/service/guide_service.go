package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/repository"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

// The directory has no per-guide specialisation yet.
const defaultExpertise = "General Guidance"

type guideUserRepository interface {
	ListGuides(ctx context.Context) ([]models.Guide, error)
}

type listingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// GuideService serves the guide directory programmers browse.
type GuideService struct {
	users    guideUserRepository
	cache    listingCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGuideService constructs the service.
func NewGuideService(users guideUserRepository, cache listingCache, cacheTTL time.Duration, logger *zap.Logger) *GuideService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &GuideService{users: users, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns all guides, served from cache when warm.
func (s *GuideService) List(ctx context.Context) ([]models.Guide, error) {
	if s.cache != nil {
		var cached []models.Guide
		if err := s.cache.Get(ctx, repository.CacheKeyGuides, &cached); err == nil {
			return cached, nil
		}
	}

	guides, err := s.users.ListGuides(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guides")
	}
	for i := range guides {
		guides[i].Expertise = defaultExpertise
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, repository.CacheKeyGuides, guides, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache guide directory", zap.Error(err))
		}
	}
	return guides, nil
}
