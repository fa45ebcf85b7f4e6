package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 15 * time.Minute
)

// Service exposes clinic settings with a read-through cache. Every
// write goes through Save so the cache never serves a stale quota.
type Service struct {
	repo  repository.SettingsRepository
	cache *cache.Cache
}

func NewService(repo repository.SettingsRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

// Get returns the clinic's settings, from cache when warm.
func (s *Service) Get(ctx context.Context, clinicID uuid.UUID) (*model.ClinicSettings, error) {
	key := clinicID.String()
	if cached, ok := s.cache.Get(key); ok {
		if settings, ok := cached.(*model.ClinicSettings); ok {
			copy := *settings
			return &copy, nil
		}
	}

	settings, err := s.repo.GetByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, settings, cache.DefaultExpiration)
	copy := *settings
	return &copy, nil
}

// Save persists the settings row and refreshes the cache.
func (s *Service) Save(ctx context.Context, settings *model.ClinicSettings) error {
	if settings.TherapistQuota < 0 || settings.AdminQuota < 0 {
		return fmt.Errorf("quotas must not be negative")
	}
	if err := s.repo.Update(ctx, settings); err != nil {
		return err
	}
	s.cache.Set(settings.ClinicID.String(), settings, cache.DefaultExpiration)
	return nil
}

// UpdateBranding applies a MASTER's name/logo edit. Quota fields are
// mutated only through the license endpoints.
func (s *Service) UpdateBranding(ctx context.Context, clinicID uuid.UUID, req *model.UpdateSettingsRequest) (*model.ClinicSettings, error) {
	settings, err := s.repo.GetByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		settings.Name = *req.Name
	}
	if req.LogoURL != nil {
		settings.LogoURL = req.LogoURL
	}
	if err := s.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
