package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
	"github.com/nairbf/Reservekit-sub003/pkg/license"
)

// LicenseService resolves the instance's entitlement state. Snapshots are
// cached with a last-check timestamp so requests inside the freshness
// window never revalidate.
//
// When revalidation fails the service serves the last-known-good snapshot
// (serve-stale). Only with no snapshot at all does it degrade to invalid.
type LicenseService struct {
	repo          repository.LicenseRepository
	cache         license.Cache
	checkInterval time.Duration
	now           func() time.Time
}

func NewLicenseService(
	repo repository.LicenseRepository,
	cache license.Cache,
	checkInterval time.Duration,
) *LicenseService {
	return &LicenseService{
		repo:          repo,
		cache:         cache,
		checkInterval: checkInterval,
		now:           time.Now,
	}
}

// WithClock overrides the clock. Tests use this to control freshness.
func (s *LicenseService) WithClock(now func() time.Time) *LicenseService {
	s.now = now
	return s
}

// Info returns the current masked license state, revalidating against the
// store only when the cached snapshot is older than the freshness window.
func (s *LicenseService) Info(ctx context.Context) *domain.LicenseInfo {
	cached, err := s.cache.Get(ctx)
	if err != nil && !errors.Is(err, license.ErrCacheMiss) {
		log.Printf("[LICENSE] Cache read failed: %v", err)
	}

	now := s.now()
	if cached != nil && now.Sub(cached.LastCheck) < s.checkInterval {
		return cached
	}

	record, err := s.repo.Get(ctx)
	if err != nil {
		log.Printf("[LICENSE] Validation failed: %v", err)
		if cached != nil {
			// Serve-stale: last-known-good beats hard failure.
			return cached
		}
		return &domain.LicenseInfo{
			Valid:     false,
			Status:    domain.LicenseInvalid,
			LastCheck: now,
		}
	}

	info := record.Info(now)
	info.LastCheck = now

	if err := s.repo.UpdateLastCheck(ctx, record.Key, now); err != nil {
		log.Printf("[LICENSE] Failed to persist last check: %v", err)
	}
	if err := s.cache.Set(ctx, info); err != nil {
		log.Printf("[LICENSE] Cache write failed: %v", err)
	}

	return info
}
