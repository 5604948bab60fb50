package repository

import (
	"context"
	"time"

	"github.com/nairbf/Reservekit-sub003/internal/domain"
)

type LicenseRepository interface {
	// Get returns the instance's license record. An instance has exactly
	// one license row.
	Get(ctx context.Context) (*domain.License, error)
	UpdateLastCheck(ctx context.Context, key string, checkedAt time.Time) error
}
