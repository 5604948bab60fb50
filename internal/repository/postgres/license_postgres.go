package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
)

var ErrLicenseNotFound = errors.New("license not found")

type licenseRepository struct {
	db *sqlx.DB
}

// NewLicenseRepository creates a new PostgreSQL license repository
func NewLicenseRepository(db *sqlx.DB) repository.LicenseRepository {
	return &licenseRepository{db: db}
}

func (r *licenseRepository) Get(ctx context.Context) (*domain.License, error) {
	query := `
		SELECT key, plan, status, expires_at, last_check
		FROM licenses
		ORDER BY last_check DESC
		LIMIT 1`

	var license domain.License
	err := r.db.GetContext(ctx, &license, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLicenseNotFound
		}
		return nil, fmt.Errorf("failed to get license: %w", err)
	}

	return &license, nil
}

func (r *licenseRepository) UpdateLastCheck(ctx context.Context, key string, checkedAt time.Time) error {
	query := `UPDATE licenses SET last_check = $1 WHERE key = $2`

	_, err := r.db.ExecContext(ctx, query, checkedAt, key)
	if err != nil {
		return fmt.Errorf("failed to update license last check: %w", err)
	}

	return nil
}
