package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
)

type scheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new PostgreSQL schedule repository
func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Upsert(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		INSERT INTO schedules (
			owner_id, timezone, opens_at, closes_at, updated_at
		) VALUES (
			:owner_id, :timezone, :opens_at, :closes_at, :updated_at
		)
		ON CONFLICT (owner_id) DO UPDATE SET
			timezone   = EXCLUDED.timezone,
			opens_at   = EXCLUDED.opens_at,
			closes_at  = EXCLUDED.closes_at,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, schedule)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}

	return nil
}
