package repository

import (
	"context"

	"github.com/nairbf/Reservekit-sub003/internal/domain"
)

type ScheduleRepository interface {
	// Upsert replaces the owner's schedule, creating it on first write.
	Upsert(ctx context.Context, schedule *domain.Schedule) error
}
