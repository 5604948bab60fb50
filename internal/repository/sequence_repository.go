package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
)

type SequenceRepository interface {
	// ListDue returns up to limit steps that are pending, scheduled at or
	// before now, and have no earlier unresolved step for the same
	// (sequence, recipient), ordered by (sequence_id, recipient_id,
	// step_index).
	ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.SequenceStep, error)
	// Claim atomically moves a step from pending to sending. It returns
	// false when another worker already owns the step, so two concurrent
	// processor runs never double-send.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}
