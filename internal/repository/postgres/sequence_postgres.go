package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
)

type sequenceRepository struct {
	db *sqlx.DB
}

// NewSequenceRepository creates a new PostgreSQL sequence repository
func NewSequenceRepository(db *sqlx.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.SequenceStep, error) {
	// A step is only eligible once every earlier step of the same
	// (sequence, recipient) is sent or skipped.
	query := `
		SELECT id, sequence_id, recipient_id, recipient_email, step_index,
			   subject, body, status, scheduled_at, sent_at
		FROM sequence_steps s
		WHERE s.status = 'pending'
		  AND s.scheduled_at <= $1
		  AND NOT EXISTS (
			SELECT 1 FROM sequence_steps e
			WHERE e.sequence_id = s.sequence_id
			  AND e.recipient_id = s.recipient_id
			  AND e.step_index < s.step_index
			  AND e.status NOT IN ('sent', 'skipped')
		  )
		ORDER BY s.sequence_id, s.recipient_id, s.step_index
		LIMIT $2`

	var steps []*domain.SequenceStep
	err := r.db.SelectContext(ctx, &steps, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due sequence steps: %w", err)
	}

	return steps, nil
}

func (r *sequenceRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	// The status guard makes the claim atomic: of two concurrent workers,
	// exactly one sees rows affected = 1.
	query := `
		UPDATE sequence_steps
		SET status = 'sending'
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim sequence step: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

func (r *sequenceRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE sequence_steps
		SET status = 'sent', sent_at = $1
		WHERE id = $2 AND status = 'sending'`

	_, err := r.db.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark sequence step sent: %w", err)
	}

	return nil
}

func (r *sequenceRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE sequence_steps
		SET status = 'failed'
		WHERE id = $1 AND status = 'sending'`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark sequence step failed: %w", err)
	}

	return nil
}
