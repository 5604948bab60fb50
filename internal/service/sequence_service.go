package service

import (
	"context"
	"log"
	"time"

	"github.com/nairbf/Reservekit-sub003/internal/repository"
	"github.com/nairbf/Reservekit-sub003/pkg/email"
)

// SequenceRunSummary reports one processor invocation. Per-step delivery
// failures are counted here, never surfaced to the scheduler as errors.
type SequenceRunSummary struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// SequenceService processes due email-sequence steps. Safe to run from
// concurrent scheduler invocations: the store-level claim (pending ->
// sending) guarantees each step is sent at most once, and the due query
// only yields steps whose earlier siblings are sent or skipped, so
// sequences advance strictly in step order.
type SequenceService struct {
	steps     repository.SequenceRepository
	sender    email.Sender
	batchSize int
	now       func() time.Time
}

func NewSequenceService(
	steps repository.SequenceRepository,
	sender email.Sender,
	batchSize int,
) *SequenceService {
	return &SequenceService{
		steps:     steps,
		sender:    sender,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// WithClock overrides the clock. Tests use this to control due times.
func (s *SequenceService) WithClock(now func() time.Time) *SequenceService {
	s.now = now
	return s
}

// ProcessPending claims and sends due steps, at most batchSize per
// invocation. One failed delivery never aborts the batch. Re-invoking with
// no newly due steps is a no-op.
func (s *SequenceService) ProcessPending(ctx context.Context) (*SequenceRunSummary, error) {
	due, err := s.steps.ListDue(ctx, s.now(), s.batchSize)
	if err != nil {
		return nil, err
	}

	summary := &SequenceRunSummary{}
	for _, step := range due {
		claimed, err := s.steps.Claim(ctx, step.ID)
		if err != nil {
			log.Printf("[SEQUENCE] Claim failed for step %s: %v", step.ID, err)
			summary.Skipped++
			continue
		}
		if !claimed {
			// Another worker owns this step.
			summary.Skipped++
			continue
		}

		summary.Attempted++

		sendErr := s.sender.Send(ctx, email.Message{
			To:      step.RecipientEmail,
			Subject: step.Subject,
			Body:    step.Body,
		})
		if sendErr != nil {
			log.Printf("[SEQUENCE] Delivery failed for step %s (seq=%s recipient=%s index=%d): %v",
				step.ID, step.SequenceID, step.RecipientID, step.StepIndex, sendErr)
			if err := s.steps.MarkFailed(ctx, step.ID); err != nil {
				log.Printf("[SEQUENCE] Failed to mark step %s failed: %v", step.ID, err)
			}
			summary.Failed++
			continue
		}

		// Sent is only committed after confirmed delivery.
		if err := s.steps.MarkSent(ctx, step.ID, s.now()); err != nil {
			log.Printf("[SEQUENCE] Failed to mark step %s sent: %v", step.ID, err)
		}
		summary.Sent++
	}

	log.Printf("[SEQUENCE] Run complete: attempted=%d sent=%d failed=%d skipped=%d",
		summary.Attempted, summary.Sent, summary.Failed, summary.Skipped)

	return summary, nil
}
