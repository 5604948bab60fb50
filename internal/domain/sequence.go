package domain

import (
	"time"

	"github.com/google/uuid"
)

type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepSending StepStatus = "sending"
	StepSent    StepStatus = "sent"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// SequenceStep is one ordered message of a multi-step email sequence for a
// recipient. For a given (sequence_id, recipient_id, step_index) at most one
// send ever succeeds; re-processing a sent step is a no-op.
type SequenceStep struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	SequenceID     uuid.UUID  `json:"sequence_id" db:"sequence_id"`
	RecipientID    uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	RecipientEmail string     `json:"recipient_email" db:"recipient_email"`
	StepIndex      int        `json:"step_index" db:"step_index"`
	Subject        string     `json:"subject" db:"subject"`
	Body           string     `json:"body" db:"body"`
	Status         StepStatus `json:"status" db:"status"`
	ScheduledAt    time.Time  `json:"scheduled_at" db:"scheduled_at"`
	SentAt         *time.Time `json:"sent_at,omitempty" db:"sent_at"`
}
