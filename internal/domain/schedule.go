package domain

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is the booking window a dashboard account exposes to customers.
// One row per owner; updates replace it wholesale.
type Schedule struct {
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Timezone  string    `json:"timezone" db:"timezone"`
	OpensAt   string    `json:"opens_at" db:"opens_at"`
	ClosesAt  string    `json:"closes_at" db:"closes_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
