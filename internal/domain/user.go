package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Permissions is the capability set loaded from the store at session
	// validation time. It is never embedded in the session token, so a
	// revoked permission takes effect on the next validated request.
	Permissions []string `json:"permissions" db:"-"`
}

// HasPermission reports whether the capability is in the user's set.
func (u *User) HasPermission(capability string) bool {
	for _, p := range u.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}
