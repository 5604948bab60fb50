package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppScope identifies which application a session was issued for.
// Tokens are not interchangeable across applications.
type AppScope string

const (
	ScopeMarketing AppScope = "marketing"
	ScopeAdmin     AppScope = "admin"
	ScopeDashboard AppScope = "dashboard"
)

var ErrInvalidAppScope = errors.New("invalid app scope")

func ParseAppScope(s string) (AppScope, error) {
	switch AppScope(s) {
	case ScopeMarketing, ScopeAdmin, ScopeDashboard:
		return AppScope(s), nil
	}
	return "", ErrInvalidAppScope
}

// Session is one authenticated browser/device context. Sessions are
// immutable: renewal creates a new record, logout deletes it. Only the
// SHA-256 hash of the cookie token is stored.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	AppScope  AppScope  `json:"app_scope" db:"app_scope"`
	IssuedAt  time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
