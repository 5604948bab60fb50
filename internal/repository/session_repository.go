package repository

import (
	"context"

	"github.com/nairbf/Reservekit-sub003/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// GetByTokenHash returns the session regardless of expiry; the caller
	// decides validity so all failure modes look the same from outside.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// DeleteByTokenHash removes the session if it exists. Deleting an
	// unknown hash is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) error
}
