package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetPermissions reads the user's capability strings from the store.
	// Guards call this on every check so revocations apply immediately.
	GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	GrantPermission(ctx context.Context, userID uuid.UUID, permission string) error
	RevokePermission(ctx context.Context, userID uuid.UUID, permission string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
