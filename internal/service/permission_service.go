package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
)

// ErrForbidden means the session is valid but the capability is missing.
// Which capability was missing is never reported past this error.
var ErrForbidden = errors.New("forbidden")

// Registered capabilities. Permissions stay open strings in the store, but
// routes may only gate on names from this registry so a typo cannot become
// a silent permanent bypass.
const (
	CapManageSchedule     = "manage_schedule"
	CapManageReservations = "manage_reservations"
	CapManageUsers        = "manage_users"
	CapViewReports        = "view_reports"
	CapPlatformAdmin      = "platform_admin"
)

var capabilities = map[string]struct{}{
	CapManageSchedule:     {},
	CapManageReservations: {},
	CapManageUsers:        {},
	CapViewReports:        {},
	CapPlatformAdmin:      {},
}

// KnownCapability reports whether the capability name is registered.
func KnownCapability(capability string) bool {
	_, ok := capabilities[capability]
	return ok
}

type PermissionService struct {
	users repository.UserRepository
}

func NewPermissionService(users repository.UserRepository) *PermissionService {
	return &PermissionService{users: users}
}

// Require checks the capability against the store on every call, so a
// permission revoked mid-session is honored on the next guarded request.
// Store errors deny rather than allow.
func (s *PermissionService) Require(ctx context.Context, userID uuid.UUID, capability string) error {
	permissions, err := s.users.GetPermissions(ctx, userID)
	if err != nil {
		log.Printf("[PERMISSION] Check failed for %s: %v", userID, err)
		return ErrForbidden
	}

	for _, p := range permissions {
		if p == capability {
			return nil
		}
	}

	return ErrForbidden
}
