package domain

import (
	"time"
)

type LicenseStatus string

const (
	LicenseActive    LicenseStatus = "active"
	LicenseExpired   LicenseStatus = "expired"
	LicenseSuspended LicenseStatus = "suspended"
	LicenseInvalid   LicenseStatus = "invalid"
)

// License is the stored entitlement record for the deployed instance.
type License struct {
	Key       string        `json:"-" db:"key"`
	Plan      string        `json:"plan" db:"plan"`
	Status    LicenseStatus `json:"status" db:"status"`
	ExpiresAt *time.Time    `json:"expires_at" db:"expires_at"`
	LastCheck time.Time     `json:"last_check" db:"last_check"`
}

// LicenseInfo is the externally visible entitlement state. Key is already
// masked; Valid is derived from Status, never set independently.
type LicenseInfo struct {
	Key       string        `json:"key"`
	Valid     bool          `json:"valid"`
	Plan      string        `json:"plan"`
	Status    LicenseStatus `json:"status"`
	LastCheck time.Time     `json:"last_check"`
}

// MaskLicenseKey reduces a license key to a redaction marker plus its last
// four characters. The full key never leaves the service boundary.
func MaskLicenseKey(key string) string {
	if key == "" {
		return ""
	}
	const visible = 4
	if len(key) <= visible {
		return "****"
	}
	// Fixed-width marker so key length is not inferable.
	return "****-" + key[len(key)-visible:]
}

// Info derives the masked, externally safe view of the license at the given
// check time.
func (l *License) Info(now time.Time) *LicenseInfo {
	status := l.Status
	if status == LicenseActive && l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		status = LicenseExpired
	}
	return &LicenseInfo{
		Key:       MaskLicenseKey(l.Key),
		Valid:     status == LicenseActive,
		Plan:      l.Plan,
		Status:    status,
		LastCheck: l.LastCheck,
	}
}
