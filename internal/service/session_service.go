package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
)

// ErrUnauthenticated covers every session failure: missing, unknown,
// expired, or issued for another application. Callers must not be able to
// tell these apart.
var ErrUnauthenticated = errors.New("unauthenticated")

type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock overrides the clock. Tests use this to control expiry.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Create issues a new session for the user scoped to one application and
// returns the raw token exactly once. Only its hash is persisted.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, scope domain.AppScope) (*domain.Session, string, error) {
	rawToken, err := newToken()
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken(rawToken),
		AppScope:  scope,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}

	return session, rawToken, nil
}

// Validate maps a raw cookie token to its user, with the permission set
// loaded fresh from the store. It fails closed: any failure, including
// store errors, surfaces as ErrUnauthenticated.
func (s *SessionService) Validate(ctx context.Context, rawToken string, scope domain.AppScope) (*domain.User, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		log.Printf("[SESSION] Lookup failed: %v", err)
		return nil, ErrUnauthenticated
	}
	if session == nil || session.AppScope != scope || session.Expired(s.now()) {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	permissions, err := s.users.GetPermissions(ctx, user.ID)
	if err != nil {
		log.Printf("[SESSION] Permission load failed for %s: %v", user.ID, err)
		return nil, ErrUnauthenticated
	}
	user.Permissions = permissions

	return user, nil
}

// Revoke deletes the session record. Revoking an unknown or already revoked
// token is a no-op, so response shape never reveals token validity.
func (s *SessionService) Revoke(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.sessions.DeleteByTokenHash(ctx, hashToken(rawToken))
}

// PurgeExpired removes sessions past their expiry. Expired sessions already
// fail validation; this reclaims the rows. Run from the cron surface.
func (s *SessionService) PurgeExpired(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

// newToken returns 256 bits from crypto/rand, hex encoded.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
