package service

import (
	"context"
	"errors"
	"log"

	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
	"github.com/nairbf/Reservekit-sub003/pkg/hash"
)

// ErrInvalidCredentials covers both unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users    repository.UserRepository
	sessions *SessionService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Scope    string `json:"scope" validate:"required,oneof=marketing admin dashboard"`
}

type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	// Token is the raw session token, returned once for the cookie.
	Token string
}

func NewAuthService(users repository.UserRepository, sessions *SessionService) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Login verifies credentials and issues a session scoped to the requesting
// application.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	scope, err := domain.ParseAppScope(req.Scope)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := hash.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	session, token, err := s.sessions.Create(ctx, user.ID, scope)
	if err != nil {
		return nil, err
	}

	log.Printf("[AUTH] User %s logged in (scope=%s)", user.ID, scope)

	return &LoginResult{
		User:    user,
		Session: session,
		Token:   token,
	}, nil
}
