package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/config"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/service"
	"github.com/nairbf/Reservekit-sub003/pkg/email"
	"github.com/nairbf/Reservekit-sub003/pkg/hash"
	"github.com/nairbf/Reservekit-sub003/pkg/license"
	"github.com/nairbf/Reservekit-sub003/pkg/validator"
	"github.com/stretchr/testify/require"
)

const (
	testCookie   = "rk_session"
	testSecret   = "cron-secret-for-tests"
	testPassword = "correct-horse-battery"
)

// In-memory stores wired through the real services so tests exercise the
// full middleware and handler chain.

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func (r *memSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.sessions[s.TokenHash] = &copied
	return nil
}

func (r *memSessionRepo) GetByTokenHash(ctx context.Context, h string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[h]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) DeleteByTokenHash(ctx context.Context, h string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, h)
	return nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for h, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, h)
		}
	}
	return nil
}

type memUserRepo struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*domain.User
	permissions map[uuid.UUID]map[string]struct{}
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.New("user not found")
}

func (r *memUserRepo) GetPermissions(ctx context.Context, id uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for p := range r.permissions[id] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memUserRepo) GrantPermission(ctx context.Context, id uuid.UUID, p string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permissions[id] == nil {
		r.permissions[id] = make(map[string]struct{})
	}
	r.permissions[id][p] = struct{}{}
	return nil
}

func (r *memUserRepo) RevokePermission(ctx context.Context, id uuid.UUID, p string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.permissions[id], p)
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	delete(r.permissions, id)
	return nil
}

type memLicenseRepo struct {
	license domain.License
}

func (r *memLicenseRepo) Get(ctx context.Context) (*domain.License, error) {
	copied := r.license
	return &copied, nil
}

func (r *memLicenseRepo) UpdateLastCheck(ctx context.Context, key string, at time.Time) error {
	return nil
}

type memSequenceRepo struct {
	mu           sync.Mutex
	steps        []*domain.SequenceStep
	listDueCalls int
}

func (r *memSequenceRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.SequenceStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listDueCalls++
	var due []*domain.SequenceStep
	for _, s := range r.steps {
		if s.Status == domain.StepPending && !s.ScheduledAt.After(now) && len(due) < limit {
			copied := *s
			due = append(due, &copied)
		}
	}
	return due, nil
}

func (r *memSequenceRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if s.ID == id && s.Status == domain.StepPending {
			s.Status = domain.StepSending
			return true, nil
		}
	}
	return false, nil
}

func (r *memSequenceRepo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if s.ID == id && s.Status == domain.StepSending {
			s.Status = domain.StepSent
			t := at
			s.SentAt = &t
		}
	}
	return nil
}

func (r *memSequenceRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if s.ID == id && s.Status == domain.StepSending {
			s.Status = domain.StepFailed
		}
	}
	return nil
}

type memScheduleRepo struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*domain.Schedule
}

func (r *memScheduleRepo) Upsert(ctx context.Context, s *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.schedules[s.OwnerID] = &copied
	return nil
}

type memSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (s *memSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

type testEnv struct {
	app       *fiber.App
	users     *memUserRepo
	sessions  *memSessionRepo
	schedules *memScheduleRepo
	sequences *memSequenceRepo
	sender    *memSender
	user      *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	passwordHash, err := hash.HashPassword(testPassword)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		PasswordHash: passwordHash,
		Name:         "Owner",
		CreatedAt:    time.Now(),
	}

	users := &memUserRepo{
		users:       map[uuid.UUID]*domain.User{user.ID: user},
		permissions: map[uuid.UUID]map[string]struct{}{},
	}
	sessions := &memSessionRepo{sessions: map[string]*domain.Session{}}
	licenses := &memLicenseRepo{license: domain.License{
		Key:    "ABCD-1234-EFGH-5678",
		Plan:   "pro",
		Status: domain.LicenseActive,
	}}
	schedules := &memScheduleRepo{schedules: map[uuid.UUID]*domain.Schedule{}}
	sequences := &memSequenceRepo{}
	sender := &memSender{}

	sessionService := service.NewSessionService(sessions, users, time.Hour)
	permissionService := service.NewPermissionService(users)
	authService := service.NewAuthService(users, sessionService)
	licenseService := service.NewLicenseService(licenses, license.NewMemoryCache(), time.Hour)
	sequenceService := service.NewSequenceService(sequences, sender, 50)

	cookies := config.SessionConfig{
		TTL:        time.Hour,
		CookieName: testCookie,
		Secure:     false,
	}
	validate := validator.NewValidator()

	app := fiber.New()
	SetupRoutes(
		app,
		NewAuthHandler(authService, sessionService, cookies, validate),
		NewAdminHandler(users, validate),
		NewScheduleHandler(schedules, validate),
		NewHealthHandler(licenseService, "test"),
		NewCronHandler(testSecret, sequenceService, sessionService),
		sessionService,
		permissionService,
		cookies.CookieName,
	)

	return &testEnv{
		app:       app,
		users:     users,
		sessions:  sessions,
		schedules: schedules,
		sequences: sequences,
		sender:    sender,
		user:      user,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T, scope string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/"+scope+"/auth/login", fiber.Map{
		"email":    e.user.Email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == testCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login response did not set a session cookie")
	return ""
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
