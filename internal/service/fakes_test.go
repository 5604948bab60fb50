package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/pkg/email"
)

// In-memory repositories backing the service tests. The sequence fake
// mirrors the store's eligibility and claim semantics so the concurrency
// properties can be exercised without Postgres.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	failure  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return r.failure
	}
	copied := *session
	r.sessions[session.TokenHash] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return nil, r.failure
	}
	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return r.failure
	}
	delete(r.sessions, tokenHash)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for hash, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, hash)
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*domain.User
	permissions map[uuid.UUID]map[string]struct{}
	permFailure error
	permCalls   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[uuid.UUID]*domain.User),
		permissions: make(map[uuid.UUID]map[string]struct{}),
	}
}

func (r *fakeUserRepo) add(user *domain.User, permissions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	copied.Permissions = nil
	r.users[user.ID] = &copied
	set := make(map[string]struct{})
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	r.permissions[user.ID] = set
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.New("user not found")
}

func (r *fakeUserRepo) GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permCalls++
	if r.permFailure != nil {
		return nil, r.permFailure
	}
	var permissions []string
	for p := range r.permissions[userID] {
		permissions = append(permissions, p)
	}
	sort.Strings(permissions)
	return permissions, nil
}

func (r *fakeUserRepo) GrantPermission(ctx context.Context, userID uuid.UUID, permission string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permissions[userID] == nil {
		r.permissions[userID] = make(map[string]struct{})
	}
	r.permissions[userID][permission] = struct{}{}
	return nil
}

func (r *fakeUserRepo) RevokePermission(ctx context.Context, userID uuid.UUID, permission string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.permissions[userID], permission)
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return errors.New("user not found")
	}
	delete(r.users, id)
	delete(r.permissions, id)
	return nil
}

type fakeLicenseRepo struct {
	mu       sync.Mutex
	license  *domain.License
	failure  error
	getCalls int
}

func (r *fakeLicenseRepo) Get(ctx context.Context) (*domain.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.failure != nil {
		return nil, r.failure
	}
	copied := *r.license
	return &copied, nil
}

func (r *fakeLicenseRepo) UpdateLastCheck(ctx context.Context, key string, checkedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.license != nil && r.license.Key == key {
		r.license.LastCheck = checkedAt
	}
	return nil
}

type fakeSequenceRepo struct {
	mu    sync.Mutex
	steps []*domain.SequenceStep
}

func (r *fakeSequenceRepo) add(step *domain.SequenceStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *step
	r.steps = append(r.steps, &copied)
}

func (r *fakeSequenceRepo) get(id uuid.UUID) *domain.SequenceStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, step := range r.steps {
		if step.ID == id {
			copied := *step
			return &copied
		}
	}
	return nil
}

func (r *fakeSequenceRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.SequenceStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*domain.SequenceStep
	for _, step := range r.steps {
		if step.Status != domain.StepPending || step.ScheduledAt.After(now) {
			continue
		}
		if r.earlierUnresolvedLocked(step) {
			continue
		}
		copied := *step
		due = append(due, &copied)
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].SequenceID != due[j].SequenceID {
			return due[i].SequenceID.String() < due[j].SequenceID.String()
		}
		if due[i].RecipientID != due[j].RecipientID {
			return due[i].RecipientID.String() < due[j].RecipientID.String()
		}
		return due[i].StepIndex < due[j].StepIndex
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakeSequenceRepo) earlierUnresolvedLocked(step *domain.SequenceStep) bool {
	for _, other := range r.steps {
		if other.SequenceID == step.SequenceID &&
			other.RecipientID == step.RecipientID &&
			other.StepIndex < step.StepIndex &&
			other.Status != domain.StepSent &&
			other.Status != domain.StepSkipped {
			return true
		}
	}
	return false
}

func (r *fakeSequenceRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, step := range r.steps {
		if step.ID == id && step.Status == domain.StepPending {
			step.Status = domain.StepSending
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSequenceRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, step := range r.steps {
		if step.ID == id && step.Status == domain.StepSending {
			step.Status = domain.StepSent
			at := sentAt
			step.SentAt = &at
		}
	}
	return nil
}

func (r *fakeSequenceRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, step := range r.steps {
		if step.ID == id && step.Status == domain.StepSending {
			step.Status = domain.StepFailed
		}
	}
	return nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []email.Message
	failFor map[string]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]error)}
}

func (s *fakeSender) failRecipient(to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFor[to] = errors.New("smtp 550")
}

func (s *fakeSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[msg.To]; ok {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
