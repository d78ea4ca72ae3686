package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func nullLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*domain.User
	lastList  query.Options
	lastParts query.Parts
	err       error
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrConflict
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *memUsers) FindByIDAndEmail(_ context.Context, id uuid.UUID, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id && u.Email == email })
}

func (m *memUsers) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	_, err := m.find(func(u *domain.User) bool { return u.Role == role })
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *memUsers) List(_ context.Context, parts query.Parts, opts query.Options) ([]domain.User, domain.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList, m.lastParts = opts, parts
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, domain.Meta{Page: 1, Limit: 10, Total: int64(len(out))}, nil
}

func (m *memUsers) Update(_ context.Context, id uuid.UUID, changes repository.Changes) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, v := range changes {
		switch col {
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "status":
			u.Status = v.(domain.UserStatus)
		}
	}
	cp := *u
	return &cp, nil
}

// fakeTokens issues tokens that encode the user id.
type fakeTokens struct {
	refresh map[string]*domain.Claims
}

func (f *fakeTokens) GenerateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, _ := f.GenerateAccessToken(user)
	return &domain.TokenPair{AccessToken: access, RefreshToken: "refresh-" + user.ID.String()}, nil
}

func (f *fakeTokens) GenerateAccessToken(user *domain.User) (string, error) {
	return "access-" + user.ID.String(), nil
}

func (f *fakeTokens) ValidateRefreshToken(token string) (*domain.Claims, error) {
	c, ok := f.refresh[token]
	if !ok {
		return nil, errors.New("token is malformed")
	}
	return c, nil
}

func (f *fakeTokens) RefreshExpiry() time.Duration { return 7 * 24 * time.Hour }

// plainHasher stores passwords with a marker prefix.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, "hashed:") {
		return false, errors.New("unknown hash")
	}
	return encoded == "hashed:"+password, nil
}

type fakeRevoker struct {
	tokens map[string]bool
	users  map[string]time.Time
	err    error
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{tokens: map[string]bool{}, users: map[string]time.Time{}}
}

func (f *fakeRevoker) Revoke(_ context.Context, token string, _ time.Time) error {
	f.tokens[token] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	return f.tokens[token], f.err
}

func (f *fakeRevoker) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.users[userID] = testNow
	return nil
}

func (f *fakeRevoker) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	at, ok := f.users[userID]
	return ok && issuedAt.Before(at), f.err
}

type sentMail struct {
	kind, to, detail string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (f *fakeNotifier) SendWelcome(_ context.Context, to, _ string) error {
	f.sent = append(f.sent, sentMail{"welcome", to, ""})
	return f.err
}

func (f *fakeNotifier) SendPasswordChanged(_ context.Context, to, _ string) error {
	f.sent = append(f.sent, sentMail{"password", to, ""})
	return f.err
}

func (f *fakeNotifier) SendAccountStatus(_ context.Context, to, _, status string) error {
	f.sent = append(f.sent, sentMail{"status", to, status})
	return f.err
}

// stubContent is a scriptable ContentRepository.
type stubContent[T any] struct {
	items       map[uuid.UUID]*T
	createErr   error
	updateErr   error
	deleteErr   error
	created     []*T
	lastChanges repository.Changes
	lastParts   query.Parts
	lastOpts    query.Options
	deleted     []uuid.UUID
}

func newStubContent[T any]() *stubContent[T] {
	return &stubContent[T]{items: map[uuid.UUID]*T{}}
}

func (s *stubContent[T]) Create(_ context.Context, item *T) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, item)
	return nil
}

func (s *stubContent[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

func (s *stubContent[T]) List(_ context.Context, parts query.Parts, opts query.Options) ([]T, domain.Meta, error) {
	s.lastParts, s.lastOpts = parts, opts
	return nil, domain.Meta{Page: 1, Limit: 10}, nil
}

func (s *stubContent[T]) Update(_ context.Context, id uuid.UUID, changes repository.Changes) (*T, error) {
	s.lastChanges = changes
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

func (s *stubContent[T]) SoftDelete(_ context.Context, id uuid.UUID) (*T, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

func (s *stubContent[T]) Delete(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubCategories struct {
	*stubContent[domain.Category]
	books int64
}

func (s *stubCategories) CountBooks(context.Context, uuid.UUID) (int64, error) {
	return s.books, nil
}
