package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andressep95/deen-service/internal/access"
	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type stubVerifier map[string]*domain.Claims

func (s stubVerifier) VerifyAccessToken(token string) (*domain.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("token signature is invalid")
}

type stubStore struct {
	users  map[uuid.UUID]*domain.User
	grants map[uuid.UUID][]domain.UserGrant
	err    error
}

func (s *stubStore) FindByIDAndEmail(_ context.Context, id uuid.UUID, email string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok || u.Email != email {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubStore) GetUserGrants(_ context.Context, id uuid.UUID) ([]domain.UserGrant, error) {
	return s.grants[id], nil
}

type gateFixture struct {
	gate  *access.Gate
	store *stubStore
	users map[domain.Role]*domain.User
}

// newGateFixture issues the token "<role>" for one user per role, plus
// "blocked" for a blocked moderator.
func newGateFixture() *gateFixture {
	f := &gateFixture{
		store: &stubStore{users: map[uuid.UUID]*domain.User{}, grants: map[uuid.UUID][]domain.UserGrant{}},
		users: map[domain.Role]*domain.User{},
	}
	tokens := stubVerifier{}
	exp := jwt.NewNumericDate(testNow.Add(time.Hour))

	add := func(token string, role domain.Role, status domain.UserStatus) *domain.User {
		u := &domain.User{ID: uuid.New(), Email: token + "@deen.test", Role: role, Status: status}
		f.store.users[u.ID] = u
		tokens[token] = &domain.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}, UserID: u.ID, Email: u.Email}
		return u
	}
	for _, role := range domain.Roles {
		f.users[role] = add(string(role), role, domain.UserStatusActive)
	}
	add("blocked", domain.RoleModerator, domain.UserStatusBlocked)

	f.gate = access.NewGate(tokens, f.store, f.store, access.WithClock(func() time.Time { return testNow }))
	return f
}

func (f *gateFixture) grant(role domain.Role, resource domain.Resource, action domain.Action) {
	id := f.users[role].ID
	f.store.grants[id] = append(f.store.grants[id], domain.UserGrant{Resource: resource, Action: action})
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func call(t *testing.T, app *fiber.App, token string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/duas", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var r response
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		require.NoError(t, json.Unmarshal(body, &r))
	}
	return resp.StatusCode, r
}

func newApp(gate Authorizer, req access.Requirement) *fiber.App {
	app := fiber.New()
	app.Post("/duas", Require(gate, req), func(c *fiber.Ctx) error {
		return c.SendString(string(Identity(c).Role))
	})
	return app
}

func TestRequire_Decisions(t *testing.T) {
	f := newGateFixture()
	f.grant(domain.RoleModerator, domain.ResourceDua, domain.ActionCreate)
	app := newApp(f.gate, Grant(domain.ResourceDua, domain.ActionCreate, domain.RoleAdmin, domain.RoleModerator))

	tests := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{name: "no token", token: "", status: 401, message: access.ReasonUnauthorized},
		{name: "bad token", token: "forged", status: 401, message: access.ReasonUnauthorized},
		{name: "blocked", token: "blocked", status: 403, message: access.ReasonBlocked},
		{name: "wrong role", token: "USER", status: 403, message: access.ReasonRoleForbidden},
		{name: "role without grant", token: "ADMIN", status: 403, message: access.ReasonPermissionForbidden},
		{name: "role with grant", token: "MODERATOR", status: 200},
		{name: "super admin bypass", token: "SUPERADMIN", status: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.token)
			assert.Equal(t, tt.status, status)
			if tt.status != 200 {
				assert.False(t, body.Success)
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestRequire_RoleOnly(t *testing.T) {
	f := newGateFixture()
	app := newApp(f.gate, Roles(domain.RoleAdmin))

	status, _ := call(t, app, "ADMIN")
	assert.Equal(t, 200, status)

	status, _ = call(t, app, "MODERATOR")
	assert.Equal(t, 403, status)
}

func TestRequire_StorageFailureIsInternal(t *testing.T) {
	f := newGateFixture()
	f.store.err = errors.New("connection reset")
	app := newApp(f.gate, Roles())

	status, _ := call(t, app, "USER")
	assert.Equal(t, 500, status)
}

func TestRecovery(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(Recovery(log))
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "panic recovered", hook.LastEntry().Message)
}

func TestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(Logger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(204) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	resp.Body.Close()
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 204, entry.Data["status"])
	assert.Equal(t, "/ok", entry.Data["path"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 404, hook.LastEntry().Data["status"])
}

func TestLogger_UsesRenderedStatus(t *testing.T) {
	errTaken := errors.New("slug taken")
	log, hook := test.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		if errors.Is(err, errTaken) {
			return c.Status(fiber.StatusConflict).SendString(err.Error())
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}})
	app.Use(Logger(log))
	app.Post("/blog", func(c *fiber.Ctx) error { return errTaken })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/blog", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, fiber.StatusConflict, hook.LastEntry().Data["status"])
}

func TestRateLimiter(t *testing.T) {
	rl, err := NewRateLimiter(0.001, 2, 10)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/login", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	codes := make([]int, 0, 3)
	for range 3 {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimiter_EvictsOldClients(t *testing.T) {
	rl, err := NewRateLimiter(0.001, 1, 2)
	require.NoError(t, err)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.True(t, rl.Allow("c"))

	// "a" was evicted and starts with a full bucket again.
	assert.True(t, rl.Allow("a"))
	assert.Equal(t, 2, rl.limiters.Len())
}

func TestCORS_NoCredentialsForWildcard(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"*"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}
