package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclubapp/bookclub-server/internal/auth"
	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/media/images"
	"github.com/bookclubapp/bookclub-server/internal/service"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite/sqlitetest"
)

// testServer wraps the API server with direct access to its backing stores.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
	blobs *images.MemoryStorage
}

// testEnvelope mirrors response.Envelope with a typed payload.
type testEnvelope[T any] struct {
	Success bool            `json:"success"`
	Data    T               `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func defaultOptions() Options {
	return Options{
		MaxUploadBytes: 1 << 20,
		LoginPerMinute: 1000,
		LoginBurst:     1000,
	}
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, defaultOptions())
}

func setupTestServerWith(t *testing.T, opts Options) *testServer {
	t.Helper()

	log := logger.Discard().Logger
	st := sqlitetest.NewStore(t)
	blobs := images.NewMemoryStorage()
	g := graph.New(st, blobs, log)

	tokenService, err := auth.NewTokenService(bytes.Repeat([]byte{3}, 32), 15*time.Minute)
	require.NoError(t, err)

	services := &Services{
		Auth:     service.NewAuthService(st, tokenService, log),
		Group:    service.NewGroupService(st, g, log),
		Category: service.NewCategoryService(st, g, log),
		Book:     service.NewBookService(st, g, log),
		Opinion:  service.NewOpinionService(st, log),
		Image:    service.NewImageService(st, g, blobs, images.NewProcessor(opts.MaxUploadBytes, log), log),
	}

	s := NewServer(services, st, opts, log)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
		blobs:  blobs,
	}
}

// decodeEnvelope decodes a response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

// signup creates an account through the API and returns its bearer header.
func (ts *testServer) signup(t *testing.T, email, name string) (string, *domain.User) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    email,
		"name":     name,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decodeEnvelope[service.AuthResponse](t, resp)
	require.NotEmpty(t, env.Data.AccessToken)
	return "Authorization: Bearer " + env.Data.AccessToken, env.Data.User
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	assert.Equal(t, "unhealthy", env.Data.Status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/groups"},
		{http.MethodGet, "/api/v1/groups/club"},
		{http.MethodGet, "/api/v1/groups/club/categories"},
		{http.MethodPost, "/api/v1/groups/club/draw"},
		{http.MethodGet, "/api/v1/groups/club/images"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := ts.api.Do(tt.method, tt.path, "Authorization: Bearer not-a-token")
			assert.Equal(t, http.StatusUnauthorized, resp.Code)

			env := decodeEnvelope[any](t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, "UNAUTHORIZED", env.Code)
		})
	}
}

func TestSignupAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	_, user := ts.signup(t, "Ala@Example.com", "Ala")
	assert.Equal(t, "ala@example.com", user.Email)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ala@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[service.AuthResponse](t, resp)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.Equal(t, user.ID, env.Data.User.ID)

	// The issued token authenticates later requests.
	groups := ts.api.Get("/api/v1/groups", "Authorization: Bearer "+env.Data.AccessToken)
	assert.Equal(t, http.StatusOK, groups.Code)
}

func TestSignup_PaddedEmail(t *testing.T) {
	ts := setupTestServer(t)

	_, user := ts.signup(t, "  Padded@Example.com ", "Padded")
	assert.Equal(t, "padded@example.com", user.Email)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    " PADDED@example.com",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "kasia@example.com", "Kasia")

	t.Run("requires a token", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/password", map[string]any{
			"current_password": "correct horse battery",
			"new_password":     "battery staple horse",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/password", authHeader, map[string]any{
			"current_password": "not my password",
			"new_password":     "battery staple horse",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope[any](t, resp).Code)
	})

	t.Run("short new password", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/password", authHeader, map[string]any{
			"current_password": "correct horse battery",
			"new_password":     "short",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "new_password", detailsField(t, decodeEnvelope[any](t, resp).Details))
	})

	resp := ts.api.Post("/api/v1/auth/password", authHeader, map[string]any{
		"current_password": "correct horse battery",
		"new_password":     "battery staple horse",
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	old := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "kasia@example.com",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "kasia@example.com",
		"password": "battery staple horse",
	})
	assert.Equal(t, http.StatusOK, fresh.Code, fresh.Body.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "ola@example.com", "Ola")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ola@example.com",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope[any](t, resp).Code)
}

func TestSignup_Validation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{"bad email", map[string]any{"email": "nope", "name": "X", "password": "long enough"}, "email"},
		{"blank name", map[string]any{"email": "x@example.com", "name": "  ", "password": "long enough"}, "name"},
		{"short password", map[string]any{"email": "x@example.com", "name": "X", "password": "short"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)

			env := decodeEnvelope[any](t, resp)
			assert.Equal(t, "VALIDATION", env.Code)
			assert.Equal(t, tt.wantField, detailsField(t, env.Details))
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "ewa@example.com", "Ewa")

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "EWA@example.com",
		"name":     "Ewa Again",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeEnvelope[any](t, resp).Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServerWith(t, Options{LoginPerMinute: 1, LoginBurst: 2})

	body := map[string]any{"email": "who@example.com", "password": "whatever1"}
	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope[any](t, resp).Code)

	// Another client keeps its own bucket.
	other := ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.9", body)
	assert.Equal(t, http.StatusUnauthorized, other.Code)
}

// detailsField extracts the offending field from a FieldError details payload.
func detailsField(t *testing.T, details json.RawMessage) string {
	t.Helper()
	var fe struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(details, &fe))
	return fe.Field
}
