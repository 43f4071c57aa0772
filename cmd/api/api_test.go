package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cityguide/internal/auth"
	"cityguide/internal/domain/moderation"
	"cityguide/internal/domain/places"
	"cityguide/internal/domain/reviews"
	"cityguide/internal/domain/storage/storagetest"
	"cityguide/internal/domain/users"
	"cityguide/internal/images"
	"cityguide/internal/params"
	"cityguide/internal/ratelimiter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *params.Pagination `json:"pagination"`
	Token      string             `json:"token"`
	User       UserSummary        `json:"user"`
	ImageURL   string             `json:"imageUrl"`
	Filename   string             `json:"filename"`
}

func newTestApplication(t *testing.T) (*application, *storagetest.DB) {
	t.Helper()

	mem := storagetest.New()
	store := mem.Container()
	logger := zap.NewNop().Sugar()

	imageStore, err := images.NewDiskStore(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)

	app := &application{
		config: config{
			env: "test",
			auth: authConfig{
				basic: basicConfig{user: "ops", pass: "secret"},
			},
			rateLimiter: ratelimiter.Config{RequestsPerTimeFrame: 100, TimeFrame: time.Minute, Enabled: true},
		},
		store:         store,
		logger:        logger,
		images:        imageStore,
		authenticator: auth.NewJWTAuthenticator("test-secret", "CityGuide", "CityGuide", time.Hour),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(100, time.Minute),
		reviews:       reviews.NewService(store.Places, nil),
		moderation:    moderation.NewService(store.Submissions, store.Updates, store.Places, nil, logger),
	}
	return app, mem
}

func createUser(t *testing.T, app *application, name string, role users.Role) *users.User {
	t.Helper()

	u := &users.User{Name: name, Email: name + "@example.com", Role: role}
	require.NoError(t, u.Password.Set("password123"))
	require.NoError(t, app.store.Users.Create(context.Background(), u))
	return u
}

func tokenFor(t *testing.T, app *application, u *users.User) string {
	t.Helper()

	token, err := app.issueToken(u)
	require.NoError(t, err)
	return token
}

func createPlace(t *testing.T, app *application, name, city string, owner *users.User) *places.Place {
	t.Helper()

	p := &places.Place{
		ID:          uuid.New(),
		Name:        name,
		Category:    "cafe",
		City:        city,
		Description: name + " description",
		Image:       places.DefaultImage,
		Reviews:     []places.Review{},
	}
	if owner != nil {
		p.OwnerID = &owner.ID
	}
	created, err := app.store.Places.CreateIfAbsent(context.Background(), p)
	require.NoError(t, err)
	require.True(t, created)
	return p
}

func do(t *testing.T, app *application, method, path, token string, body any) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)

	var resp testResponse
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	}
	return rr, resp
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	app, _ := newTestApplication(t)

	rr, resp := do(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "CityGuide API is running!", resp.Message)

	rr, resp = do(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Route not found", resp.Message)
}

func TestAuthTokenMiddleware(t *testing.T) {
	app, _ := newTestApplication(t)

	active := createUser(t, app, "alice", users.RoleUser)
	banned := createUser(t, app, "bob", users.RoleUser)
	no := false
	_, err := app.store.Users.Update(context.Background(), banned.ID, users.Patch{IsActive: &no})
	require.NoError(t, err)

	ghost := &users.User{ID: uuid.New(), Name: "ghost", Email: "ghost@example.com", Role: users.RoleUser}

	other := auth.NewJWTAuthenticator("other-secret", "CityGuide", "CityGuide", time.Hour)
	forged, err := other.GenerateToken(auth.Identity{UserID: active.ID, Email: active.Email, Role: "user"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"forged token", "Bearer " + forged, http.StatusUnauthorized},
		{"unknown user", "Bearer " + tokenFor(t, app, ghost), http.StatusNotFound},
		{"banned user", "Bearer " + tokenFor(t, app, banned), http.StatusForbidden},
		{"valid", "Bearer " + tokenFor(t, app, active), http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cities", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			app.mount().ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app, _ := newTestApplication(t)

	user := createUser(t, app, "carol", users.RoleUser)
	admin := createUser(t, app, "dave", users.RoleAdmin)

	rr, _ := do(t, app, http.MethodGet, "/api/admin/users", tokenFor(t, app, user), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, resp := do(t, app, http.MethodGet, "/api/admin/users", tokenFor(t, app, admin), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var list []users.User
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Len(t, list, 2)
}

func TestBasicAuthOnDebugVars(t *testing.T) {
	app, _ := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	req = httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("ops:secret")))
	rr = httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiterMiddleware(t *testing.T) {
	app, _ := newTestApplication(t)
	app.rateLimiter = ratelimiter.NewFixedWindowLimiter(2, time.Minute)

	body := LoginPayload{Email: "nobody@example.com", Password: "whatever"}
	for i := 0; i < 2; i++ {
		rr, _ := do(t, app, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr, resp := do(t, app, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	app.config.rateLimiter.Enabled = false
	rr, _ = do(t, app, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
