package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	app, _ := newTestApplication(t)

	rr, resp := do(t, app, http.MethodPost, "/api/auth/register", "", RegisterUserPayload{
		Name:     "Priya",
		Email:    "Priya@Example.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "Registration successful", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "priya@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)

	rr, resp = do(t, app, http.MethodPost, "/api/auth/register", "", RegisterUserPayload{
		Name:     "Priya again",
		Email:    "priya@example.com",
		Password: "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "user already exists with this email", resp.Message)

	rr, resp = do(t, app, http.MethodPost, "/api/auth/login", "", LoginPayload{Email: "priya@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Login successful", resp.Message)
	token := resp.Token

	rr, _ = do(t, app, http.MethodPost, "/api/auth/login", "", LoginPayload{Email: "priya@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, resp = do(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Priya", resp.User.Name)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApplication(t)

	tests := []struct {
		name    string
		payload RegisterUserPayload
	}{
		{"short password", RegisterUserPayload{Name: "A", Email: "a@example.com", Password: "12345"}},
		{"bad email", RegisterUserPayload{Name: "A", Email: "not-an-email", Password: "123456"}},
		{"missing name", RegisterUserPayload{Email: "a@example.com", Password: "123456"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, resp := do(t, app, http.MethodPost, "/api/auth/register", "", tc.payload)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.False(t, resp.Success)
		})
	}
}
