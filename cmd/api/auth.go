package main

import (
	"errors"
	"net/http"
	"strings"

	"cityguide/internal/auth"
	"cityguide/internal/domain/users"
)

// ErrorBadRequestResponse represents the standard error format for bad request API responses.
//
//	@name			ErrorBadRequestResponse
//	@description	Standard error response format returned by all bad request API endpoints
type ErrorBadRequestResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Rating must be between 1 and 5"`
	Status  int    `json:"status" example:"400"`
}

// ErrorInternalServerResponse represents the standard error format for internal server API responses.
//
//	@name			ErrorInternalServerResponse
//	@description	Standard error response format returned by all internal server error API endpoints
type ErrorInternalServerResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"the server encountered a problem"`
	Status  int    `json:"status" example:"500"`
}

type RegisterUserPayload struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    UserSummary `json:"user"`
}

var errInvalidCredentials = errors.New("invalid email or password")

func summarize(u *users.User) UserSummary {
	return UserSummary{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func (app *application) issueToken(u *users.User) (string, error) {
	return app.authenticator.GenerateToken(auth.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
	})
}

// registerUserHandler godoc
//
//	@Summary		Registers a user
//	@Description	Creates an account and returns a signed token for it
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload			true	"User credentials"
//	@Success		201		{object}	AuthResponse				"User registered"
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		429		{object}	error						"Too many requests"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Router			/auth/register [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &users.User{
		Name:  strings.TrimSpace(payload.Name),
		Email: strings.ToLower(strings.TrimSpace(payload.Email)),
		Role:  users.RoleUser,
	}
	// hash the user password.
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		app.domainError(w, r, err)
		return
	}

	token, err := app.issueToken(user)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("user registered", "user", user.ID, "email", user.Email)

	if err := writeJSON(w, http.StatusCreated, &AuthResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
		User:    summarize(user),
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// loginHandler godoc
//
//	@Summary		Log in
//	@Description	Verifies credentials and returns a signed token
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"User credentials"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		401		{object}	error	"Invalid email or password"
//	@Failure		429		{object}	error	"Too many requests"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/auth/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.unauthorizedErrorResponse(w, r, errInvalidCredentials)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, errInvalidCredentials)
		return
	}

	token, err := app.issueToken(user)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, &AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    summarize(user),
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// meHandler godoc
//
//	@Summary		Current user
//	@Description	Returns the profile of the token's bearer
//	@Tags			authentication
//	@Produce		json
//	@Success		200	{object}	AuthResponse
//	@Failure		401	{object}	error
//	@Failure		403	{object}	error	"Account banned"
//	@Security		ApiKeyAuth
//	@Router			/auth/me [get]
func (app *application) meHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := writeJSON(w, http.StatusOK, &AuthResponse{Success: true, User: summarize(user)}); err != nil {
		app.internalServerError(w, r, err)
	}
}
