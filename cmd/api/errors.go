package main

import (
	"errors"
	"net/http"

	"cityguide/internal/domain/access"
	"cityguide/internal/domain/favorites"
	"cityguide/internal/domain/moderation"
	"cityguide/internal/domain/places"
	"cityguide/internal/domain/submissions"
	"cityguide/internal/domain/updates"
	"cityguide/internal/domain/users"
	"cityguide/internal/images"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

// conflictResponse keeps the 400 status clients already handle for duplicates.
func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, err.Error())
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusForbidden, err.Error())
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// domainError maps the sentinel errors of the domain packages onto responses.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, places.ErrNotFound),
		errors.Is(err, places.ErrReviewNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, favorites.ErrNotFound),
		errors.Is(err, submissions.ErrNotFound),
		errors.Is(err, updates.ErrNotFound):
		app.notFoundResponse(w, r, err)

	case errors.Is(err, places.ErrNotOwner),
		errors.Is(err, access.ErrAccountBanned),
		errors.Is(err, access.ErrAdminOnly):
		app.forbiddenResponse(w, r, err)

	case errors.Is(err, places.ErrDuplicateReview),
		errors.Is(err, favorites.ErrAlreadyFavorited),
		errors.Is(err, users.ErrDuplicateEmail),
		errors.Is(err, moderation.ErrAlreadyReviewed):
		app.conflictResponse(w, r, err)

	case errors.Is(err, places.ErrInvalidRating),
		errors.Is(err, places.ErrEmptyComment),
		errors.Is(err, places.ErrEmptyReply),
		errors.Is(err, places.ErrInvalidCategory),
		errors.Is(err, moderation.ErrValidation),
		errors.Is(err, moderation.ErrInvalidDecision),
		errors.Is(err, access.ErrSelfDeletion),
		errors.Is(err, images.ErrNotImage),
		errors.Is(err, images.ErrTooLarge):
		app.badRequestResponse(w, r, err)

	default:
		app.internalServerError(w, r, err)
	}
}
