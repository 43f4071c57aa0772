package main

import (
	"net/http"

	"cityguide/internal/domain/moderation"
	"cityguide/internal/domain/submissions"
)

type CreateSubmissionPayload struct {
	Name          string `json:"name" validate:"required,max=200"`
	Category      string `json:"category" validate:"required"`
	City          string `json:"city" validate:"required,max=100"`
	Description   string `json:"description" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Image         string `json:"image"`
	ContactNumber string `json:"contactNumber" validate:"max=30"`
	Website       string `json:"website" validate:"omitempty,url"`
	NoteForAdmin  string `json:"noteForAdmin" validate:"max=1000"`
}

// createSubmissionHandler godoc
//
//	@Summary		Submit a new place
//	@Description	Stores a pending submission for admin review
//	@Tags			submissions
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateSubmissionPayload	true	"Place details"
//	@Success		201		{object}	envelope
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/submissions [post]
func (app *application) createSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateSubmissionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub, err := app.moderation.Submit(r.Context(), moderation.SubmitInput{
		Name:          payload.Name,
		Category:      payload.Category,
		City:          payload.City,
		Description:   payload.Description,
		Address:       payload.Address,
		Image:         payload.Image,
		ContactNumber: payload.ContactNumber,
		Website:       payload.Website,
		NoteForAdmin:  payload.NoteForAdmin,
	}, user.ID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	app.logger.Infow("place submitted", "submission", sub.ID, "user", user.ID)

	if err := app.messageResponse(w, http.StatusCreated, "Place submitted successfully. Awaiting admin approval.", sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// mySubmissionsHandler godoc
//
//	@Summary		My submissions
//	@Tags			submissions
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/submissions/my [get]
func (app *application) mySubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Submissions.ListBySubmitter(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// submissionCitiesHandler godoc
//
//	@Summary		Suggested cities
//	@Description	Cities offered by the submission form
//	@Tags			submissions
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/submissions/cities [get]
func (app *application) submissionCitiesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, submissions.SuggestedCities); err != nil {
		app.internalServerError(w, r, err)
	}
}
