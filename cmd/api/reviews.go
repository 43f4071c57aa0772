package main

import (
	"net/http"

	"cityguide/internal/domain/places"
)

type CreateReviewPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReplyPayload struct {
	Reply string `json:"reply"`
}

// createReviewHandler godoc
//
//	@Summary		Review a place
//	@Description	Appends the caller's review and recomputes the place rating. One review per user per place.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		string				true	"Place ID"
//	@Param			payload	body		CreateReviewPayload	true	"Rating 1-5 and comment"
//	@Success		200		{object}	envelope			"Updated place"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Place not found"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	placeID, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// a missing rating decodes as 0 and is rejected with the comment check
	if payload.Rating == 0 {
		app.badRequestResponse(w, r, places.ErrEmptyComment)
		return
	}

	place, _, err := app.reviews.Add(r.Context(), placeID, user, payload.Rating, payload.Comment)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.messageResponse(w, http.StatusOK, "Review added successfully", place); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getReviewsHandler godoc
//
//	@Summary		List a place's reviews
//	@Tags			reviews
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{object}	envelope
//	@Failure		404		{object}	error	"Place not found"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews [get]
func (app *application) getReviewsHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	summary, err := app.reviews.Summary(r.Context(), placeID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, summary); err != nil {
		app.internalServerError(w, r, err)
	}
}

// replyToReviewHandler godoc
//
//	@Summary		Reply to a review
//	@Description	Sets the owner's reply on a review, replacing any earlier reply. Only the place owner may reply.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID		path		string			true	"Place ID"
//	@Param			reviewID	path		string			true	"Review ID"
//	@Param			payload		body		ReplyPayload	true	"Reply text"
//	@Success		200			{object}	envelope
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		403			{object}	error	"Not the owner"
//	@Failure		404			{object}	error	"Place or review not found"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews/{reviewID}/reply [post]
func (app *application) replyToReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	placeID, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReplyPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.reviews.Reply(r.Context(), placeID, reviewID, user.ID, payload.Reply)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.messageResponse(w, http.StatusOK, "Reply added successfully", review); err != nil {
		app.internalServerError(w, r, err)
	}
}
