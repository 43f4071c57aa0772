package main

import (
	"errors"
	"net/http"

	"cityguide/internal/domain/access"
	"cityguide/internal/domain/places"
)

type ProposeUpdatePayload struct {
	Name          string `json:"name" validate:"max=200"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber" validate:"max=30"`
	Website       string `json:"website" validate:"omitempty,url"`
}

var errPlaceNotDeletable = errors.New("place not found or you do not have permission to delete")

// myPlacesHandler godoc
//
//	@Summary		My places
//	@Description	Places owned by the caller, newest first
//	@Tags			my-places
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/my-places [get]
func (app *application) myPlacesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Places.ListByOwner(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// proposePlaceUpdateHandler godoc
//
//	@Summary		Propose an edit to an owned place
//	@Description	Creates an update request for admin approval. Omitted fields keep their current values.
//	@Tags			my-places
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		string					true	"Place ID"
//	@Param			payload	body		ProposeUpdatePayload	true	"Changed fields"
//	@Success		200		{object}	envelope
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		403		{object}	error	"Not the owner"
//	@Failure		404		{object}	error	"Place not found"
//	@Security		ApiKeyAuth
//	@Router			/my-places/{placeID} [patch]
func (app *application) proposePlaceUpdateHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	placeID, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ProposeUpdatePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	req, err := app.moderation.ProposeUpdate(r.Context(), placeID, places.Changes(payload), user.ID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.messageResponse(w, http.StatusOK, "Update request submitted for admin approval", req); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteMyPlaceHandler godoc
//
//	@Summary		Delete an owned place
//	@Description	Deletes the place and every favorite pointing at it
//	@Tags			my-places
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{object}	envelope
//	@Failure		404		{object}	error	"Place not found or not owned"
//	@Security		ApiKeyAuth
//	@Router			/my-places/{placeID} [delete]
func (app *application) deleteMyPlaceHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	placeID, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	place, err := app.store.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, places.ErrNotFound) {
			app.notFoundResponse(w, r, errPlaceNotDeletable)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if !access.CanModifyPlace(user, place) {
		app.notFoundResponse(w, r, errPlaceNotDeletable)
		return
	}

	// owners delete conditionally so a concurrent ownership change wins
	if place.OwnedBy(user.ID) {
		err = app.store.Places.DeleteOwned(ctx, placeID, user.ID)
	} else {
		err = app.store.Places.Delete(ctx, placeID)
	}
	if err != nil {
		if errors.Is(err, places.ErrNotFound) {
			app.notFoundResponse(w, r, errPlaceNotDeletable)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("place deleted by owner", "place", placeID, "user", user.ID)

	if err := app.messageResponse(w, http.StatusOK, "Place deleted successfully", nil); err != nil {
		app.internalServerError(w, r, err)
	}
}

// myUpdatesHandler godoc
//
//	@Summary		My update requests
//	@Tags			my-places
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/my-updates [get]
func (app *application) myUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Updates.ListBySubmitter(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
