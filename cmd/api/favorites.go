package main

import (
	"net/http"

	"github.com/google/uuid"
)

type AddFavoritePayload struct {
	PlaceID uuid.UUID `json:"placeId" validate:"required"`
}

// listFavoritesHandler godoc
//
//	@Summary		List favorites
//	@Description	The caller's favorites joined with place details, newest first
//	@Tags			favorites
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Failure		401	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/favorites [get]
func (app *application) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Favorites.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addFavoriteHandler godoc
//
//	@Summary		Add a favorite
//	@Tags			favorites
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		AddFavoritePayload	true	"Place to favorite"
//	@Success		200		{object}	envelope
//	@Failure		400		{object}	ErrorBadRequestResponse	"Already in favorites"
//	@Failure		404		{object}	error					"Place not found"
//	@Security		ApiKeyAuth
//	@Router			/favorites [post]
func (app *application) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload AddFavoritePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	if _, err := app.store.Places.GetByID(ctx, payload.PlaceID); err != nil {
		app.domainError(w, r, err)
		return
	}

	fav, err := app.store.Favorites.Add(ctx, user.ID, payload.PlaceID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.messageResponse(w, http.StatusOK, "Added to favorites", fav); err != nil {
		app.internalServerError(w, r, err)
	}
}

// removeFavoriteHandler godoc
//
//	@Summary		Remove a favorite
//	@Tags			favorites
//	@Produce		json
//	@Param			favoriteID	path		string	true	"Favorite ID"
//	@Success		200			{object}	envelope
//	@Failure		404			{object}	error	"Favorite not found"
//	@Security		ApiKeyAuth
//	@Router			/favorites/{favoriteID} [delete]
func (app *application) removeFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	id, err := parseIDParam(r, "favoriteID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Favorites.Remove(r.Context(), id, user.ID); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.messageResponse(w, http.StatusOK, "Removed from favorites", nil); err != nil {
		app.internalServerError(w, r, err)
	}
}
