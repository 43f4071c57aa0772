package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cityguide/internal/domain/places"
	"cityguide/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PlaceListResponse documents the paginated place listing.
type PlaceListResponse struct {
	Success    bool              `json:"success" example:"true"`
	Data       []places.Place    `json:"data"`
	Pagination params.Pagination `json:"pagination"`
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.New("invalid " + strings.TrimSuffix(name, "ID") + " id")
	}
	return id, nil
}

// listCitiesHandler godoc
//
//	@Summary		List cities
//	@Description	Distinct cities that have at least one place, sorted
//	@Tags			places
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Failure		401	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/cities [get]
func (app *application) listCitiesHandler(w http.ResponseWriter, r *http.Request) {
	cities, err := app.store.Places.ListCities(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cities); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPlacesHandler godoc
//
//	@Summary		List places
//	@Description	Paginated places, optionally in one city, sorted descending
//	@Tags			places
//	@Produce		json
//	@Param			city	query		string	false	"City"
//	@Param			page	query		int		false	"Page (default 1)"
//	@Param			limit	query		int		false	"Items per page (default 10, max 50)"
//	@Param			sort	query		string	false	"Sort key"	Enums(rating, averageRating, totalReviews, name, createdAt)
//	@Success		200		{object}	PlaceListResponse
//	@Failure		401		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/places [get]
func (app *application) listPlacesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := places.Filter{
		City: strings.TrimSpace(q.Get("city")),
		Sort: q.Get("sort"),
	}
	app.writePlacePage(w, r, filter)
}

// searchPlacesHandler godoc
//
//	@Summary		Search places
//	@Description	Case-insensitive keyword match on name, category and description
//	@Tags			places
//	@Produce		json
//	@Param			keyword		query		string	false	"Keyword"
//	@Param			city		query		string	false	"City"
//	@Param			minRating	query		number	false	"Minimum rating"
//	@Param			page		query		int		false	"Page (default 1)"
//	@Param			limit		query		int		false	"Items per page (default 10, max 50)"
//	@Param			sort		query		string	false	"Sort key"
//	@Success		200			{object}	PlaceListResponse
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		401			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/places/search [get]
func (app *application) searchPlacesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := places.Filter{
		City:    strings.TrimSpace(q.Get("city")),
		Keyword: strings.TrimSpace(q.Get("keyword")),
		Sort:    q.Get("sort"),
	}

	if v := strings.TrimSpace(q.Get("minRating")); v != "" {
		minRating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("minRating must be a number"))
			return
		}
		filter.MinRating = minRating
	}

	app.writePlacePage(w, r, filter)
}

func (app *application) writePlacePage(w http.ResponseWriter, r *http.Request, filter places.Filter) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Places.List(r.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.paginatedResponse(w, list, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPlaceHandler godoc
//
//	@Summary		Get a place
//	@Tags			places
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{object}	envelope
//	@Failure		404		{object}	error	"Place not found"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID} [get]
func (app *application) getPlaceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	place, err := app.store.Places.GetByID(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, place); err != nil {
		app.internalServerError(w, r, err)
	}
}
