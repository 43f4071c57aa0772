package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"cityguide/internal/domain/favorites"
	"cityguide/internal/domain/places"
	"cityguide/internal/domain/reviews"
	"cityguide/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAndSearchPlaces(t *testing.T) {
	app, _ := newTestApplication(t)
	user := createUser(t, app, "erin", users.RoleUser)
	token := tokenFor(t, app, user)

	for i := 0; i < 12; i++ {
		createPlace(t, app, fmt.Sprintf("Cafe %02d", i), "Pune", nil)
	}
	createPlace(t, app, "City Museum", "Mumbai", nil)

	rr, resp := do(t, app, http.MethodGet, "/api/cities", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var cities []string
	require.NoError(t, json.Unmarshal(resp.Data, &cities))
	assert.Equal(t, []string{"Mumbai", "Pune"}, cities)

	rr, resp = do(t, app, http.MethodGet, "/api/places?city=Pune&page=2", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page []places.Place
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page, 2)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, 12, resp.Pagination.TotalItems)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)

	rr, resp = do(t, app, http.MethodGet, "/api/places/search?keyword=museum", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page, 1)
	assert.Equal(t, "City Museum", page[0].Name)

	rr, _ = do(t, app, http.MethodGet, "/api/places/search?minRating=high", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPlace(t *testing.T) {
	app, _ := newTestApplication(t)
	token := tokenFor(t, app, createUser(t, app, "fay", users.RoleUser))
	p := createPlace(t, app, "Lalbagh", "Bangalore", nil)

	rr, resp := do(t, app, http.MethodGet, "/api/places/"+p.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got places.Place
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "Lalbagh", got.Name)

	rr, resp = do(t, app, http.MethodGet, "/api/places/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "place not found", resp.Message)

	rr, _ = do(t, app, http.MethodGet, "/api/places/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReviewsFlow(t *testing.T) {
	app, _ := newTestApplication(t)
	owner := createUser(t, app, "gita", users.RoleUser)
	alice := createUser(t, app, "alice", users.RoleUser)
	bob := createUser(t, app, "bob", users.RoleUser)
	p := createPlace(t, app, "Chai Point", "Delhi", owner)
	reviewsPath := "/api/places/" + p.ID.String() + "/reviews"

	rr, resp := do(t, app, http.MethodPost, reviewsPath, tokenFor(t, app, alice), CreateReviewPayload{Rating: 5, Comment: "  great  "})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Review added successfully", resp.Message)

	rr, _ = do(t, app, http.MethodPost, reviewsPath, tokenFor(t, app, bob), CreateReviewPayload{Rating: 2, Comment: "meh"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, resp = do(t, app, http.MethodPost, reviewsPath, tokenFor(t, app, alice), CreateReviewPayload{Rating: 1, Comment: "again"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, places.ErrDuplicateReview.Error(), resp.Message)

	rr, _ = do(t, app, http.MethodPost, reviewsPath, tokenFor(t, app, owner), CreateReviewPayload{Rating: 6, Comment: "too good"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, app, http.MethodPost, reviewsPath, tokenFor(t, app, owner), CreateReviewPayload{Comment: "no rating"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, resp = do(t, app, http.MethodGet, reviewsPath, tokenFor(t, app, bob), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var summary reviews.Summary
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	assert.Equal(t, 2, summary.TotalReviews)
	assert.InDelta(t, 3.5, summary.AverageRating, 1e-9)
	require.Len(t, summary.Reviews, 2)
	assert.Equal(t, "great", summary.Reviews[0].Comment)

	replyPath := reviewsPath + "/" + summary.Reviews[0].ID.String() + "/reply"

	rr, _ = do(t, app, http.MethodPost, replyPath, tokenFor(t, app, bob), ReplyPayload{Reply: "not mine"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = do(t, app, http.MethodPost, reviewsPath+"/"+uuid.NewString()+"/reply", tokenFor(t, app, owner), ReplyPayload{Reply: "hi"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, app, http.MethodPost, replyPath, tokenFor(t, app, owner), ReplyPayload{Reply: "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, resp = do(t, app, http.MethodPost, replyPath, tokenFor(t, app, owner), ReplyPayload{Reply: "Thanks!"})
	require.Equal(t, http.StatusOK, rr.Code)
	var review places.Review
	require.NoError(t, json.Unmarshal(resp.Data, &review))
	assert.Equal(t, "Thanks!", review.OwnerReply)
	assert.NotNil(t, review.OwnerReplyAt)
}

func TestFavoritesFlow(t *testing.T) {
	app, _ := newTestApplication(t)
	user := createUser(t, app, "hari", users.RoleUser)
	other := createUser(t, app, "ira", users.RoleUser)
	token := tokenFor(t, app, user)
	p := createPlace(t, app, "Juhu Beach", "Mumbai", nil)

	rr, _ := do(t, app, http.MethodPost, "/api/favorites", token, AddFavoritePayload{PlaceID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, resp := do(t, app, http.MethodPost, "/api/favorites", token, AddFavoritePayload{PlaceID: p.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Added to favorites", resp.Message)
	var fav favorites.Favorite
	require.NoError(t, json.Unmarshal(resp.Data, &fav))

	rr, resp = do(t, app, http.MethodPost, "/api/favorites", token, AddFavoritePayload{PlaceID: p.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "place already in favorites", resp.Message)

	rr, resp = do(t, app, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []favorites.Entry
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].PlaceID)
	assert.Equal(t, fav.ID, list[0].FavoriteID)

	rr, _ = do(t, app, http.MethodDelete, "/api/favorites/"+fav.ID.String(), tokenFor(t, app, other), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "only the owner of a favorite may remove it")

	rr, resp = do(t, app, http.MethodDelete, "/api/favorites/"+fav.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Removed from favorites", resp.Message)

	list, err := app.store.Favorites.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
