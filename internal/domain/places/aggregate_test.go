package places

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func placeWithRatings(t *testing.T, ratings ...int) Place {
	t.Helper()
	p := Place{ID: uuid.New(), Name: "Cafe Mocha"}
	for _, r := range ratings {
		var err error
		p, err = AddReview(p, uuid.New(), "someone", r, "nice", now)
		require.NoError(t, err)
	}
	return p
}

func TestAddReview_RecomputesStats(t *testing.T) {
	p := placeWithRatings(t, 5, 3, 4)
	assert.Equal(t, 3, p.TotalReviews)
	assert.InDelta(t, 4.0, p.AverageRating, 1e-9)
	assert.Equal(t, p.AverageRating, p.Rating)

	p, err := AddReview(p, uuid.New(), "Neha", 2, "meh", now)
	require.NoError(t, err)
	assert.Equal(t, 4, p.TotalReviews)
	assert.InDelta(t, 3.5, p.AverageRating, 1e-9)
	assert.Equal(t, p.AverageRating, p.Rating)
}

func TestReviewStats(t *testing.T) {
	total, avg := ReviewStats(nil)
	assert.Zero(t, total)
	assert.Zero(t, avg)

	total, avg = ReviewStats([]Review{{Rating: 5}, {Rating: 2}})
	assert.Equal(t, 2, total)
	assert.InDelta(t, 3.5, avg, 1e-9)

	var st Stats
	st.Total = total
	assert.Equal(t, 2, st.Total)
}

func TestAddReview_MeanOverManyAuthors(t *testing.T) {
	ratings := []int{1, 2, 2, 5, 4, 3, 5, 1, 1, 4, 5}
	p := placeWithRatings(t, ratings...)

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	assert.Equal(t, len(ratings), p.TotalReviews)
	assert.Len(t, p.Reviews, p.TotalReviews)
	assert.InDelta(t, float64(sum)/float64(len(ratings)), p.AverageRating, 1e-9)
	assert.Equal(t, p.AverageRating, p.Rating)
}

func TestAddReview_Rejects(t *testing.T) {
	author := uuid.New()
	base, err := AddReview(Place{ID: uuid.New()}, author, "Rahul", 4, "good", now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		author  uuid.UUID
		rating  int
		comment string
		wantErr error
	}{
		{name: "rating too low", author: uuid.New(), rating: 0, comment: "x", wantErr: ErrInvalidRating},
		{name: "rating too high", author: uuid.New(), rating: 6, comment: "x", wantErr: ErrInvalidRating},
		{name: "blank comment", author: uuid.New(), rating: 3, comment: "   ", wantErr: ErrEmptyComment},
		{name: "second review by same author", author: author, rating: 1, comment: "changed my mind", wantErr: ErrDuplicateReview},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AddReview(base, tc.author, "x", tc.rating, tc.comment, now)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, base, got)
			assert.Equal(t, 1, base.TotalReviews)
			assert.InDelta(t, 4.0, base.AverageRating, 1e-9)
		})
	}
}

func TestAddReview_DoesNotMutateInput(t *testing.T) {
	p := placeWithRatings(t, 5)
	before := len(p.Reviews)

	next, err := AddReview(p, uuid.New(), "Amit", 1, "  trimmed  ", now)
	require.NoError(t, err)

	assert.Len(t, p.Reviews, before)
	assert.Len(t, next.Reviews, before+1)
	assert.Equal(t, "trimmed", next.Reviews[before].Comment)
	assert.Nil(t, next.Reviews[before].OwnerReplyAt)
	assert.Equal(t, now, next.Reviews[before].CreatedAt)
}

func TestReplyToReview(t *testing.T) {
	owner := uuid.New()
	p := placeWithRatings(t, 4, 2)
	p.OwnerID = &owner
	reviewID := p.Reviews[1].ID

	tests := []struct {
		name     string
		place    func() Place
		reviewID uuid.UUID
		actor    uuid.UUID
		reply    string
		wantErr  error
	}{
		{name: "stranger", place: func() Place { return p }, reviewID: reviewID, actor: uuid.New(), reply: "thanks", wantErr: ErrNotOwner},
		{name: "unowned place", place: func() Place { q := p; q.OwnerID = nil; return q }, reviewID: reviewID, actor: owner, reply: "thanks", wantErr: ErrNotOwner},
		{name: "unknown review", place: func() Place { return p }, reviewID: uuid.New(), actor: owner, reply: "thanks", wantErr: ErrReviewNotFound},
		{name: "empty reply", place: func() Place { return p }, reviewID: reviewID, actor: owner, reply: " \n", wantErr: ErrEmptyReply},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.place()
			got, err := ReplyToReview(in, tc.reviewID, tc.actor, tc.reply, now)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, got.Reviews[1].OwnerReply)
		})
	}

	t.Run("second reply overwrites first", func(t *testing.T) {
		first, err := ReplyToReview(p, reviewID, owner, "Thank you!", now)
		require.NoError(t, err)
		later := now.Add(time.Hour)
		second, err := ReplyToReview(first, reviewID, owner, "We'll work on it.", later)
		require.NoError(t, err)

		assert.Equal(t, "We'll work on it.", second.Reviews[1].OwnerReply)
		require.NotNil(t, second.Reviews[1].OwnerReplyAt)
		assert.Equal(t, later, *second.Reviews[1].OwnerReplyAt)
		assert.Equal(t, "Thank you!", first.Reviews[1].OwnerReply)
		assert.Empty(t, p.Reviews[1].OwnerReply)
		assert.Equal(t, p.AverageRating, second.AverageRating)
	})
}

func TestFillAndApply(t *testing.T) {
	p := Place{
		Name: "Lodhi Garden", Category: "park", Description: "Mughal-era park",
		Image: "a.jpg", Address: "Lodhi Rd", ContactNumber: "011", Website: "lodhi.in",
	}

	c := Fill(p, Changes{Description: "Historical park"})
	assert.Equal(t, Changes{
		Name: "Lodhi Garden", Category: "park", Description: "Historical park",
		Image: "a.jpg", Address: "Lodhi Rd", ContactNumber: "011", Website: "lodhi.in",
	}, c)

	applied := Apply(p, c)
	assert.Equal(t, "Historical park", applied.Description)
	assert.Equal(t, "Lodhi Garden", applied.Name)

	cleared := Apply(p, Changes{Website: ""})
	assert.Equal(t, "Lodhi Garden", cleared.Name)
	assert.Empty(t, cleared.Website)
}

func TestValidCategoryAndSort(t *testing.T) {
	assert.True(t, ValidCategory("Cafe"))
	assert.False(t, ValidCategory("bar"))
	assert.Equal(t, "rating", SortColumn("; DROP TABLE places"))
	assert.Equal(t, "total_reviews", SortColumn("totalReviews"))
}
