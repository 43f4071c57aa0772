package main

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"testing"
	"time"

	"cityguide/internal/domain/places"
	"cityguide/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOptions(reviews int) options {
	return options{
		reviewsPerPlace: reviews,
		rng:             rand.New(rand.NewPCG(7, 7)),
		now:             time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSamplePlaces(t *testing.T) {
	seen := map[string]bool{}
	for _, sp := range samplePlaces {
		assert.True(t, places.ValidCategory(sp.category), sp.name)
		assert.False(t, seen[sp.name], "duplicate sample %q", sp.name)
		seen[sp.name] = true
	}
}

func TestBuildPlace(t *testing.T) {
	t.Run("without reviews keeps sample rating", func(t *testing.T) {
		p, err := buildPlace(samplePlaces[0], testOptions(0))
		require.NoError(t, err)

		assert.Equal(t, 4.5, p.Rating)
		assert.Zero(t, p.TotalReviews)
		assert.NotNil(t, p.Reviews)
	})

	t.Run("with reviews recomputes stats", func(t *testing.T) {
		opts := testOptions(6)
		p, err := buildPlace(samplePlaces[1], opts)
		require.NoError(t, err)

		require.Len(t, p.Reviews, 6)
		total, avg := places.ReviewStats(p.Reviews)
		assert.Equal(t, 6, p.TotalReviews)
		assert.Equal(t, total, p.TotalReviews)
		assert.InDelta(t, avg, p.AverageRating, 1e-9)
		assert.Equal(t, p.AverageRating, p.Rating)

		authors := map[uuid.UUID]bool{}
		for _, r := range p.Reviews {
			assert.False(t, authors[r.UserID], "one review per author")
			authors[r.UserID] = true
			assert.False(t, r.CreatedAt.After(opts.now))
			if r.OwnerReplyAt != nil {
				assert.NotEmpty(t, r.OwnerReply)
				assert.False(t, r.OwnerReplyAt.Before(r.CreatedAt))
			}
		}
	})
}

func TestSeed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	adminID := uuid.New()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(adminID.String(), now, now))
	mock.ExpectExec("DELETE FROM places").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))
	for range samplePlaces {
		mock.ExpectQuery("INSERT INTO places").
			WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(1), now, now))
	}

	opts := testOptions(2)
	opts.adminName = "Admin"
	opts.adminEmail = "admin@cityguide.test"
	opts.adminPassword = "secret123"

	rep, err := seed(context.Background(), store.NewStorage(db), opts, zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, adminID, rep.adminID)
	assert.Equal(t, int64(4), rep.removed)
	assert.Equal(t, len(samplePlaces), rep.inserted)
	assert.Equal(t, 2*len(samplePlaces), rep.reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedStopsOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM places").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO places").WillReturnError(sql.ErrConnDone)

	rep, err := seed(context.Background(), store.NewStorage(db), testOptions(0), zap.NewNop().Sugar())
	require.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), samplePlaces[0].name)
	assert.Zero(t, rep.inserted)
	assert.Equal(t, uuid.Nil, rep.adminID)
}

func TestSeedRejectsTooManyReviews(t *testing.T) {
	_, err := seed(context.Background(), store.Storage{}, testOptions(len(reviewerNames)+1), zap.NewNop().Sugar())
	assert.Error(t, err)
}
