package places

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &Repository{db: mock}, mock
}

func sqlLike(fragments ...string) string {
	re := "(?s)"
	for _, f := range fragments {
		re += ".*" + regexp.QuoteMeta(f)
	}
	return re
}

func TestRepository_CreateIfAbsent(t *testing.T) {
	insert := sqlLike("INSERT INTO places", "ON CONFLICT (id) DO NOTHING", "RETURNING version, created_at, updated_at")
	anyArg := pgxmock.AnyArg()
	insertArgs := []any{anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg}

	t.Run("inserted", func(t *testing.T) {
		r, mock := newMockRepository(t)
		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(insert).
			WithArgs(insertArgs...).
			WillReturnRows(mock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(1), now, now))

		p := &Place{ID: uuid.New(), Name: "Leopold Cafe", Category: "cafe", City: "Mumbai"}
		created, err := r.CreateIfAbsent(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(1), p.Version)
		assert.Equal(t, now, p.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("id already taken", func(t *testing.T) {
		r, mock := newMockRepository(t)
		mock.ExpectQuery(insert).
			WithArgs(insertArgs...).
			WillReturnRows(mock.NewRows([]string{"version", "created_at", "updated_at"}))

		created, err := r.CreateIfAbsent(context.Background(), &Place{ID: uuid.New(), Name: "Leopold Cafe"})
		require.NoError(t, err)
		assert.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateChecksVersion(t *testing.T) {
	update := sqlLike("UPDATE places", "version = version + 1", "WHERE id = $12 AND version = $13", "RETURNING version, updated_at")
	exists := sqlLike("SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)")
	anyArg := pgxmock.AnyArg()

	place := func() *Place {
		return &Place{ID: uuid.MustParse("7d4c55a4-2a9e-4d4f-9a4a-0d3c6c2f0b11"), Name: "Bademiya", Version: 4}
	}
	args := func(p *Place) []any {
		return []any{anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, anyArg, p.ID, int64(4)}
	}

	t.Run("current version", func(t *testing.T) {
		r, mock := newMockRepository(t)
		p := place()
		now := time.Now().UTC()
		mock.ExpectQuery(update).WithArgs(args(p)...).
			WillReturnRows(mock.NewRows([]string{"version", "updated_at"}).AddRow(int64(5), now))

		require.NoError(t, r.Update(context.Background(), p))
		assert.Equal(t, int64(5), p.Version)
		assert.Equal(t, now, p.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		r, mock := newMockRepository(t)
		p := place()
		mock.ExpectQuery(update).WithArgs(args(p)...).
			WillReturnRows(mock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery(exists).WithArgs(p.ID).
			WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, r.Update(context.Background(), p), ErrVersionConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted place", func(t *testing.T) {
		r, mock := newMockRepository(t)
		p := place()
		mock.ExpectQuery(update).WithArgs(args(p)...).
			WillReturnRows(mock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery(exists).WithArgs(p.ID).
			WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, r.Update(context.Background(), p), ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListEscapesKeyword(t *testing.T) {
	r, mock := newMockRepository(t)
	pattern := `%50\% off\_%`

	mock.ExpectQuery(sqlLike("SELECT COUNT(*) FROM places p", "p.name ILIKE $1 OR p.category ILIKE $1 OR p.description ILIKE $1")).
		WithArgs(pattern).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(sqlLike("FROM places p", "ILIKE $1", "ORDER BY p.rating DESC, p.id LIMIT $2 OFFSET $3")).
		WithArgs(pattern, 20, 40).
		WillReturnRows(mock.NewRows([]string{"id"}))

	list, total, err := r.List(context.Background(), Filter{Keyword: " 50% off_ ", Sort: "rating"}, 20, 40)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteOwned(t *testing.T) {
	r, mock := newMockRepository(t)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectExec(sqlLike("DELETE FROM places WHERE id = $1 AND owner_id = $2")).
		WithArgs(id, owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, r.DeleteOwned(context.Background(), id, owner), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
