package updates

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

func TestRepository_MarkReviewedOnlyFromPending(t *testing.T) {
	r, mock := newMockRepository(t)
	id, reviewer := uuid.New(), uuid.New()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlLike("UPDATE update_requests u", "WHERE u.id = $1 AND u.status = 'pending'")).
		WithArgs(id, "rejected", "", reviewer, at).
		WillReturnRows(mock.NewRows([]string{"id"}))

	_, err := r.MarkReviewed(context.Background(), id, StatusRejected, "", reviewer, at)
	assert.ErrorIs(t, err, ErrNotPending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkAppliedOnce(t *testing.T) {
	r, mock := newMockRepository(t)
	id := uuid.New()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(sqlLike("UPDATE update_requests", "WHERE id = $1 AND apply_result = ''")).
		WithArgs(id, "place_missing", at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, r.MarkApplied(context.Background(), id, ApplyPlaceMissing, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListUnapplied(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectQuery(sqlLike("FROM update_requests u", "WHERE u.status = 'approved' AND u.apply_result = ''", "LIMIT $1")).
		WithArgs(50).
		WillReturnRows(mock.NewRows([]string{"id"}))

	list, err := r.ListUnapplied(context.Background(), 50)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Superseded(t *testing.T) {
	reviewed := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	u := &UpdateRequest{ID: uuid.New(), PlaceID: uuid.New(), ReviewedAt: &reviewed}

	for _, newer := range []bool{true, false} {
		r, mock := newMockRepository(t)
		mock.ExpectQuery(sqlLike("WHERE place_id = $1 AND id <> $2", "apply_result = 'applied'", "reviewed_at > $3")).
			WithArgs(u.PlaceID, u.ID, reviewed).
			WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(newer))

		got, err := r.Superseded(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, newer, got)
		require.NoError(t, mock.ExpectationsWereMet())
	}

	r, mock := newMockRepository(t)
	got, err := r.Superseded(context.Background(), &UpdateRequest{ID: uuid.New()})
	require.NoError(t, err)
	assert.False(t, got, "an unreviewed request is never superseded")
	require.NoError(t, mock.ExpectationsWereMet())
}
