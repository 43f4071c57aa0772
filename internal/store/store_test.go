package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/users"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStorage(db), mock
}

func TestUpsertAdmin(t *testing.T) {
	s, mock := newMock(t)

	existing := uuid.New()
	now := time.Now()

	u := &users.User{ID: uuid.New(), Name: "Admin", Email: "  Admin@Example.com "}
	require.NoError(t, u.Password.Set("changeme"))

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, "Admin", "admin@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(existing.String(), now, now))

	require.NoError(t, s.Users.UpsertAdmin(context.Background(), u))

	assert.Equal(t, existing, u.ID)
	assert.Equal(t, users.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAdminError(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(sql.ErrConnDone)

	u := &users.User{ID: uuid.New(), Name: "Admin", Email: "admin@example.com"}
	err := s.Users.UpsertAdmin(context.Background(), u)

	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Empty(t, u.Role)
}

func TestDeleteUnownedByName(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("DELETE FROM places WHERE owner_id IS NULL").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.Places.DeleteUnownedByName(context.Background(), []string{"Cafe Mocha", "Red Fort"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPlace(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	p := &places.Place{
		ID:          uuid.New(),
		Name:        "Cubbon Park",
		Category:    "park",
		City:        "Bangalore",
		Description: "Green space",
		Image:       places.DefaultImage,
		Rating:      4.4,
	}

	mock.ExpectQuery("INSERT INTO places").
		WithArgs(p.ID, "Cubbon Park", "park", "Bangalore", "Green space", places.DefaultImage,
			"", "", "", []byte("[]"), 0, 0.0, 4.4).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	require.NoError(t, s.Places.Insert(context.Background(), p))

	assert.Equal(t, int64(1), p.Version)
	assert.NotNil(t, p.Reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}
