// Package store is the database/sql access layer used by the seed tool.
package store

import (
	"context"
	"database/sql"
	"time"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/users"
)

var QueryTimeoutDuration = time.Second * 5

type Storage struct {
	Users interface {
		UpsertAdmin(context.Context, *users.User) error
	}
	Places interface {
		DeleteUnownedByName(context.Context, []string) (int64, error)
		Insert(context.Context, *places.Place) error
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Users:  &UsersStore{db},
		Places: &PlacesStore{db},
	}
}
