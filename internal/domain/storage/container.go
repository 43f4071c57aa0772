package storage

import (
	"cityguide/internal/domain/favorites"
	"cityguide/internal/domain/places"
	"cityguide/internal/domain/pushtokens"
	"cityguide/internal/domain/submissions"
	"cityguide/internal/domain/updates"
	"cityguide/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	Users       users.Store
	Places      places.Store
	Favorites   favorites.Store
	Submissions submissions.Store
	Updates     updates.Store
	PushTokens  pushtokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:       users.NewRepository(db),
		Places:      places.NewRepository(db),
		Favorites:   favorites.NewRepository(db),
		Submissions: submissions.NewRepository(db),
		Updates:     updates.NewRepository(db),
		PushTokens:  pushtokens.NewRepository(db),
	}
}
