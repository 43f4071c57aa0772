package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cityguide/internal/db"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("favorite not found")
	ErrAlreadyFavorited  = errors.New("place already in favorites")
	QueryTimeoutDuration = time.Second * 5
)

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	PlaceID   uuid.UUID `json:"placeId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is a favorite joined with the place it points at.
type Entry struct {
	FavoriteID    uuid.UUID `json:"favoriteId"`
	PlaceID       uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	City          string    `json:"city"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	Rating        float64   `json:"rating"`
	AverageRating float64   `json:"averageRating"`
	TotalReviews  int       `json:"totalReviews"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Store interface {
	Add(ctx context.Context, userID, placeID uuid.UUID) (*Favorite, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Remove(ctx context.Context, id, userID uuid.UUID) error
}

type Repository struct {
	db db.Querier
}

func NewRepository(conn db.Querier) Store {
	return &Repository{db: conn}
}

func (r *Repository) Add(ctx context.Context, userID, placeID uuid.UUID) (*Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	f := &Favorite{ID: uuid.New(), UserID: userID, PlaceID: placeID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO favorites (id, user_id, place_id) VALUES ($1, $2, $3)
		RETURNING created_at
	`, f.ID, userID, placeID).Scan(&f.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "favorites_user_place_key") {
			return nil, ErrAlreadyFavorited
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return f, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT f.id, p.id, p.name, p.category, p.city, p.description, p.image,
		       p.rating, p.average_rating, p.total_reviews, f.created_at
		FROM favorites f
		JOIN places p ON p.id = f.place_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.FavoriteID, &e.PlaceID, &e.Name, &e.Category, &e.City, &e.Description, &e.Image,
			&e.Rating, &e.AverageRating, &e.TotalReviews, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Remove deletes a favorite only if it belongs to userID.
func (r *Repository) Remove(ctx context.Context, id, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
