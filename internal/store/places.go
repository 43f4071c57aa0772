package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"cityguide/internal/domain/places"

	"github.com/lib/pq"
)

type PlacesStore struct {
	db *sql.DB
}

// DeleteUnownedByName removes seeded places so a rerun starts clean. Places
// that belong to a user are never touched.
func (s *PlacesStore) DeleteUnownedByName(ctx context.Context, names []string) (int64, error) {
	query := `DELETE FROM places WHERE owner_id IS NULL AND name = ANY($1)`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, pq.Array(names))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PlacesStore) Insert(ctx context.Context, p *places.Place) error {
	if p.Reviews == nil {
		p.Reviews = []places.Review{}
	}
	reviews, err := json.Marshal(p.Reviews)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO places (
			id, name, category, city, description, image, address, contact_number, website,
			reviews, total_reviews, average_rating, rating
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING version, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRowContext(ctx, query,
		p.ID,
		p.Name,
		p.Category,
		p.City,
		p.Description,
		p.Image,
		p.Address,
		p.ContactNumber,
		p.Website,
		reviews,
		p.TotalReviews,
		p.AverageRating,
		p.Rating,
	).Scan(&p.Version, &p.CreatedAt, &p.UpdatedAt)
}
