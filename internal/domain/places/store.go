package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cityguide/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	// CreateIfAbsent inserts p unless a place with the same id exists.
	CreateIfAbsent(ctx context.Context, p *Place) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Place, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]Place, int, error)
	ListCities(ctx context.Context) ([]string, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Place, error)
	ListWithOwners(ctx context.Context) ([]Place, error)
	// Update writes p if its version is still current and bumps the version.
	Update(ctx context.Context, p *Place) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	Stats(ctx context.Context) (Stats, error)
}

type Repository struct {
	db db.Querier
}

func NewRepository(conn db.Querier) Store {
	return &Repository{db: conn}
}

const placeColumns = `p.id, p.name, p.category, p.city, p.description, p.image, p.address,
	p.contact_number, p.website, p.owner_id, p.reviews, p.total_reviews,
	p.average_rating, p.rating, p.version, p.created_at, p.updated_at`

func scanPlace(row pgx.Row, extra ...any) (*Place, error) {
	var p Place
	var reviews []byte
	dest := []any{
		&p.ID, &p.Name, &p.Category, &p.City, &p.Description, &p.Image, &p.Address,
		&p.ContactNumber, &p.Website, &p.OwnerID, &reviews, &p.TotalReviews,
		&p.AverageRating, &p.Rating, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Reviews = []Review{}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &p.Reviews); err != nil {
			return nil, fmt.Errorf("decode reviews: %w", err)
		}
	}
	return &p, nil
}

func encodeReviews(reviews []Review) ([]byte, error) {
	if reviews == nil {
		reviews = []Review{}
	}
	return json.Marshal(reviews)
}

func (r *Repository) CreateIfAbsent(ctx context.Context, p *Place) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	*p = Recompute(*p)
	reviews, err := encodeReviews(p.Reviews)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO places (
			id, name, category, city, description, image, address, contact_number,
			website, owner_id, reviews, total_reviews, average_rating, rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
		RETURNING version, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Category, p.City, p.Description, p.Image, p.Address, p.ContactNumber,
		p.Website, p.OwnerID, reviews, p.TotalReviews, p.AverageRating, p.Rating,
	).Scan(&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create place: %w", err)
	}
	return true, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	p, err := scanPlace(r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get place: %w", err)
	}
	return p, nil
}

// List serves both the plain listing and keyword search. The keyword is matched
// case-insensitively against name, category and description.
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]Place, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var (
		conds []string
		args  []any
	)
	if city := strings.TrimSpace(f.City); city != "" {
		args = append(args, city)
		conds = append(conds, fmt.Sprintf("p.city = $%d", len(args)))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		args = append(args, "%"+escapeLike(kw)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.category ILIKE $%d OR p.description ILIKE $%d)", n, n, n))
	}
	if f.MinRating > 0 {
		args = append(args, f.MinRating)
		conds = append(conds, fmt.Sprintf("p.rating >= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM places p `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count places: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM places p %s ORDER BY p.%s DESC, p.id LIMIT $%d OFFSET $%d`,
		placeColumns, where, SortColumn(f.Sort), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	list := []Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *p)
	}
	return list, total, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repository) ListCities(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT DISTINCT city FROM places ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM places p WHERE p.owner_id = $1 ORDER BY p.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *Repository) ListWithOwners(ctx context.Context) ([]Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT ` + placeColumns + `, u.name, u.email
		FROM places p
		LEFT JOIN users u ON u.id = p.owner_id
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Place{}
	for rows.Next() {
		var name, email *string
		p, err := scanPlace(rows, &name, &email)
		if err != nil {
			return nil, err
		}
		if name != nil && email != nil {
			p.Owner = &Owner{Name: *name, Email: *email}
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *Repository) Update(ctx context.Context, p *Place) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	*p = Recompute(*p)
	reviews, err := encodeReviews(p.Reviews)
	if err != nil {
		return err
	}

	query := `
		UPDATE places
		SET name = $1, category = $2, description = $3, image = $4, address = $5,
		    contact_number = $6, website = $7, reviews = $8, total_reviews = $9,
		    average_rating = $10, rating = $11, version = version + 1, updated_at = NOW()
		WHERE id = $12 AND version = $13
		RETURNING version, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		p.Name, p.Category, p.Description, p.Image, p.Address,
		p.ContactNumber, p.Website, reviews, p.TotalReviews,
		p.AverageRating, p.Rating, p.ID, p.Version,
	).Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.conflictOrMissing(ctx, p.ID)
		}
		return fmt.Errorf("update place: %w", err)
	}
	return nil
}

func (r *Repository) conflictOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}

// Delete removes a place. Favorites pointing at it go with it (ON DELETE CASCADE).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM places WHERE id = $1`, id)
}

// DeleteOwned is Delete restricted to the owner; other users get ErrNotFound.
func (r *Repository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM places WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *Repository) delete(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var s Stats
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM places`).Scan(&s.Total); err != nil {
		return Stats{}, fmt.Errorf("count places: %w", err)
	}

	var err error
	if s.ByCategory, err = r.countBy(ctx, "category"); err != nil {
		return Stats{}, err
	}
	if s.ByCity, err = r.countBy(ctx, "city"); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// countBy groups places by a fixed column name, never by user input.
func (r *Repository) countBy(ctx context.Context, column string) ([]Count, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s, COUNT(*) FROM places GROUP BY %s ORDER BY COUNT(*) DESC, %s`, column, column, column))
	if err != nil {
		return nil, fmt.Errorf("count places by %s: %w", column, err)
	}
	defer rows.Close()

	counts := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
