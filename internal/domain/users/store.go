package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cityguide/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (Stats, error)
}

type Repository struct {
	db db.Querier
}

func NewRepository(conn db.Querier) Store {
	return &Repository{db: conn}
}

const userColumns = `id, name, email, password, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var hash []byte
	err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Password.SetHash(hash)
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `
	  INSERT INTO users (id, name, email, password, role, is_active)
	  VALUES ($1, $2, $3, $4, $5, TRUE)
	  RETURNING is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Password.Hash(), user.Role,
	).Scan(&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
	  UPDATE users
	  SET is_active = COALESCE($2, is_active),
	      role = COALESCE($3, role),
	      updated_at = NOW()
	  WHERE id = $1
	  RETURNING ` + userColumns

	var role *string
	if patch.Role != nil {
		s := string(*patch.Role)
		role = &s
	}

	u, err := scanUser(r.db.QueryRow(ctx, query, id, patch.IsActive, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes the user. Their submissions, favorites and push tokens are
// removed by ON DELETE CASCADE; places they own become unowned and the
// reviews they wrote stay.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
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
	err := r.db.QueryRow(ctx, `
	  SELECT COUNT(*),
	         COUNT(*) FILTER (WHERE is_active),
	         COUNT(*) FILTER (WHERE NOT is_active)
	  FROM users
	`).Scan(&s.Total, &s.Active, &s.Banned)
	if err != nil {
		return Stats{}, fmt.Errorf("user stats: %w", err)
	}
	return s, nil
}
