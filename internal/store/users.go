package store

import (
	"context"
	"database/sql"
	"strings"

	"cityguide/internal/domain/users"
)

type UsersStore struct {
	db *sql.DB
}

// UpsertAdmin creates the user as an active admin, or promotes and
// reactivates the existing account with the same email. The stored password
// of an existing account is left alone.
func (s *UsersStore) UpsertAdmin(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (id, name, email, password, role, is_active)
		VALUES ($1, $2, $3, $4, 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE
		SET role = 'admin', is_active = TRUE, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	err := s.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.Password.Hash(),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return err
	}

	user.Role = users.RoleAdmin
	user.IsActive = true
	return nil
}
