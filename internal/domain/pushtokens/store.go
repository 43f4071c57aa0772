package pushtokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cityguide/internal/db"

	"github.com/google/uuid"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	Save(ctx context.Context, userID uuid.UUID, token string, deviceInfo json.RawMessage) error
	Remove(ctx context.Context, userID uuid.UUID, token string) error
	RemoveTokens(ctx context.Context, tokens []string) error
	TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	PruneStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Repository struct {
	db db.Querier
}

func NewRepository(conn db.Querier) Store {
	return &Repository{db: conn}
}

// Save upserts token + device info and refreshes last_updated.
func (r *Repository) Save(ctx context.Context, userID uuid.UUID, token string, deviceInfo json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
	INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, expo_push_token)
	DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW();
	`

	var info []byte
	if len(deviceInfo) > 0 {
		info = deviceInfo
	}
	_, err := r.db.Exec(ctx, q, userID, token, info)
	return err
}

func (r *Repository) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`, userID, token)
	return err
}

// RemoveTokens drops tokens Expo reported as no longer registered.
func (r *Repository) RemoveTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM user_push_tokens WHERE expo_push_token = ANY($1)`, tokens)
	return err
}

func (r *Repository) TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT expo_push_token FROM user_push_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *Repository) PruneStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	interval := fmt.Sprintf("%d seconds", int64(olderThan.Seconds()))
	tag, err := r.db.Exec(ctx, `DELETE FROM user_push_tokens WHERE last_updated < NOW() - $1::interval`, interval)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
