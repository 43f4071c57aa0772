package updates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cityguide/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, u *UpdateRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*UpdateRequest, error)
	ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]UpdateRequest, error)
	// List returns requests with submitter details; an empty status lists all.
	List(ctx context.Context, status Status) ([]UpdateRequest, error)
	MarkReviewed(ctx context.Context, id uuid.UUID, status Status, notes string, reviewerID uuid.UUID, at time.Time) (*UpdateRequest, error)
	MarkApplied(ctx context.Context, id uuid.UUID, result ApplyResult, at time.Time) error
	ListUnapplied(ctx context.Context, limit int) ([]UpdateRequest, error)
	// Superseded reports whether another request for the same place was
	// approved after u and has already been applied.
	Superseded(ctx context.Context, u *UpdateRequest) (bool, error)
	CountPending(ctx context.Context) (int, error)
}

type Repository struct {
	db db.Querier
}

func NewRepository(conn db.Querier) Store {
	return &Repository{db: conn}
}

const updateColumns = `u.id, u.place_id, u.place_name, u.submitted_by, u.changes, u.status,
	u.admin_notes, u.reviewed_by, u.reviewed_at, u.apply_result, u.applied_at,
	u.created_at, u.updated_at`

func scanUpdate(row pgx.Row, extra ...any) (*UpdateRequest, error) {
	var u UpdateRequest
	var changes []byte
	dest := []any{
		&u.ID, &u.PlaceID, &u.PlaceName, &u.SubmittedBy, &changes, &u.Status,
		&u.AdminNotes, &u.ReviewedBy, &u.ReviewedAt, &u.ApplyResult, &u.AppliedAt,
		&u.CreatedAt, &u.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(changes, &u.Changes); err != nil {
		return nil, fmt.Errorf("decode changes: %w", err)
	}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, u *UpdateRequest) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Status = StatusPending

	changes, err := json.Marshal(u.Changes)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO update_requests (id, place_id, place_name, submitted_by, changes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.PlaceID, u.PlaceName, u.SubmittedBy, changes, string(u.Status)).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create update request: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*UpdateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u, err := scanUpdate(r.db.QueryRow(ctx, `SELECT `+updateColumns+` FROM update_requests u WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get update request: %w", err)
	}
	return u, nil
}

func (r *Repository) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]UpdateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+updateColumns+`
		FROM update_requests u
		WHERE u.submitted_by = $1
		ORDER BY u.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []UpdateRequest{}
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

func (r *Repository) List(ctx context.Context, status Status) ([]UpdateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+updateColumns+`, usr.name, usr.email
		FROM update_requests u
		LEFT JOIN users usr ON usr.id = u.submitted_by
		WHERE ($1::text = '' OR u.status = $1::text)
		ORDER BY u.created_at DESC
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []UpdateRequest{}
	for rows.Next() {
		var name, email *string
		u, err := scanUpdate(rows, &name, &email)
		if err != nil {
			return nil, err
		}
		if name != nil && email != nil {
			u.Submitter = &Submitter{Name: *name, Email: *email}
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

func (r *Repository) MarkReviewed(ctx context.Context, id uuid.UUID, status Status, notes string, reviewerID uuid.UUID, at time.Time) (*UpdateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u, err := scanUpdate(r.db.QueryRow(ctx, `
		UPDATE update_requests u
		SET status = $2, admin_notes = $3, reviewed_by = $4, reviewed_at = $5, updated_at = NOW()
		WHERE u.id = $1 AND u.status = 'pending'
		RETURNING `+updateColumns,
		id, string(status), notes, reviewerID, at,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("mark update request reviewed: %w", err)
	}
	return u, nil
}

func (r *Repository) MarkApplied(ctx context.Context, id uuid.UUID, result ApplyResult, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE update_requests
		SET apply_result = $2, applied_at = $3, updated_at = NOW()
		WHERE id = $1 AND apply_result = ''
	`, id, string(result), at)
	if err != nil {
		return fmt.Errorf("mark update request applied: %w", err)
	}
	return nil
}

func (r *Repository) ListUnapplied(ctx context.Context, limit int) ([]UpdateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+updateColumns+`
		FROM update_requests u
		WHERE u.status = 'approved' AND u.apply_result = ''
		ORDER BY u.reviewed_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []UpdateRequest{}
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

func (r *Repository) Superseded(ctx context.Context, u *UpdateRequest) (bool, error) {
	if u.ReviewedAt == nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var newer bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM update_requests
			WHERE place_id = $1 AND id <> $2
			  AND status = 'approved' AND apply_result = 'applied'
			  AND reviewed_at > $3
		)
	`, u.PlaceID, u.ID, *u.ReviewedAt).Scan(&newer)
	if err != nil {
		return false, fmt.Errorf("check superseding updates: %w", err)
	}
	return newer, nil
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM update_requests WHERE status = 'pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending updates: %w", err)
	}
	return n, nil
}
