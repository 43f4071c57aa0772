package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cityguide/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]Submission, error)
	// List returns submissions with submitter details; an empty status lists all.
	List(ctx context.Context, status Status) ([]Submission, error)
	// MarkReviewed moves a pending submission to status, or fails with ErrNotPending.
	MarkReviewed(ctx context.Context, id uuid.UUID, status Status, notes string, reviewerID uuid.UUID, at time.Time) (*Submission, error)
	// RevertToPending undoes an approval whose place was never recorded. It
	// reports false when there was nothing to revert.
	RevertToPending(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkMaterialized records the place of an approved submission. It is a
	// no-op when already recorded and fails with ErrNotApproved otherwise.
	MarkMaterialized(ctx context.Context, id, placeID uuid.UUID, at time.Time) error
	ListUnmaterialized(ctx context.Context, limit int) ([]Submission, error)
	Stats(ctx context.Context) (Stats, error)
}

type Repository struct {
	db db.Querier
}

func NewRepository(conn db.Querier) Store {
	return &Repository{db: conn}
}

const submissionColumns = `s.id, s.name, s.category, s.city, s.description, s.address, s.image,
	s.contact_number, s.website, s.note_for_admin, s.status, s.submitted_by, s.admin_notes,
	s.reviewed_by, s.reviewed_at, s.place_id, s.materialized_at, s.created_at, s.updated_at`

func scanSubmission(row pgx.Row, extra ...any) (*Submission, error) {
	var s Submission
	dest := []any{
		&s.ID, &s.Name, &s.Category, &s.City, &s.Description, &s.Address, &s.Image,
		&s.ContactNumber, &s.Website, &s.NoteForAdmin, &s.Status, &s.SubmittedBy, &s.AdminNotes,
		&s.ReviewedBy, &s.ReviewedAt, &s.PlaceID, &s.MaterializedAt, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, s *Submission) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Status = StatusPending

	query := `
		INSERT INTO submissions (
			id, name, category, city, description, address, image,
			contact_number, website, note_for_admin, status, submitted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Category, s.City, s.Description, s.Address, s.Image,
		s.ContactNumber, s.Website, s.NoteForAdmin, string(s.Status), s.SubmittedBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	s, err := scanSubmission(r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions s WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return s, nil
}

func (r *Repository) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s
		WHERE s.submitted_by = $1
		ORDER BY s.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (r *Repository) List(ctx context.Context, status Status) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`, u.name, u.email
		FROM submissions s
		JOIN users u ON u.id = s.submitted_by
		WHERE ($1::text = '' OR s.status = $1::text)
		ORDER BY s.created_at DESC
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Submission{}
	for rows.Next() {
		var sub Submitter
		s, err := scanSubmission(rows, &sub.Name, &sub.Email)
		if err != nil {
			return nil, err
		}
		s.Submitter = &sub
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (r *Repository) MarkReviewed(ctx context.Context, id uuid.UUID, status Status, notes string, reviewerID uuid.UUID, at time.Time) (*Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	s, err := scanSubmission(r.db.QueryRow(ctx, `
		UPDATE submissions s
		SET status = $2, admin_notes = $3, reviewed_by = $4, reviewed_at = $5, updated_at = NOW()
		WHERE s.id = $1 AND s.status = 'pending'
		RETURNING `+submissionColumns,
		id, string(status), notes, reviewerID, at,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("mark submission reviewed: %w", err)
	}
	return s, nil
}

func (r *Repository) RevertToPending(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE submissions
		SET status = 'pending', admin_notes = '', reviewed_by = NULL, reviewed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'approved' AND materialized_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("revert submission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkMaterialized(ctx context.Context, id, placeID uuid.UUID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE submissions
		SET place_id = $2, materialized_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'approved' AND materialized_at IS NULL
	`, id, placeID, at)
	if err != nil {
		return fmt.Errorf("mark submission materialized: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var (
		status       string
		materialized bool
	)
	err = r.db.QueryRow(ctx, `
		SELECT status, materialized_at IS NOT NULL FROM submissions WHERE id = $1
	`, id).Scan(&status, &materialized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("check submission: %w", err)
	}
	if Status(status) == StatusApproved && materialized {
		return nil
	}
	return ErrNotApproved
}

func (r *Repository) ListUnmaterialized(ctx context.Context, limit int) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s
		WHERE s.status = 'approved' AND s.materialized_at IS NULL
		ORDER BY s.reviewed_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var s Stats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'rejected')
		FROM submissions
	`).Scan(&s.Pending, &s.Approved, &s.Rejected)
	if err != nil {
		return Stats{}, fmt.Errorf("submission stats: %w", err)
	}
	return s, nil
}
