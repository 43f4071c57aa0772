package updates

import (
	"errors"
	"time"

	"cityguide/internal/domain/places"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("update request not found")
	ErrNotPending        = errors.New("update request is no longer pending")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ApplyResult records what happened when an approved request was applied.
type ApplyResult string

const (
	ApplyNone         ApplyResult = ""
	ApplyApplied      ApplyResult = "applied"
	ApplyPlaceMissing ApplyResult = "place_missing"
	// ApplySuperseded marks a replayed approval skipped because a later
	// approval for the same place was already applied.
	ApplySuperseded ApplyResult = "superseded"
)

type UpdateRequest struct {
	ID          uuid.UUID      `json:"id"`
	PlaceID     uuid.UUID      `json:"placeId"`
	PlaceName   string         `json:"placeName"`
	SubmittedBy uuid.UUID      `json:"submittedBy"`
	Submitter   *Submitter     `json:"submitter,omitempty"`
	Changes     places.Changes `json:"updates"`
	Status      Status         `json:"status"`
	AdminNotes  string         `json:"adminNotes,omitempty"`
	ReviewedBy  *uuid.UUID     `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewedAt,omitempty"`
	ApplyResult ApplyResult    `json:"applyResult,omitempty"`
	AppliedAt   *time.Time     `json:"appliedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Submitter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Applied reports whether an approved request has finished its apply step.
func (u *UpdateRequest) Applied() bool {
	return u.ApplyResult != ApplyNone
}
