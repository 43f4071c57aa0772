package submissions

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("submission not found")
	// ErrNotPending means a conditional transition lost to another reviewer.
	ErrNotPending = errors.New("submission is no longer pending")
	// ErrNotApproved means the approval was reverted before the place was recorded.
	ErrNotApproved       = errors.New("submission is no longer approved")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// SuggestedCities is offered to clients building the submission form.
var SuggestedCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata",
	"Hyderabad", "Pune", "Ahmedabad", "Jaipur", "Lucknow",
}

type Submission struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	City           string     `json:"city"`
	Description    string     `json:"description"`
	Address        string     `json:"address"`
	Image          string     `json:"image"`
	ContactNumber  string     `json:"contactNumber,omitempty"`
	Website        string     `json:"website,omitempty"`
	NoteForAdmin   string     `json:"noteForAdmin,omitempty"`
	Status         Status     `json:"status"`
	SubmittedBy    uuid.UUID  `json:"submittedBy"`
	Submitter      *Submitter `json:"submitter,omitempty"`
	AdminNotes     string     `json:"adminNotes,omitempty"`
	ReviewedBy     *uuid.UUID `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	PlaceID        *uuid.UUID `json:"placeId,omitempty"`
	MaterializedAt *time.Time `json:"materializedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Submitter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Materialized reports whether the approved submission already produced its place.
func (s *Submission) Materialized() bool {
	return s.MaterializedAt != nil
}

type Stats struct {
	Pending  int `json:"pendingSubmissions"`
	Approved int `json:"approvedSubmissions"`
	Rejected int `json:"rejectedSubmissions"`
}
