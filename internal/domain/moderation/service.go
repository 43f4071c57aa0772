// Package moderation runs the two approval workflows: new-place submissions
// and owner update requests.
//
// Approving a submission is a saga of three individually atomic steps:
// mark the submission approved, create the place, mark the submission
// materialized. The place id is derived from the submission id, so replaying
// the create step never produces a second place. A failed create reverts the
// submission to pending; a crash between steps is finished by Reconcile.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/submissions"
	"cityguide/internal/domain/updates"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidDecision = errors.New("invalid status, must be approved or rejected")
	ErrAlreadyReviewed = errors.New("this request has already been reviewed")
)

// placeNamespace seeds the deterministic place ids of approved submissions.
var placeNamespace = uuid.MustParse("5b0c7f1e-8d6a-4c59-9f34-2a1e6c3d7b90")

// PlaceIDFor returns the id the place materialized from submissionID gets.
func PlaceIDFor(submissionID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(placeNamespace, submissionID[:])
}

type Notifier interface {
	SubmissionReviewed(ctx context.Context, s *submissions.Submission)
	UpdateReviewed(ctx context.Context, u *updates.UpdateRequest)
}

type Service struct {
	submissions submissions.Store
	updates     updates.Store
	places      places.Store
	notifier    Notifier
	logger      *zap.SugaredLogger
	now         func() time.Time
}

func NewService(subs submissions.Store, ups updates.Store, pl places.Store, notifier Notifier, logger *zap.SugaredLogger) *Service {
	return &Service{
		submissions: subs,
		updates:     ups,
		places:      pl,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

type SubmitInput struct {
	Name          string
	Category      string
	City          string
	Description   string
	Address       string
	Image         string
	ContactNumber string
	Website       string
	NoteForAdmin  string
}

// Submit records a pending submission for submitterID.
func (s *Service) Submit(ctx context.Context, in SubmitInput, submitterID uuid.UUID) (*submissions.Submission, error) {
	sub := &submissions.Submission{
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.ToLower(strings.TrimSpace(in.Category)),
		City:          strings.TrimSpace(in.City),
		Description:   strings.TrimSpace(in.Description),
		Address:       strings.TrimSpace(in.Address),
		Image:         strings.TrimSpace(in.Image),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Website:       strings.TrimSpace(in.Website),
		NoteForAdmin:  strings.TrimSpace(in.NoteForAdmin),
		SubmittedBy:   submitterID,
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", sub.Name},
		{"category", sub.Category},
		{"city", sub.City},
		{"description", sub.Description},
		{"address", sub.Address},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !places.ValidCategory(sub.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, sub.Category)
	}
	if sub.Image == "" {
		sub.Image = places.DefaultImage
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func parseDecision(decision string) (string, error) {
	switch decision {
	case "approved", "rejected":
		return decision, nil
	default:
		return "", ErrInvalidDecision
	}
}

// ReviewSubmission approves or rejects a pending submission. Approval creates
// the place owned by the submitter. Re-approving a submission whose place was
// never created resumes the saga; any other repeat review fails with
// ErrAlreadyReviewed.
func (s *Service) ReviewSubmission(ctx context.Context, id uuid.UUID, decision, notes string, reviewerID uuid.UUID) (*submissions.Submission, error) {
	status, err := parseDecision(decision)
	if err != nil {
		return nil, err
	}

	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case sub.Status == submissions.StatusPending:
		sub, err = s.submissions.MarkReviewed(ctx, id, submissions.Status(status), strings.TrimSpace(notes), reviewerID, s.now())
		if err != nil {
			if errors.Is(err, submissions.ErrNotPending) {
				return nil, ErrAlreadyReviewed
			}
			return nil, err
		}
	case sub.Status == submissions.StatusApproved && !sub.Materialized() && status == string(submissions.StatusApproved):
		s.logger.Infow("resuming submission approval", "submission", id)
	default:
		return nil, ErrAlreadyReviewed
	}

	if sub.Status == submissions.StatusApproved {
		if err := s.createPlace(ctx, sub); err != nil {
			return s.compensate(ctx, sub, err)
		}
		if err := s.markMaterialized(ctx, sub); err != nil {
			if errors.Is(err, submissions.ErrNotApproved) {
				s.discardPlace(ctx, sub)
				return nil, ErrAlreadyReviewed
			}
			return nil, err
		}
	}

	s.notifySubmission(ctx, sub)
	return sub, nil
}

// compensate reverts an approval whose place could not be created. When the
// reconciler recorded the place first there is nothing to revert and the
// approval stands.
func (s *Service) compensate(ctx context.Context, sub *submissions.Submission, cause error) (*submissions.Submission, error) {
	reverted, err := s.submissions.RevertToPending(ctx, sub.ID)
	if err != nil {
		s.logger.Errorw("failed to revert submission after place creation error",
			"submission", sub.ID, "error", err)
		return nil, cause
	}
	if reverted {
		s.discardPlace(ctx, sub)
		return nil, cause
	}

	current, err := s.submissions.GetByID(ctx, sub.ID)
	if err == nil && current.Status == submissions.StatusApproved && current.Materialized() {
		s.logger.Infow("submission approval finished concurrently", "submission", sub.ID)
		s.notifySubmission(ctx, current)
		return current, nil
	}
	return nil, cause
}

// discardPlace removes the place a reverted approval may have left behind.
func (s *Service) discardPlace(ctx context.Context, sub *submissions.Submission) {
	err := s.places.Delete(ctx, PlaceIDFor(sub.ID))
	if err != nil && !errors.Is(err, places.ErrNotFound) {
		s.logger.Errorw("failed to remove place of reverted submission",
			"submission", sub.ID, "error", err)
	}
}

func (s *Service) createPlace(ctx context.Context, sub *submissions.Submission) error {
	owner := sub.SubmittedBy
	p := &places.Place{
		ID:            PlaceIDFor(sub.ID),
		Name:          sub.Name,
		Category:      sub.Category,
		City:          sub.City,
		Description:   sub.Description,
		Image:         sub.Image,
		Address:       sub.Address,
		ContactNumber: sub.ContactNumber,
		Website:       sub.Website,
		OwnerID:       &owner,
		Reviews:       []places.Review{},
	}

	created, err := s.places.CreateIfAbsent(ctx, p)
	if err != nil {
		return fmt.Errorf("create place for submission %s: %w", sub.ID, err)
	}
	if !created {
		s.logger.Infow("place for submission already exists", "submission", sub.ID, "place", p.ID)
	}
	return nil
}

func (s *Service) markMaterialized(ctx context.Context, sub *submissions.Submission) error {
	placeID := PlaceIDFor(sub.ID)
	at := s.now()
	if err := s.submissions.MarkMaterialized(ctx, sub.ID, placeID, at); err != nil {
		return err
	}
	sub.PlaceID = &placeID
	sub.MaterializedAt = &at
	return nil
}

// ProposeUpdate stores an owner's edit for admin review. Fields left empty
// are filled from the place's current values.
func (s *Service) ProposeUpdate(ctx context.Context, placeID uuid.UUID, changes places.Changes, requesterID uuid.UUID) (*updates.UpdateRequest, error) {
	p, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(requesterID) {
		return nil, places.ErrNotOwner
	}

	changes = trimChanges(changes)
	if changes.Category != "" && !places.ValidCategory(changes.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, changes.Category)
	}

	u := &updates.UpdateRequest{
		PlaceID:     p.ID,
		PlaceName:   p.Name,
		SubmittedBy: requesterID,
		Changes:     places.Fill(*p, changes),
	}
	if err := s.updates.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func trimChanges(c places.Changes) places.Changes {
	return places.Changes{
		Name:          strings.TrimSpace(c.Name),
		Category:      strings.ToLower(strings.TrimSpace(c.Category)),
		Description:   strings.TrimSpace(c.Description),
		Image:         strings.TrimSpace(c.Image),
		Address:       strings.TrimSpace(c.Address),
		ContactNumber: strings.TrimSpace(c.ContactNumber),
		Website:       strings.TrimSpace(c.Website),
	}
}

// ReviewUpdate approves or rejects an update request. An approved request
// whose place has since been deleted is still approved; the outcome is
// recorded as updates.ApplyPlaceMissing and nothing is created.
func (s *Service) ReviewUpdate(ctx context.Context, id uuid.UUID, decision, notes string, reviewerID uuid.UUID) (*updates.UpdateRequest, error) {
	status, err := parseDecision(decision)
	if err != nil {
		return nil, err
	}

	u, err := s.updates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case u.Status == updates.StatusPending:
		u, err = s.updates.MarkReviewed(ctx, id, updates.Status(status), strings.TrimSpace(notes), reviewerID, s.now())
		if err != nil {
			if errors.Is(err, updates.ErrNotPending) {
				return nil, ErrAlreadyReviewed
			}
			return nil, err
		}
	case u.Status == updates.StatusApproved && !u.Applied() && status == string(updates.StatusApproved):
		s.logger.Infow("resuming update approval", "update", id)
	default:
		return nil, ErrAlreadyReviewed
	}

	if u.Status == updates.StatusApproved {
		if err := s.apply(ctx, u); err != nil {
			return nil, err
		}
	}

	s.notifyUpdate(ctx, u)
	return u, nil
}

func (s *Service) apply(ctx context.Context, u *updates.UpdateRequest) error {
	superseded, err := s.updates.Superseded(ctx, u)
	if err != nil {
		return fmt.Errorf("apply update %s: %w", u.ID, err)
	}
	if superseded {
		s.logger.Warnw("approved update replaced by a later one, not applying", "update", u.ID, "place", u.PlaceID)
		return s.markApplied(ctx, u, updates.ApplySuperseded)
	}

	result := updates.ApplyApplied
	_, err = places.Mutate(ctx, s.places, u.PlaceID, func(p places.Place) (places.Place, error) {
		return places.Apply(p, u.Changes), nil
	})
	switch {
	case errors.Is(err, places.ErrNotFound):
		result = updates.ApplyPlaceMissing
		s.logger.Warnw("approved update targets a deleted place", "update", u.ID, "place", u.PlaceID)
	case err != nil:
		return fmt.Errorf("apply update %s: %w", u.ID, err)
	}

	return s.markApplied(ctx, u, result)
}

func (s *Service) markApplied(ctx context.Context, u *updates.UpdateRequest, result updates.ApplyResult) error {
	at := s.now()
	if err := s.updates.MarkApplied(ctx, u.ID, result, at); err != nil {
		return err
	}
	u.ApplyResult = result
	u.AppliedAt = &at
	return nil
}

// ReconcileReport counts the sagas a Reconcile pass finished.
type ReconcileReport struct {
	Materialized int
	Applied      int
	Discarded    int
	Failed       int
	Stale        int
}

const reconcileBatch = 100

// Reconcile finishes approvals interrupted between steps: approved
// submissions without a place and approved updates never applied.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	subs, err := s.submissions.ListUnmaterialized(ctx, reconcileBatch)
	if err != nil {
		return report, fmt.Errorf("list unmaterialized submissions: %w", err)
	}
	for i := range subs {
		sub := &subs[i]
		if err := s.createPlace(ctx, sub); err != nil {
			report.Failed++
			s.logger.Errorw("reconcile: create place", "submission", sub.ID, "error", err)
			continue
		}
		if err := s.markMaterialized(ctx, sub); err != nil {
			if errors.Is(err, submissions.ErrNotApproved) {
				// the live approval was reverted while the place was being created
				s.discardPlace(ctx, sub)
				report.Discarded++
				s.logger.Warnw("reconcile: submission reverted, place removed", "submission", sub.ID)
				continue
			}
			report.Failed++
			s.logger.Errorw("reconcile: mark materialized", "submission", sub.ID, "error", err)
			continue
		}
		report.Materialized++
		s.notifySubmission(ctx, sub)
	}

	ups, err := s.updates.ListUnapplied(ctx, reconcileBatch)
	if err != nil {
		return report, fmt.Errorf("list unapplied updates: %w", err)
	}
	for i := range ups {
		u := &ups[i]
		if err := s.apply(ctx, u); err != nil {
			report.Failed++
			s.logger.Errorw("reconcile: apply update", "update", u.ID, "error", err)
			continue
		}
		if u.ApplyResult == updates.ApplySuperseded {
			report.Stale++
			continue
		}
		report.Applied++
		s.notifyUpdate(ctx, u)
	}

	return report, nil
}

func (s *Service) notifySubmission(ctx context.Context, sub *submissions.Submission) {
	if s.notifier != nil {
		s.notifier.SubmissionReviewed(ctx, sub)
	}
}

func (s *Service) notifyUpdate(ctx context.Context, u *updates.UpdateRequest) {
	if s.notifier != nil {
		s.notifier.UpdateReviewed(ctx, u)
	}
}
