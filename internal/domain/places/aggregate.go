package places

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrEmptyComment    = errors.New("rating and comment are required")
	ErrDuplicateReview = errors.New("you have already reviewed this place")
	ErrNotOwner        = errors.New("only the place owner can do this")
	ErrReviewNotFound  = errors.New("review not found")
	ErrEmptyReply      = errors.New("reply cannot be empty")
)

// ReviewStats folds over the whole review list; it never keeps a running average.
func ReviewStats(reviews []Review) (total int, average float64) {
	total = len(reviews)
	if total == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return total, float64(sum) / float64(total)
}

// Recompute refreshes the derived rating fields from p.Reviews.
func Recompute(p Place) Place {
	p.TotalReviews, p.AverageRating = ReviewStats(p.Reviews)
	p.Rating = p.AverageRating
	return p
}

// AddReview returns a copy of p with a new review appended and the stats
// recomputed. p itself is never modified.
func AddReview(p Place, authorID uuid.UUID, authorName string, rating int, comment string, now time.Time) (Place, error) {
	if rating < 1 || rating > 5 {
		return p, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return p, ErrEmptyComment
	}
	for _, r := range p.Reviews {
		if r.UserID == authorID {
			return p, ErrDuplicateReview
		}
	}

	reviews := make([]Review, len(p.Reviews), len(p.Reviews)+1)
	copy(reviews, p.Reviews)
	reviews = append(reviews, Review{
		ID:        uuid.New(),
		UserID:    authorID,
		UserName:  authorName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	})

	p.Reviews = reviews
	return Recompute(p), nil
}

// ReplyToReview sets or overwrites the owner's reply on one review. Only the
// place owner may reply; admins get no exemption.
func ReplyToReview(p Place, reviewID, actingUserID uuid.UUID, reply string, now time.Time) (Place, error) {
	if !p.OwnedBy(actingUserID) {
		return p, ErrNotOwner
	}

	idx := -1
	for i, r := range p.Reviews {
		if r.ID == reviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, ErrReviewNotFound
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return p, ErrEmptyReply
	}

	reviews := make([]Review, len(p.Reviews))
	copy(reviews, p.Reviews)
	at := now
	reviews[idx].OwnerReply = reply
	reviews[idx].OwnerReplyAt = &at

	p.Reviews = reviews
	return p, nil
}

// Apply copies approved changes onto p. Empty name, category, description or
// image keep the current value; the optional contact fields are taken as-is.
func Apply(p Place, c Changes) Place {
	if c.Name != "" {
		p.Name = c.Name
	}
	if c.Category != "" {
		p.Category = c.Category
	}
	if c.Description != "" {
		p.Description = c.Description
	}
	if c.Image != "" {
		p.Image = c.Image
	}
	p.Address = c.Address
	p.ContactNumber = c.ContactNumber
	p.Website = c.Website
	return p
}

// Fill completes a partial change set with the place's current values, so a
// stored update request is self-contained.
func Fill(p Place, c Changes) Changes {
	if c.Name == "" {
		c.Name = p.Name
	}
	if c.Category == "" {
		c.Category = p.Category
	}
	if c.Description == "" {
		c.Description = p.Description
	}
	if c.Image == "" {
		c.Image = p.Image
	}
	if c.Address == "" {
		c.Address = p.Address
	}
	if c.ContactNumber == "" {
		c.ContactNumber = p.ContactNumber
	}
	if c.Website == "" {
		c.Website = p.Website
	}
	return c
}
