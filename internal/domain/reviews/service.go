package reviews

import (
	"context"
	"time"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/users"

	"github.com/google/uuid"
)

// Notifier is told about new reviews and owner replies after they are stored.
type Notifier interface {
	ReviewAdded(ctx context.Context, place *places.Place, review places.Review)
	ReviewReplied(ctx context.Context, place *places.Place, review places.Review)
}

type Service struct {
	places   places.Store
	notifier Notifier
	now      func() time.Time
}

func NewService(store places.Store, notifier Notifier) *Service {
	return &Service{places: store, notifier: notifier, now: time.Now}
}

// Summary is the public view of a place's reviews.
type Summary struct {
	Reviews       []places.Review `json:"reviews"`
	TotalReviews  int             `json:"totalReviews"`
	AverageRating float64         `json:"averageRating"`
}

// Add appends a review by author. The author's display name is snapshotted.
func (s *Service) Add(ctx context.Context, placeID uuid.UUID, author *users.User, rating int, comment string) (*places.Place, places.Review, error) {
	p, err := places.Mutate(ctx, s.places, placeID, func(p places.Place) (places.Place, error) {
		return places.AddReview(p, author.ID, author.Name, rating, comment, s.now())
	})
	if err != nil {
		return nil, places.Review{}, err
	}

	review := p.Reviews[len(p.Reviews)-1]
	if s.notifier != nil {
		s.notifier.ReviewAdded(ctx, p, review)
	}
	return p, review, nil
}

// Reply sets the owner's reply on a review, replacing any earlier one.
func (s *Service) Reply(ctx context.Context, placeID, reviewID, actingUserID uuid.UUID, text string) (places.Review, error) {
	p, err := places.Mutate(ctx, s.places, placeID, func(p places.Place) (places.Place, error) {
		return places.ReplyToReview(p, reviewID, actingUserID, text, s.now())
	})
	if err != nil {
		return places.Review{}, err
	}

	var review places.Review
	for _, r := range p.Reviews {
		if r.ID == reviewID {
			review = r
			break
		}
	}
	if s.notifier != nil {
		s.notifier.ReviewReplied(ctx, p, review)
	}
	return review, nil
}

func (s *Service) Summary(ctx context.Context, placeID uuid.UUID) (*Summary, error) {
	p, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Reviews:       p.Reviews,
		TotalReviews:  p.TotalReviews,
		AverageRating: p.AverageRating,
	}, nil
}
