package notifications

import (
	"context"
	"fmt"
	"time"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/pushtokens"
	"cityguide/internal/domain/submissions"
	"cityguide/internal/domain/updates"
	"cityguide/internal/domain/users"
	"cityguide/internal/mailer"

	"github.com/9ssi7/exponent"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryTimeout = 30 * time.Second

// Dispatcher tells users about moderation decisions and review activity by
// email and push. Delivery is best effort: failures are logged and never
// reach the caller. Either channel may be nil.
type Dispatcher struct {
	users  users.Store
	tokens pushtokens.Store
	push   PushSender
	mail   mailer.Client
	logger *zap.SugaredLogger
	// async runs delivery on its own goroutine; tests turn it off.
	async bool
}

func NewDispatcher(u users.Store, tokens pushtokens.Store, push PushSender, mail mailer.Client, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{users: u, tokens: tokens, push: push, mail: mail, logger: logger, async: true}
}

type notice struct {
	userID   uuid.UUID
	title    string
	body     string
	data     map[string]string
	template string
	vars     map[string]any
}

func (d *Dispatcher) SubmissionReviewed(ctx context.Context, s *submissions.Submission) {
	n := notice{
		userID:   s.SubmittedBy,
		template: mailer.SubmissionReviewedTemplate,
		vars: map[string]any{
			"PlaceName":  s.Name,
			"Status":     string(s.Status),
			"AdminNotes": s.AdminNotes,
		},
		data: map[string]string{
			"type":         "submission",
			"status":       string(s.Status),
			"submissionId": s.ID.String(),
			"screen":       "my-submissions",
		},
	}
	if s.Status == submissions.StatusApproved {
		n.title = "Submission approved"
		n.body = fmt.Sprintf("%s is now live on CityGuide", s.Name)
		if s.PlaceID != nil {
			n.data["placeId"] = s.PlaceID.String()
		}
	} else {
		n.title = "Submission not approved"
		n.body = fmt.Sprintf("Your submission %s was not approved", s.Name)
	}
	d.dispatch(ctx, n)
}

func (d *Dispatcher) UpdateReviewed(ctx context.Context, u *updates.UpdateRequest) {
	n := notice{
		userID:   u.SubmittedBy,
		template: mailer.UpdateReviewedTemplate,
		vars: map[string]any{
			"PlaceName":    u.PlaceName,
			"Status":       string(u.Status),
			"AdminNotes":   u.AdminNotes,
			"PlaceMissing": u.ApplyResult == updates.ApplyPlaceMissing,
		},
		data: map[string]string{
			"type":     "update",
			"status":   string(u.Status),
			"updateId": u.ID.String(),
			"placeId":  u.PlaceID.String(),
			"screen":   "my-updates",
		},
	}
	if u.Status == updates.StatusApproved {
		n.title = "Changes approved"
		n.body = fmt.Sprintf("Your changes to %s were approved", u.PlaceName)
	} else {
		n.title = "Changes not approved"
		n.body = fmt.Sprintf("Your changes to %s were not approved", u.PlaceName)
	}
	d.dispatch(ctx, n)
}

// ReviewAdded pushes to the place owner. No email for this one.
func (d *Dispatcher) ReviewAdded(ctx context.Context, p *places.Place, r places.Review) {
	if p.OwnerID == nil || *p.OwnerID == r.UserID {
		return
	}
	d.dispatch(ctx, notice{
		userID: *p.OwnerID,
		title:  fmt.Sprintf("New %d★ review", r.Rating),
		body:   fmt.Sprintf("%s reviewed %s", r.UserName, p.Name),
		data: map[string]string{
			"type":     "review",
			"placeId":  p.ID.String(),
			"reviewId": r.ID.String(),
			"screen":   "place-reviews",
		},
	})
}

func (d *Dispatcher) ReviewReplied(ctx context.Context, p *places.Place, r places.Review) {
	d.dispatch(ctx, notice{
		userID:   r.UserID,
		title:    fmt.Sprintf("%s replied", p.Name),
		body:     r.OwnerReply,
		template: mailer.ReviewRepliedTemplate,
		vars: map[string]any{
			"PlaceName": p.Name,
			"Reply":     r.OwnerReply,
		},
		data: map[string]string{
			"type":     "reply",
			"placeId":  p.ID.String(),
			"reviewId": r.ID.String(),
			"screen":   "place-reviews",
		},
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, n notice) {
	if !d.async {
		d.deliver(ctx, n)
		return
	}
	// the request context ends with the response; delivery outlives it
	ctx = context.WithoutCancel(ctx)
	go d.deliver(ctx, n)
}

func (d *Dispatcher) deliver(ctx context.Context, n notice) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if d.push != nil {
		if err := d.sendPush(ctx, n); err != nil {
			d.logger.Warnw("push notification failed", "user", n.userID, "error", err)
		}
	}

	if d.mail != nil && n.template != "" {
		if err := d.sendMail(ctx, n); err != nil {
			d.logger.Warnw("email notification failed", "user", n.userID, "template", n.template, "error", err)
		}
	}
}

func (d *Dispatcher) sendPush(ctx context.Context, n notice) error {
	tokens, err := d.tokens.TokensForUser(ctx, n.userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: n.title,
			Body:  n.body,
			Data:  n.data,
		})
	}

	_, err = d.push.Publish(ctx, msgs)
	return err
}

func (d *Dispatcher) sendMail(ctx context.Context, n notice) error {
	u, err := d.users.GetByID(ctx, n.userID)
	if err != nil {
		return err
	}

	vars := make(map[string]any, len(n.vars)+1)
	for k, v := range n.vars {
		vars[k] = v
	}
	vars["Username"] = u.Name

	return d.mail.Send(n.template, u.Name, u.Email, vars)
}
