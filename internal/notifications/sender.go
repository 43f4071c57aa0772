package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender is the part of the Expo SDK the dispatcher needs.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
}
