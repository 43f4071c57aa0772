package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxMutateAttempts bounds the read-modify-write retries in Mutate.
const MaxMutateAttempts = 5

var ErrContention = errors.New("place is being modified too often, try again")

// Mutate loads a place, applies fn and writes the result back guarded by the
// place version. A concurrent writer makes Update fail with
// ErrVersionConflict, in which case the whole cycle is retried on fresh data.
// Errors returned by fn abort immediately.
func Mutate(ctx context.Context, store Store, id uuid.UUID, fn func(Place) (Place, error)) (*Place, error) {
	for attempt := 0; attempt < MaxMutateAttempts; attempt++ {
		current, err := store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := fn(*current)
		if err != nil {
			return nil, err
		}
		next.Version = current.Version

		err = store.Update(ctx, &next)
		switch {
		case err == nil:
			return &next, nil
		case errors.Is(err, ErrVersionConflict):
			continue
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("mutate place %s: %w", id, ErrContention)
}
