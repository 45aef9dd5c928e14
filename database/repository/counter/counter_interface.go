package counterRepo

import "context"

// CounterRepository hands out the booking reference sequence.
type CounterRepository interface {
	// Next atomically increments the (villaID, date) counter, creating it
	// at zero first if absent, and returns the new value.
	Next(ctx context.Context, villaID, date string) (int, error)
	EnsureIndexes(ctx context.Context) error
}
