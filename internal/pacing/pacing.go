package pacing

import (
	"context"
	"time"
)

// Sleeper waits for d or until ctx is done, whichever comes first
type Sleeper func(ctx context.Context, d time.Duration) error

// Wait is the Sleeper used outside of tests.  A non-positive duration only checks the context.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Recorder is a Sleeper that never waits and remembers every delay it was asked for
type Recorder struct {
	Delays []time.Duration
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.Delays = append(r.Delays, d)
	return ctx.Err()
}

// Total is the sum of all recorded delays
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Delays {
		total += d
	}
	return total
}
