package source

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/PizzaHomicide/listfill/internal/domain"
)

// MaxRandomID is the largest id a random run draws.  Ids are drawn uniformly from [1, MaxRandomID].
const MaxRandomID = 99999

// RandomOptions configures a Random source
type RandomOptions struct {
	MaxAttempts int
	// MediaTypes are cycled through in order, one per attempt.  Defaults to anime only.
	MediaTypes []domain.MediaType
	// Rand allows a seeded generator.  Defaults to the global generator.
	Rand *rand.Rand
}

// Random produces exactly MaxAttempts single target batches with random ids.  Ids already tried in earlier runs are
// not remembered, so repeated runs may try the same id again.
type Random struct {
	opts      RandomOptions
	generated int
}

var _ domain.TargetSource = (*Random)(nil)

func NewRandom(opts RandomOptions) (*Random, error) {
	if opts.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", opts.MaxAttempts)
	}
	if len(opts.MediaTypes) == 0 {
		opts.MediaTypes = []domain.MediaType{domain.MediaAnime}
	}
	return &Random{opts: opts}, nil
}

func (r *Random) Name() string { return "random" }

// Total is the number of targets the source will produce over its lifetime
func (r *Random) Total() int { return r.opts.MaxAttempts }

func (r *Random) Next(ctx context.Context) (*domain.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.generated >= r.opts.MaxAttempts {
		return nil, fmt.Errorf("%w: %d attempts made", domain.ErrSourceExhausted, r.generated)
	}

	target := domain.Target{
		Type: r.opts.MediaTypes[r.generated%len(r.opts.MediaTypes)],
		ID:   r.drawID(),
	}
	r.generated++

	return &domain.Batch{Targets: []domain.Target{target}}, nil
}

func (r *Random) drawID() int {
	if r.opts.Rand != nil {
		return r.opts.Rand.IntN(MaxRandomID) + 1
	}
	return rand.IntN(MaxRandomID) + 1
}
