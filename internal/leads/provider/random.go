package provider

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"lead_analyzer_backend/internal/scoring"
)

// Random draws every metric uniformly from [0, 100]. Useful for demos where
// varied scores matter more than stability.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random provider. A nil src seeds from the clock.
func NewRandom(src rand.Source) *Random {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	return &Random{rng: rand.New(src)}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Metrics(ctx context.Context, _ string) (scoring.RawMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw := make(scoring.RawMetrics, len(scoring.Metrics))
	for _, m := range scoring.Metrics {
		raw[string(m)] = r.rng.IntN(101)
	}
	return raw, nil
}
