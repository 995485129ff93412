package cep

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent lookups when no limit is configured.
const DefaultWorkers = 8

// Resolver fans a batch of postal codes out to a Lookuper, bounded by a
// worker limit. Each lookup writes its outcome into the slot matching
// its input index, so output order always matches input order no matter
// in which order the lookups complete, and no locking is needed on the
// result slice.
type Resolver struct {
	client  Lookuper
	workers int
}

// NewResolver creates a batch resolver. workers <= 0 falls back to
// DefaultWorkers.
func NewResolver(client Lookuper, workers int) *Resolver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Resolver{client: client, workers: workers}
}

// ResolveBatch resolves every code concurrently and returns one outcome
// per input code, in input order. A failed lookup never aborts or
// delays the rest of the batch; failures are collected positionally.
// The returned error is non-nil only for dispatch-level problems, which
// signal a configuration error rather than a data error.
func (r *Resolver) ResolveBatch(ctx context.Context, codes []string) ([]Outcome, error) {
	if r.client == nil {
		return nil, eris.New("cep: resolver has no lookup client")
	}
	if len(codes) == 0 {
		return nil, nil
	}

	start := time.Now()
	outcomes := make([]Outcome, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, code := range codes {
		g.Go(func() error {
			outcomes[i] = r.client.Lookup(gctx, code)
			return nil
		})
	}

	// Workers never return errors; per-item failures live in their slots.
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}

	zap.L().Debug("cep: batch resolved",
		zap.Int("codes", len(codes)),
		zap.Int("failed", failed),
		zap.Int("workers", r.workers),
		zap.Duration("elapsed", time.Since(start)),
	)

	return outcomes, nil
}
