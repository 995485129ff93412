package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ptbr-tools/sampler-cli/internal/address"
	"github.com/ptbr-tools/sampler-cli/internal/cep"
	"github.com/ptbr-tools/sampler-cli/internal/location"
	"github.com/ptbr-tools/sampler-cli/internal/person"
	"github.com/ptbr-tools/sampler-cli/internal/sampler"
	"github.com/ptbr-tools/sampler-cli/internal/store"
	"github.com/ptbr-tools/sampler-cli/pkg/brasilapi"
	"github.com/ptbr-tools/sampler-cli/pkg/viacep"
)

// initStore opens the run-tracking store, or returns nil when tracking
// is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// newLookupClient builds the two-provider CEP lookup client from config.
func newLookupClient() *cep.Client {
	primary := viacep.NewClient(
		viacep.WithBaseURL(cfg.Lookup.ViaCEPURL),
		viacep.WithRateLimit(float64(cfg.Lookup.RateLimit), cfg.Lookup.RateLimit),
	)
	fallback := brasilapi.NewClient(
		brasilapi.WithBaseURL(cfg.Lookup.BrasilAPURL),
	)
	return cep.NewClient(primary,
		cep.WithFallback(fallback),
		cep.WithTimeout(cfg.Lookup.Timeout()),
	)
}

// newRand returns a seeded source, or a time-seeded one when seed is 0.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// buildGenerator wires the location, name and address components into
// a sample generator. workers overrides the configured lookup
// parallelism when positive.
func buildGenerator(seed uint64, workers int) (*sampler.Generator, error) {
	// Each component gets its own stream so seeded runs stay
	// reproducible without correlating draws across components.
	derive := func(n uint64) *rand.Rand {
		if seed == 0 {
			return newRand(0)
		}
		return newRand(seed + n)
	}

	ds, err := location.LoadDataset(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	locs, err := location.NewSampler(ds, derive(0))
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = cfg.Lookup.Workers
	}
	resolver := cep.NewResolver(newLookupClient(), workers)
	pipeline := address.NewPipeline(resolver, derive(1))
	names := person.NewSampler(derive(2))

	return sampler.New(locs, names, pipeline, derive(3)), nil
}
