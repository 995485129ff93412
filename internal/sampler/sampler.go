// Package sampler assembles complete personal records from the
// location, address, name and document generators.
package sampler

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/address"
	"github.com/ptbr-tools/sampler-cli/internal/document"
	"github.com/ptbr-tools/sampler-cli/internal/location"
	"github.com/ptbr-tools/sampler-cli/internal/model"
	"github.com/ptbr-tools/sampler-cli/internal/person"
)

// Options configures one generation run.
type Options struct {
	Qty    int
	Online bool

	IncludeName bool
	Name        person.Options

	IncludeCPF   bool
	IncludeRG    bool
	IncludeCNPJ  bool
	IncludePIS   bool
	IncludeCEI   bool
	IncludePhone bool
}

// Result is a generation run's output plus data-quality counters.
type Result struct {
	Samples []model.Sample
	// Degraded counts records whose address fell back to synthetic
	// data wholly or partially (source MIXED or SYNTHETIC in online
	// mode). Callers report it as a statistic, not an error.
	Degraded int
}

// Generator produces samples. Safe for concurrent use: the location
// and name samplers guard their own random sources, and the generator
// guards the one used for documents.
type Generator struct {
	locations *location.Sampler
	names     *person.Sampler
	pipeline  *address.Pipeline

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a generator. rnd may be nil for a time-seeded source.
func New(locations *location.Sampler, names *person.Sampler, pipeline *address.Pipeline, rnd *rand.Rand) *Generator {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed))
	}
	return &Generator{
		locations: locations,
		names:     names,
		pipeline:  pipeline,
		rnd:       rnd,
	}
}

// Generate draws opts.Qty samples. In online mode every drawn CEP goes
// through the directory lookup batch; lookup failures degrade records
// to synthetic addresses without failing the run.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Qty <= 0 {
		return nil, eris.New("sampler: qty must be positive")
	}

	start := time.Now()

	locs := make([]location.Location, opts.Qty)
	inputs := make([]address.Input, opts.Qty)
	for i := range locs {
		loc, err := g.locations.Draw()
		if err != nil {
			return nil, eris.Wrap(err, "sampler: draw location")
		}
		locs[i] = loc
		inputs[i] = address.Input{
			Code:  loc.CEP,
			City:  loc.City.Name,
			State: loc.StateAbbr,
		}
	}

	mode := address.ModeOffline
	if opts.Online {
		mode = address.ModeOnline
	}

	records, err := g.pipeline.Enrich(ctx, inputs, mode)
	if err != nil {
		return nil, eris.Wrap(err, "sampler: enrich addresses")
	}

	result := &Result{Samples: make([]model.Sample, opts.Qty)}
	for i, rec := range records {
		sample, err := g.assemble(locs[i], rec, opts)
		if err != nil {
			return nil, err
		}
		result.Samples[i] = sample
		if opts.Online && rec.Source != model.SourceLive {
			result.Degraded++
		}
	}

	zap.L().Info("samples generated",
		zap.Int("qty", opts.Qty),
		zap.Bool("online", opts.Online),
		zap.Int("degraded", result.Degraded),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func (g *Generator) assemble(loc location.Location, rec model.AddressRecord, opts Options) (model.Sample, error) {
	sample := model.Sample{
		City:      loc.City.Name,
		State:     loc.StateName,
		StateAbbr: loc.StateAbbr,
		Address:   rec,
	}

	// The directory is authoritative for locality naming; keep the
	// top-level city in sync with the resolved address.
	if rec.City != "" {
		sample.City = rec.City
	}
	if rec.State != "" && rec.State != loc.StateAbbr {
		sample.StateAbbr = rec.State
		if name, ok := g.locations.StateName(rec.State); ok {
			sample.State = name
		} else {
			sample.State = ""
		}
	}

	if opts.IncludeName {
		c := g.names.Name(opts.Name)
		sample.Name = c.First
		sample.MiddleName = c.Middle
		sample.Surname = c.Surname
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if opts.IncludeCPF {
		sample.Documents.CPF = document.CPF(g.rnd, true)
	}
	if opts.IncludeRG {
		rg, err := document.RG(g.rnd, sample.StateAbbr, true)
		if err != nil {
			return model.Sample{}, eris.Wrap(err, "sampler: generate rg")
		}
		sample.Documents.RG = rg
	}
	if opts.IncludeCNPJ {
		sample.Documents.CNPJ = document.CNPJ(g.rnd, true)
	}
	if opts.IncludePIS {
		sample.Documents.PIS = document.PIS(g.rnd, true)
	}
	if opts.IncludeCEI {
		sample.Documents.CEI = document.CEI(g.rnd, true)
	}
	if opts.IncludePhone {
		phone, err := document.Phone(g.rnd, loc.City.DDD)
		if err != nil {
			return model.Sample{}, eris.Wrap(err, "sampler: generate phone")
		}
		sample.Phone = phone
	}

	return sample, nil
}
