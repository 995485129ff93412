package address

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/cep"
	"github.com/ptbr-tools/sampler-cli/internal/model"
)

// Mode selects between live directory lookups and purely local
// generation.
type Mode string

const (
	// ModeOnline resolves each code against the postal directory and
	// fills whatever the directory omits with synthetic data.
	ModeOnline Mode = "online"
	// ModeOffline generates every field locally. No I/O, cannot fail.
	ModeOffline Mode = "offline"
)

// Input is one postal code to enrich, with the city/state the caller
// drew it for. Live directory data, when present, overrides City and
// State; otherwise they pass through unchanged.
type Input struct {
	Code  string
	City  string
	State string
}

// BatchResolver is the slice of the cep resolver the pipeline needs.
type BatchResolver interface {
	ResolveBatch(ctx context.Context, codes []string) ([]cep.Outcome, error)
}

// Pipeline produces one fully populated AddressRecord per postal code,
// applying field-level fallback from synthetic data wherever the live
// lookup omits a field or fails outright. A live result that has a
// street but no neighborhood keeps the street; only the missing field
// is filled, from a fresh synthetic draw.
type Pipeline struct {
	resolver BatchResolver
	rnd      *rand.Rand
}

// NewPipeline creates an enrichment pipeline. rnd may be nil, in which
// case a time-seeded source is used. The random source is confined to
// the merge loop, so it needs no locking of its own.
func NewPipeline(resolver BatchResolver, rnd *rand.Rand) *Pipeline {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed))
	}
	return &Pipeline{resolver: resolver, rnd: rnd}
}

// Enrich resolves every input into an AddressRecord, in input order.
// Malformed postal codes are caller errors and fail the call before any
// lookup is dispatched; lookup failures never do — the affected record
// degrades to synthetic fill, distinguishable by its Source tag.
func (p *Pipeline) Enrich(ctx context.Context, inputs []Input, mode Mode) ([]model.AddressRecord, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	// Validate the whole batch up front: one malformed code is a bug in
	// the caller's drawing logic, not a data-quality event to absorb.
	stripped := make([]string, len(inputs))
	for i, in := range inputs {
		code, err := StripCEP(in.Code)
		if err != nil {
			return nil, eris.Wrapf(err, "address: input %d", i)
		}
		stripped[i] = code
	}

	if mode == ModeOffline {
		return p.enrichOffline(inputs)
	}

	if p.resolver == nil {
		return nil, eris.New("address: online mode requires a batch resolver")
	}

	outcomes, err := p.resolver.ResolveBatch(ctx, stripped)
	if err != nil {
		return nil, eris.Wrap(err, "address: dispatch batch")
	}

	records := make([]model.AddressRecord, len(inputs))
	for i, outcome := range outcomes {
		rec, err := p.merge(inputs[i], outcome)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}

	return records, nil
}

// enrichOffline fills every record from the synthetic provider.
func (p *Pipeline) enrichOffline(inputs []Input) ([]model.AddressRecord, error) {
	records := make([]model.AddressRecord, len(inputs))
	for i, in := range inputs {
		street, neighborhood, number := Synthesize(p.rnd)
		rec, err := Normalize(model.AddressRecord{
			PostalCode:     in.Code,
			Street:         street,
			Neighborhood:   neighborhood,
			BuildingNumber: number,
			City:           in.City,
			State:          in.State,
			Source:         model.SourceSynthetic,
		})
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// merge folds one lookup outcome into a record, filling street and
// neighborhood independently so a partial live result keeps whatever
// the directory did supply. Building numbers are always synthetic:
// the directory services in this domain never provide them.
func (p *Pipeline) merge(in Input, outcome cep.Outcome) (model.AddressRecord, error) {
	var live cep.Live
	if outcome.OK() {
		live = *outcome.Live
	} else if outcome.Failure != nil {
		// Degrade gracefully: an empty live record makes the fill
		// logic below produce a fully synthetic one.
		zap.L().Debug("address: lookup failed, degrading to synthetic",
			zap.String("cep", outcome.Code),
			zap.String("kind", string(outcome.Failure.Kind)),
		)
	}

	street := strings.TrimSpace(live.Street)
	neighborhood := strings.TrimSpace(live.Neighborhood)

	liveStreet := street != ""
	liveNeighborhood := neighborhood != ""

	if !liveStreet {
		street = Street(p.rnd)
	}
	if !liveNeighborhood {
		neighborhood = Neighborhood(p.rnd)
	}

	var source model.Source
	switch {
	case liveStreet && liveNeighborhood:
		source = model.SourceLive
	case liveStreet || liveNeighborhood:
		source = model.SourceMixed
	default:
		source = model.SourceSynthetic
	}

	city, state := in.City, in.State
	// The directory is authoritative for locality naming.
	if v := strings.TrimSpace(live.City); v != "" {
		city = v
	}
	if v := strings.TrimSpace(live.State); v != "" {
		state = v
	}

	return Normalize(model.AddressRecord{
		PostalCode:     in.Code,
		Street:         street,
		Neighborhood:   neighborhood,
		BuildingNumber: BuildingNumber(p.rnd),
		City:           city,
		State:          state,
		Source:         source,
	})
}
