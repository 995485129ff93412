package address

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptbr-tools/sampler-cli/internal/cep"
	"github.com/ptbr-tools/sampler-cli/internal/model"
)

// fakeResolver returns canned outcomes keyed by 8-digit code, in input
// order, like the real resolver does.
type fakeResolver struct {
	outcomes map[string]cep.Outcome
	err      error
}

func (f *fakeResolver) ResolveBatch(ctx context.Context, codes []string) ([]cep.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]cep.Outcome, len(codes))
	for i, code := range codes {
		if o, ok := f.outcomes[code]; ok {
			out[i] = o
		} else {
			out[i] = cep.Outcome{
				Code:    code,
				Failure: &cep.Failure{Kind: cep.FailureNotFound, Code: code},
			}
		}
	}
	return out, nil
}

func live(code string, l cep.Live) cep.Outcome {
	return cep.Outcome{Code: code, Live: &l}
}

func failed(code string, kind cep.FailureKind) cep.Outcome {
	return cep.Outcome{Code: code, Failure: &cep.Failure{Kind: kind, Code: code}}
}

func TestEnrich_OfflineAllSyntheticAndPopulated(t *testing.T) {
	p := NewPipeline(nil, testRand(1))

	inputs := []Input{
		{Code: "01000000", City: "São Paulo", State: "SP"},
		{Code: "01000001", City: "São Paulo", State: "SP"},
	}

	records, err := p.Enrich(context.Background(), inputs, ModeOffline)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "01000-000", records[0].PostalCode)
	assert.Equal(t, "01000-001", records[1].PostalCode)
	for _, rec := range records {
		assert.Equal(t, model.SourceSynthetic, rec.Source)
		assert.NotEmpty(t, rec.Street)
		assert.NotEmpty(t, rec.Neighborhood)
		assert.NotEmpty(t, rec.BuildingNumber)
		assert.Equal(t, "São Paulo", rec.City)
		assert.Equal(t, "SP", rec.State)
	}
}

func TestEnrich_OnlineFullLiveRecord(t *testing.T) {
	resolver := &fakeResolver{outcomes: map[string]cep.Outcome{
		"01001000": live("01001000", cep.Live{
			CEP:          "01001-000",
			State:        "SP",
			City:         "São Paulo",
			Neighborhood: "Sé",
			Street:       "Praça da Sé",
		}),
	}}
	p := NewPipeline(resolver, testRand(1))

	records, err := p.Enrich(context.Background(), []Input{{Code: "01001-000"}}, ModeOnline)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, model.SourceLive, rec.Source)
	assert.Equal(t, "Praça da Sé", rec.Street)
	assert.Equal(t, "Sé", rec.Neighborhood)
	assert.NotEmpty(t, rec.BuildingNumber, "building number is always synthetic")
	assert.Equal(t, "São Paulo", rec.City)
	assert.Equal(t, "SP", rec.State)
	assert.Equal(t, "01001-000", rec.PostalCode)
}

func TestEnrich_PartialLiveFillsOnlyMissingField(t *testing.T) {
	resolver := &fakeResolver{outcomes: map[string]cep.Outcome{
		"01001000": live("01001000", cep.Live{
			Street: "Praça da Sé",
			// neighborhood missing
		}),
	}}
	p := NewPipeline(resolver, testRand(1))

	records, err := p.Enrich(context.Background(), []Input{{Code: "01001000", City: "São Paulo", State: "SP"}}, ModeOnline)
	require.NoError(t, err)

	rec := records[0]
	assert.Equal(t, model.SourceMixed, rec.Source)
	assert.Equal(t, "Praça da Sé", rec.Street, "live street must be kept untouched")
	assert.NotEmpty(t, rec.Neighborhood)
	assert.NotEqual(t, "Praça da Sé", rec.Neighborhood)
	assert.Equal(t, "São Paulo", rec.City, "caller city retained when live omits it")
	assert.Equal(t, "SP", rec.State)
}

func TestEnrich_LookupFailureDegradesToSynthetic(t *testing.T) {
	resolver := &fakeResolver{outcomes: map[string]cep.Outcome{
		"77777777": failed("77777777", cep.FailureService),
	}}
	p := NewPipeline(resolver, testRand(1))

	records, err := p.Enrich(context.Background(), []Input{{Code: "77777777", City: "Palmas", State: "TO"}}, ModeOnline)
	require.NoError(t, err, "per-item failures must not surface to the caller")

	rec := records[0]
	assert.Equal(t, model.SourceSynthetic, rec.Source)
	assert.NotEmpty(t, rec.Street)
	assert.NotEmpty(t, rec.Neighborhood)
	assert.NotEmpty(t, rec.BuildingNumber)
	assert.Equal(t, "77777-777", rec.PostalCode)
	assert.Equal(t, "Palmas", rec.City)
	assert.Equal(t, "TO", rec.State)
}

func TestEnrich_EmptyLiveFieldsScenario(t *testing.T) {
	// Directory knows the CEP but has no street-level data for it:
	// both enrichable fields are synthetic, so the source tag is
	// SYNTHETIC even though city/state came from the live record.
	resolver := &fakeResolver{outcomes: map[string]cep.Outcome{
		"36335000": live("36335000", cep.Live{
			CEP:          "36335-000",
			State:        "MG",
			City:         "Ritápolis",
			Neighborhood: "",
			Street:       "",
		}),
	}}
	p := NewPipeline(resolver, testRand(7))

	records, err := p.Enrich(context.Background(), []Input{{Code: "36335000"}}, ModeOnline)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "36335-000", rec.PostalCode)
	assert.Equal(t, "MG", rec.State)
	assert.Equal(t, "Ritápolis", rec.City)
	assert.NotEmpty(t, rec.Street)
	assert.NotEmpty(t, rec.Neighborhood)
	assert.NotEmpty(t, rec.BuildingNumber)
	assert.Equal(t, model.SourceSynthetic, rec.Source)
}

func TestEnrich_OnlinePreservesOrderWithSlowFailures(t *testing.T) {
	// End to end through the real resolver: c2 is slow and fails, c1
	// and c3 answer immediately; output order must follow input order.
	lk := &slowLookuper{
		live:  map[string]bool{"01000001": true, "01000003": true},
		delay: map[string]time.Duration{"01000002": 60 * time.Millisecond},
	}
	p := NewPipeline(cep.NewResolver(lk, 4), testRand(1))

	inputs := []Input{{Code: "01000001"}, {Code: "01000002"}, {Code: "01000003"}}
	records, err := p.Enrich(context.Background(), inputs, ModeOnline)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "01000-001", records[0].PostalCode)
	assert.Equal(t, "01000-002", records[1].PostalCode)
	assert.Equal(t, "01000-003", records[2].PostalCode)
	assert.Equal(t, model.SourceLive, records[0].Source)
	assert.Equal(t, model.SourceSynthetic, records[1].Source)
	assert.Equal(t, model.SourceLive, records[2].Source)
}

type slowLookuper struct {
	live  map[string]bool
	delay map[string]time.Duration
}

func (s *slowLookuper) Lookup(ctx context.Context, code string) cep.Outcome {
	if d, ok := s.delay[code]; ok {
		time.Sleep(d)
	}
	if s.live[code] {
		return cep.Outcome{Code: code, Live: &cep.Live{
			Street:       "Rua Direita",
			Neighborhood: "Centro",
		}}
	}
	return cep.Outcome{Code: code, Failure: &cep.Failure{Kind: cep.FailureNotFound, Code: code}}
}

func TestEnrich_MalformedCodeRejectsBatch(t *testing.T) {
	p := NewPipeline(&fakeResolver{}, testRand(1))

	_, err := p.Enrich(context.Background(), []Input{
		{Code: "01000000"},
		{Code: "1234"},
	}, ModeOffline)
	assert.Error(t, err)
}

func TestEnrich_DispatchErrorPropagates(t *testing.T) {
	resolver := &fakeResolver{err: assert.AnError}
	p := NewPipeline(resolver, testRand(1))

	_, err := p.Enrich(context.Background(), []Input{{Code: "01000000"}}, ModeOnline)
	assert.Error(t, err)
}

func TestEnrich_EmptyInput(t *testing.T) {
	p := NewPipeline(nil, testRand(1))
	records, err := p.Enrich(context.Background(), nil, ModeOffline)
	require.NoError(t, err)
	assert.Nil(t, records)
}
