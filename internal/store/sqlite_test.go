package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptbr-tools/sampler-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, 50, true)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))
	require.NoError(t, s.CompleteRun(ctx, run.ID, 50, 3))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	assert.Equal(t, 50, got.Qty)
	assert.True(t, got.Online)
	assert.Equal(t, 50, got.Samples)
	assert.Equal(t, 3, got.Degraded)
	assert.Empty(t, got.Error)
}

func TestSQLiteStore_FailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, 10, false)
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, "directory unavailable"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "directory unavailable", got.Error)
}

func TestSQLiteStore_RunNotFound(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetRun(ctx, "no-such-run")
	assert.Error(t, err)
	assert.Error(t, s.UpdateRunStatus(ctx, "no-such-run", model.RunStatusRunning))
	assert.Error(t, s.CompleteRun(ctx, "no-such-run", 1, 0))
}

func TestSQLiteStore_ListRunsFilter(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, 5, false)
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, 7, true)
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, a.ID, 5, 0))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, a.ID, completed[0].ID)
}

func TestSQLiteStore_SamplesRoundtrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, 2, false)
	require.NoError(t, err)

	in := []model.Sample{
		{
			Name: "Maria", Surname: "da Silva",
			City: "São Paulo", State: "São Paulo", StateAbbr: "SP",
			Address: model.AddressRecord{
				PostalCode: "01001-000", Street: "Praça da Sé",
				Neighborhood: "Sé", BuildingNumber: "100",
				City: "São Paulo", State: "SP", Source: model.SourceLive,
			},
		},
		{
			Name: "João", Surname: "Santos",
			City: "Ritápolis", State: "Minas Gerais", StateAbbr: "MG",
			Address: model.AddressRecord{
				PostalCode: "36335-000", Street: "Rua Tiradentes",
				Neighborhood: "Centro", BuildingNumber: "42",
				City: "Ritápolis", State: "MG", Source: model.SourceSynthetic,
			},
		},
	}
	require.NoError(t, s.SaveSamples(ctx, run.ID, in))

	out, err := s.ListSamples(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0], "samples come back in insertion order")
	assert.Equal(t, in[1], out[1])
}

func TestSQLiteStore_ListSamplesEmpty(t *testing.T) {
	s := newTestSQLite(t)

	out, err := s.ListSamples(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, out)
}
