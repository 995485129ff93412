package store

import (
	"context"

	"github.com/ptbr-tools/sampler-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for generation runs and the
// samples they produced.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, qty int, online bool) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, samples, degraded int) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Samples
	SaveSamples(ctx context.Context, runID string, samples []model.Sample) error
	ListSamples(ctx context.Context, runID string) ([]model.Sample, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
