package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchmesh/pkg/observability"
	"github.com/matzehuels/sketchmesh/pkg/pipeline"
)

// Worker executes pending jobs against the rendering pipeline and records
// their outcome in the store.
type Worker struct {
	Store  Store
	Runner *pipeline.Runner
	Logger *log.Logger
}

// NewWorker creates a worker. A nil logger falls back to the default.
func NewWorker(store Store, runner *pipeline.Runner, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{Store: store, Runner: runner, Logger: logger}
}

// Run executes one job by ID, transitioning it through the lifecycle. The
// returned error reflects job bookkeeping failures; render failures are
// recorded on the job itself.
func (w *Worker) Run(ctx context.Context, id string) error {
	job, err := w.Store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}

	job.Status = StatusRunning
	job.StartedAt = time.Now().UTC()
	if err := w.Store.Update(ctx, job); err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}

	w.Logger.Info("job started", "job", job.ID)
	result, runErr := w.Runner.Execute(ctx, job.Options)

	job.FinishedAt = time.Now().UTC()
	if runErr != nil {
		job.Status = StatusFailed
		job.Error = runErr.Error()
		w.Logger.Error("job failed", "job", job.ID, "err", runErr)
	} else {
		job.Status = StatusSucceeded
		job.SceneName = result.SceneName
		job.SceneHash = result.SceneHash
		job.Artifacts = result.Artifacts
		w.Logger.Info("job finished",
			"job", job.ID,
			"scene", result.SceneName,
			"duration", job.Duration())
	}
	observability.Server().OnJobFinished(ctx, job.ID, job.Duration(), runErr)

	if err := w.Store.Update(ctx, job); err != nil {
		return fmt.Errorf("record job outcome: %w", err)
	}
	return nil
}
