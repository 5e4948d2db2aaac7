// Package jobs provides asynchronous render job tracking for the API server.
//
// A render can take seconds for long animations, so the server accepts jobs,
// runs them in the background, and lets clients poll for status. This package
// defines the job model and storage interfaces, with implementations for
// different backends:
//   - memory: In-memory storage for development/testing and single instances
//   - mongo: MongoDB-backed storage for multi-instance deployments
//
// # Architecture
//
// Jobs move through a simple lifecycle:
//
//	pending → running → succeeded | failed
//
// The Store interface supports Create/Get/Update and listing recent jobs.
// A Worker pulls the pipeline Runner and the Store together: it executes
// the job's options and records the outcome, including encoded artifacts.
//
// # Usage
//
// Enqueue and execute a job:
//
//	job := jobs.New(opts)
//	if err := store.Create(ctx, job); err != nil {
//	    return err
//	}
//	go worker.Run(context.WithoutCancel(ctx), job.ID)
//
//	// Later
//	job, err := store.Get(ctx, id)
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sketchmesh/pkg/pipeline"
)

// Sentinel errors for job operations.
var (
	// ErrNotFound is returned when a job does not exist.
	ErrNotFound = errors.New("job not found")
)

// Status is the lifecycle state of a render job.
type Status string

// Job lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Job is one asynchronous render request and its outcome.
type Job struct {
	ID      string           `json:"id" bson:"_id"`
	Options pipeline.Options `json:"options" bson:"options"`
	Status  Status           `json:"status" bson:"status"`

	// Set once the job finishes.
	Error     string `json:"error,omitempty" bson:"error,omitempty"`
	SceneName string `json:"scene_name,omitempty" bson:"scene_name,omitempty"`
	SceneHash string `json:"scene_hash,omitempty" bson:"scene_hash,omitempty"`

	// Artifacts holds the encoded outputs keyed by format. Only present on
	// succeeded jobs.
	Artifacts map[string][]byte `json:"-" bson:"artifacts,omitempty"`

	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	StartedAt  time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// Duration returns the execution time of a finished job, or zero.
func (j *Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// New creates a pending job for the given pipeline options.
func New(opts pipeline.Options) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Options:   opts,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for job storage backends.
type Store interface {
	// Create persists a new job. Creating an existing ID is an error.
	Create(ctx context.Context, job *Job) error

	// Get retrieves a job by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Job, error)

	// Update replaces a job's stored state.
	Update(ctx context.Context, job *Job) error

	// List returns the most recently created jobs, newest first.
	List(ctx context.Context, limit int) ([]*Job, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
