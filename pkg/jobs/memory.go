package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps jobs in process memory. Suitable for development and
// single-instance deployments; jobs are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

// Create persists a new job.
func (s *MemoryStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

// Get retrieves a job by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(job), nil
}

// Update replaces a job's stored state.
func (s *MemoryStore) Update(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

// List returns the most recently created jobs, newest first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, cloneJob(job))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// cloneJob copies a job so callers cannot mutate stored state.
func cloneJob(j *Job) *Job {
	c := *j
	if j.Artifacts != nil {
		c.Artifacts = make(map[string][]byte, len(j.Artifacts))
		for k, v := range j.Artifacts {
			c.Artifacts[k] = v
		}
	}
	return &c
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
