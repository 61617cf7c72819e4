package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/seedframe/seedframe/pkg/hub"
)

// JobStatus is the lifecycle state of an animation job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCanceled  JobStatus = "canceled"
)

// Job is the public view of one animation run.
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Frame       int        `json:"frame"` // last completed frame index
	TotalFrames int        `json:"total_frames"`
	OutputDir   string     `json:"output_dir"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// jobState pairs the public job record with its run-control handles.
type jobState struct {
	job    Job
	cancel context.CancelFunc
	hub    *hub.Hub
}

// Store is an in-memory job registry. Jobs live for the server's lifetime.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobState)}
}

// Add registers a new job with its cancel handle and progress hub.
func (s *Store) Add(job Job, cancel context.CancelFunc, h *hub.Hub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = &jobState{job: job, cancel: cancel, hub: h}
}

// Get returns a copy of the job record.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return st.job, true
}

// List returns all jobs, newest first.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, 0, len(s.jobs))
	for _, st := range s.jobs {
		out = append(out, st.job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Update mutates a job record under the store lock and returns the result.
func (s *Store) Update(id string, fn func(*Job)) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	fn(&st.job)
	return st.job, true
}

// Hub returns the progress hub for a job.
func (s *Store) Hub(id string) (*hub.Hub, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return st.hub, true
}

// Cancel requests cancellation of a running job. It reports whether the job
// exists; the status transition happens in the runner when the frame loop
// observes the canceled context.
func (s *Store) Cancel(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.jobs[id]
	if !ok {
		return false
	}
	st.cancel()
	return true
}

// StopHubs shuts down every job's progress hub.
func (s *Store) StopHubs() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.jobs {
		st.hub.Stop()
	}
}
