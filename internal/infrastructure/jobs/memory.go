// Package jobs keeps upload jobs addressable between the upload, status, and
// download requests.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/ports"
)

// ErrNotFound is returned when no job exists under the requested ID.
var ErrNotFound = errors.New("job not found")

// MemoryStore is the single-process default job store.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

var _ ports.JobStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]domain.Job)}
}

// Create registers the job, stamping its creation time if unset.
func (s *MemoryStore) Create(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	s.jobs[job.ID] = *job
	return nil
}

// Get returns a copy of the stored job or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}
