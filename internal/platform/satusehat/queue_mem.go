package satusehat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memStore struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]*Job
	byKey map[string]uuid.UUID
}

func NewMemStore() JobStore {
	return &memStore{
		jobs:  make(map[uuid.UUID]*Job),
		byKey: make(map[string]uuid.UUID),
	}
}

func (s *memStore) Enqueue(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, exists := s.byKey[job.IdempotencyKey]; exists {
		*job = *s.jobs[id]
		return nil
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = JobPending
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	cp := *job
	s.jobs[job.ID] = &cp
	s.byKey[job.IdempotencyKey] = job.ID
	return nil
}

func (s *memStore) Pending(_ context.Context, limit int) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Job
	for _, j := range s.jobs {
		if j.Status == JobPending {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) MarkSuccess(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	j.Status = JobSuccess
	j.LastError = ""
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) MarkFailure(_ context.Context, id uuid.UUID, cause string, maxRetries int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	j.RetryCount++
	j.LastError = cause
	if j.RetryCount >= maxRetries {
		j.Status = JobFailed
	}
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) Counts(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]int{JobPending: 0, JobSuccess: 0, JobFailed: 0}
	for _, j := range s.jobs {
		out[j.Status]++
	}
	return out, nil
}
