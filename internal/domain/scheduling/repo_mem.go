package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Appointment
}

func NewMemRepo() Repository {
	return &memRepo{items: make(map[uuid.UUID]*Appointment)}
}

func (r *memRepo) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queue := 0
	for _, ex := range r.items {
		if ex.DoctorID != a.DoctorID || ex.Date != a.Date {
			continue
		}
		if ex.Time == a.Time && ex.Status == StatusScheduled {
			return ErrSlotTaken
		}
		if ex.QueueNumber > queue {
			queue = ex.QueueNumber
		}
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.QueueNumber = queue + 1
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Appointment
	for _, a := range r.items {
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].QueueNumber < out[j].QueueNumber
	})
	return out, nil
}

func (r *memRepo) CountByDate(_ context.Context, date time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := date.Format("2006-01-02")
	n := 0
	for _, a := range r.items {
		if a.Date == day && a.Status != StatusCancelled {
			n++
		}
	}
	return n, nil
}
