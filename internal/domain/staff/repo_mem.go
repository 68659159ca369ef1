package staff

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	mu      sync.RWMutex
	doctors map[uuid.UUID]*Doctor
}

func NewMemRepo() Repository {
	return &memRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (r *memRepo) Create(_ context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = uuid.New()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.doctors[d.ID]
	if !ok {
		return ErrNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now()
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *memRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Doctor
	for _, d := range r.doctors {
		if name := params["name"]; name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			continue
		}
		if sp := params["specialty"]; sp != "" && !strings.EqualFold(d.Specialty, sp) {
			continue
		}
		if poly := params["polyclinic"]; poly != "" && !strings.EqualFold(d.Polyclinic, poly) {
			continue
		}
		cp := *d
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}
