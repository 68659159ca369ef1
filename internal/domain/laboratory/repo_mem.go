package laboratory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Order
}

func NewMemRepo() Repository {
	return &memRepo{items: make(map[uuid.UUID]*Order)}
}

func copyOrder(o *Order) *Order {
	cp := *o
	cp.Tests = append([]Test(nil), o.Tests...)
	return &cp
}

func (r *memRepo) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Tests {
		o.Tests[i].ID = uuid.New()
		o.Tests[i].OrderID = o.ID
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	r.items[o.ID] = copyOrder(o)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOrder(o), nil
}

func (r *memRepo) Update(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now().UTC()
	r.items[o.ID] = copyOrder(o)
	return nil
}

func (r *memRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Order
	for _, o := range r.items {
		if f.PatientID != nil && o.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		all = append(all, copyOrder(o))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
