package pharmacy

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	meds  map[uuid.UUID]*Medication
	rxs   map[uuid.UUID]*Prescription
	codes map[string]uuid.UUID
}

func NewMemRepo() Repository {
	return &memRepo{
		meds:  make(map[uuid.UUID]*Medication),
		rxs:   make(map[uuid.UUID]*Prescription),
		codes: make(map[string]uuid.UUID),
	}
}

func (r *memRepo) CreateMedication(_ context.Context, m *Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[m.Code]; exists {
		return ErrDuplicateCode
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	cp := *m
	r.meds[m.ID] = &cp
	r.codes[m.Code] = m.ID
	return nil
}

func (r *memRepo) GetMedication(_ context.Context, id uuid.UUID) (*Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) UpdateMedication(_ context.Context, m *Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.meds[m.ID]
	if !ok {
		return ErrNotFound
	}
	if m.Code != existing.Code {
		if _, taken := r.codes[m.Code]; taken {
			return ErrDuplicateCode
		}
		delete(r.codes, existing.Code)
		r.codes[m.Code] = m.ID
	}
	m.UpdatedAt = time.Now().UTC()
	cp := *m
	r.meds[m.ID] = &cp
	return nil
}

func (r *memRepo) ListMedications(_ context.Context, f MedicationFilter, limit, offset int) ([]*Medication, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Medication
	for _, m := range r.meds {
		if f.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		if f.LowStock && !m.LowStock() {
			continue
		}
		cp := *m
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

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

func (r *memRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meds[id]
	if !ok {
		return ErrNotFound
	}
	if m.Stock+delta < 0 {
		return ErrInsufficientStock
	}
	m.Stock += delta
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) CreatePrescription(_ context.Context, p *Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	for i := range p.Items {
		p.Items[i].ID = uuid.New()
		p.Items[i].PrescriptionID = p.ID
	}
	cp := *p
	cp.Items = append([]PrescriptionItem(nil), p.Items...)
	r.rxs[p.ID] = &cp
	return nil
}

func (r *memRepo) GetPrescription(_ context.Context, id uuid.UUID) (*Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rxs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	cp.Items = append([]PrescriptionItem(nil), p.Items...)
	return &cp, nil
}

func (r *memRepo) ListPrescriptions(_ context.Context, patientID *uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Prescription
	for _, p := range r.rxs {
		if patientID != nil && p.PatientID != *patientID {
			continue
		}
		cp := *p
		cp.Items = append([]PrescriptionItem(nil), p.Items...)
		all = append(all, &cp)
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

func (r *memRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	meds := make(map[uuid.UUID]*Medication, len(r.meds))
	for id, m := range r.meds {
		cp := *m
		meds[id] = &cp
	}
	rxs := make(map[uuid.UUID]*Prescription, len(r.rxs))
	for id, p := range r.rxs {
		cp := *p
		cp.Items = append([]PrescriptionItem(nil), p.Items...)
		rxs[id] = &cp
	}
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.meds = meds
		r.rxs = rxs
		r.mu.Unlock()
		return err
	}
	return nil
}
