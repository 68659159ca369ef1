package inpatient

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memRepo is the in-memory Repository used when no database is configured.
// Atomic serializes multi-step operations and restores a snapshot on error,
// so partial admit or transfer writes are never observable.
type memRepo struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	rooms map[uuid.UUID]*Room
	beds  map[uuid.UUID]*Bed
	adms  map[uuid.UUID]*Admission
}

// NewMemRepo returns an empty in-memory inpatient repository.
func NewMemRepo() Repository {
	return &memRepo{
		rooms: make(map[uuid.UUID]*Room),
		beds:  make(map[uuid.UUID]*Bed),
		adms:  make(map[uuid.UUID]*Admission),
	}
}

func (r *memRepo) CreateRoom(_ context.Context, room *Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	room.CreatedAt = time.Now().UTC()
	cp := *room
	r.rooms[room.ID] = &cp
	return nil
}

func (r *memRepo) GetRoom(_ context.Context, id uuid.UUID) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (r *memRepo) ListRooms(_ context.Context) ([]*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		cp := *room
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memRepo) CreateBed(_ context.Context, b *Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[b.RoomID]; !ok {
		return ErrNotFound
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BedAvailable
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	r.beds[b.ID] = &cp
	return nil
}

func (r *memRepo) GetBed(_ context.Context, id uuid.UUID) (*Bed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.beds[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) ListRoomBeds(_ context.Context, roomID uuid.UUID) ([]*Bed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.rooms[roomID]; !ok {
		return nil, ErrNotFound
	}
	var out []*Bed
	for _, b := range r.beds {
		if b.RoomID == roomID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memRepo) ListAvailableBeds(_ context.Context) ([]*Bed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Bed
	for _, b := range r.beds {
		if b.Status == BedAvailable {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memRepo) ClaimBed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beds[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != BedAvailable {
		return ErrBedUnavailable
	}
	b.Status = BedOccupied
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) ReleaseBed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beds[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = BedAvailable
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) SetBedStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beds[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status == BedOccupied {
		return ErrBedUnavailable
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) Occupancy(_ context.Context) ([]TypeOccupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byType := make(map[string]*TypeOccupancy)
	for _, b := range r.beds {
		room, ok := r.rooms[b.RoomID]
		if !ok {
			continue
		}
		t, ok := byType[room.Type]
		if !ok {
			t = &TypeOccupancy{RoomType: room.Type}
			byType[room.Type] = t
		}
		t.Total++
		if b.Status == BedOccupied {
			t.Occupied++
		}
	}
	out := make([]TypeOccupancy, 0, len(byType))
	for _, t := range byType {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomType < out[j].RoomType })
	return out, nil
}

func (r *memRepo) CreateAdmission(_ context.Context, a *Admission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	r.adms[a.ID] = &cp
	return nil
}

func (r *memRepo) GetAdmission(_ context.Context, id uuid.UUID) (*Admission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adms[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) UpdateAdmission(_ context.Context, a *Admission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adms[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	r.adms[a.ID] = &cp
	return nil
}

func (r *memRepo) ListAdmissions(_ context.Context, f AdmissionFilter) ([]*Admission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Admission
	for _, a := range r.adms {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) CountActiveAdmissions(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, a := range r.adms {
		if a.Status == AdmissionActive {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	beds := make(map[uuid.UUID]*Bed, len(r.beds))
	for id, b := range r.beds {
		cp := *b
		beds[id] = &cp
	}
	adms := make(map[uuid.UUID]*Admission, len(r.adms))
	for id, a := range r.adms {
		cp := *a
		adms[id] = &cp
	}
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.beds = beds
		r.adms = adms
		r.mu.Unlock()
		return err
	}
	return nil
}
