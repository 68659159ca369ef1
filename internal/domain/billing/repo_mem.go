package billing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	bills    map[uuid.UUID]*Billing
	payments map[uuid.UUID][]*Payment
}

func NewMemRepo() Repository {
	return &memRepo{
		bills:    make(map[uuid.UUID]*Billing),
		payments: make(map[uuid.UUID][]*Payment),
	}
}

func copyBilling(b *Billing) *Billing {
	cp := *b
	cp.Items = append([]BillingItem(nil), b.Items...)
	return &cp
}

func (r *memRepo) Create(_ context.Context, b *Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	for i := range b.Items {
		b.Items[i].ID = uuid.New()
		b.Items[i].BillingID = b.ID
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.bills[b.ID] = copyBilling(b)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBilling(b), nil
}

func (r *memRepo) Update(_ context.Context, b *Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bills[b.ID]; !ok {
		return ErrNotFound
	}
	for i := range b.Items {
		if b.Items[i].ID == uuid.Nil {
			b.Items[i].ID = uuid.New()
		}
		b.Items[i].BillingID = b.ID
	}
	b.UpdatedAt = time.Now().UTC()
	r.bills[b.ID] = copyBilling(b)
	return nil
}

func (r *memRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Billing, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Billing
	for _, b := range r.bills {
		if f.PatientID != nil && b.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		all = append(all, copyBilling(b))
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

func (r *memRepo) AddPayment(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bills[p.BillingID]; !ok {
		return ErrNotFound
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().UTC()
	}
	cp := *p
	r.payments[p.BillingID] = append(r.payments[p.BillingID], &cp)
	return nil
}

func (r *memRepo) ListPayments(_ context.Context, billingID uuid.UUID) ([]*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Payment
	for _, p := range r.payments[billingID] {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.Before(out[j].PaidAt) })
	return out, nil
}

func (r *memRepo) RevenueBetween(_ context.Context, from, to time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	for _, ps := range r.payments {
		for _, p := range ps {
			if !p.PaidAt.Before(from) && p.PaidAt.Before(to) {
				sum += p.Amount
			}
		}
	}
	return sum, nil
}

func (r *memRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	bills := make(map[uuid.UUID]*Billing, len(r.bills))
	for id, b := range r.bills {
		bills[id] = copyBilling(b)
	}
	payments := make(map[uuid.UUID][]*Payment, len(r.payments))
	for id, ps := range r.payments {
		cps := make([]*Payment, len(ps))
		for i, p := range ps {
			cp := *p
			cps[i] = &cp
		}
		payments[id] = cps
	}
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.bills = bills
		r.payments = payments
		r.mu.Unlock()
		return err
	}
	return nil
}
