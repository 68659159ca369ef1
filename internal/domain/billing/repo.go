package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a billing does not exist.
	ErrNotFound = errors.New("billing: not found")
	// ErrOverpayment is returned when a payment would push the paid amount
	// past the total.
	ErrOverpayment = errors.New("billing: payment exceeds outstanding amount")
)

// Filter narrows billing listings.
type Filter struct {
	PatientID *uuid.UUID
	Status    string
}

type Repository interface {
	Create(ctx context.Context, b *Billing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Billing, error)
	// Update persists the billing header and replaces its items.
	Update(ctx context.Context, b *Billing) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Billing, int, error)

	AddPayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, billingID uuid.UUID) ([]*Payment, error)
	// RevenueBetween sums payments received in [from, to).
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)

	// Atomic executes fn with all billing and payment writes applied or
	// none.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}
