package laboratory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a lab order does not exist.
	ErrNotFound = errors.New("laboratory: order not found")
	// ErrClosed is returned when results are entered on a completed order.
	ErrClosed = errors.New("laboratory: order already completed")
)

// Filter narrows order listings.
type Filter struct {
	PatientID *uuid.UUID
	Status    string
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// Update persists the order header and its test rows.
	Update(ctx context.Context, o *Order) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Order, int, error)
}
