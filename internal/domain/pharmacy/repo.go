package pharmacy

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a medication or prescription does not
	// exist.
	ErrNotFound = errors.New("pharmacy: not found")
	// ErrInsufficientStock is returned when dispensing would take a
	// medication's stock below zero.
	ErrInsufficientStock = errors.New("pharmacy: insufficient stock")
	// ErrDuplicateCode is returned when a medication code is already in use.
	ErrDuplicateCode = errors.New("pharmacy: medication code already exists")
)

// MedicationFilter narrows medication listings.
type MedicationFilter struct {
	Name     string
	Category string
	LowStock bool
}

type Repository interface {
	CreateMedication(ctx context.Context, m *Medication) error
	GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error)
	UpdateMedication(ctx context.Context, m *Medication) error
	ListMedications(ctx context.Context, f MedicationFilter, limit, offset int) ([]*Medication, int, error)
	// AdjustStock adds delta to a medication's stock. A negative delta that
	// would take stock below zero fails with ErrInsufficientStock and
	// leaves the row untouched.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	CreatePrescription(ctx context.Context, p *Prescription) error
	GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error)
	ListPrescriptions(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*Prescription, int, error)

	// Atomic executes fn with all stock and prescription writes applied or
	// none.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}
