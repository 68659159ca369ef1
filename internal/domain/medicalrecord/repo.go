package medicalrecord

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a medical record does not exist.
var ErrNotFound = errors.New("medicalrecord: record not found")

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	// ListByPatient returns the patient's encounter history, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error)
}
