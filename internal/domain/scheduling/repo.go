package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("scheduling: appointment not found")
	// ErrSlotTaken is returned when the doctor already has a scheduled
	// appointment at the same date and time.
	ErrSlotTaken = errors.New("scheduling: slot already booked")
)

// Filter narrows appointment listings.
type Filter struct {
	Date      string
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    string
}

type Repository interface {
	// Create persists the appointment, assigning its queue number. It
	// returns ErrSlotTaken when the doctor already has a scheduled
	// appointment at the same date and time.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context, f Filter) ([]*Appointment, error)
	// CountByDate counts appointments on a calendar day, for the dashboard
	// visits figure.
	CountByDate(ctx context.Context, date time.Time) (int, error)
}
