package inpatient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a room, bed or admission does not exist.
	ErrNotFound = errors.New("inpatient: not found")
	// ErrBedUnavailable is returned when an admission or transfer targets a
	// bed that is not in the available state.
	ErrBedUnavailable = errors.New("inpatient: bed unavailable")
	// ErrNotActive is returned when discharge or transfer targets an
	// admission that is not active.
	ErrNotActive = errors.New("inpatient: admission not active")
)

// AdmissionFilter narrows admission listings.
type AdmissionFilter struct {
	PatientID *uuid.UUID
	Status    string
}

// Repository is the persistence contract for the inpatient domain. Rooms,
// beds and admissions live behind a single repository because admit,
// discharge and transfer mutate beds and admissions together; Atomic runs
// the given function with all of those mutations applied or none.
type Repository interface {
	CreateRoom(ctx context.Context, r *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	ListRooms(ctx context.Context) ([]*Room, error)

	CreateBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*Bed, error)
	ListRoomBeds(ctx context.Context, roomID uuid.UUID) ([]*Bed, error)
	ListAvailableBeds(ctx context.Context) ([]*Bed, error)
	// ClaimBed transitions a bed from available to occupied. It returns
	// ErrBedUnavailable when the bed exists but is not available, so two
	// concurrent admissions can never claim the same bed.
	ClaimBed(ctx context.Context, id uuid.UUID) error
	// ReleaseBed transitions a bed back to available.
	ReleaseBed(ctx context.Context, id uuid.UUID) error
	// SetBedStatus forces a bed status, used for maintenance flagging. It
	// refuses to touch an occupied bed.
	SetBedStatus(ctx context.Context, id uuid.UUID, status string) error
	// Occupancy reports total and occupied bed counts grouped by room type.
	Occupancy(ctx context.Context) ([]TypeOccupancy, error)

	CreateAdmission(ctx context.Context, a *Admission) error
	GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error)
	UpdateAdmission(ctx context.Context, a *Admission) error
	ListAdmissions(ctx context.Context, f AdmissionFilter) ([]*Admission, error)
	CountActiveAdmissions(ctx context.Context) (int, error)

	// Atomic executes fn so that every repository call made through the
	// fn's context either all commit or all roll back.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}
