package inpatient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simrs/simrs/internal/platform/redislock"
)

var validRoomTypes = map[string]bool{"regular": true, "vip": true, "icu": true}

// Service implements bed and admission workflows. Multi-entity transitions
// (admit, discharge, transfer) run inside repo.Atomic so a bed is never left
// in a state that disagrees with its admissions. An optional Locker adds a
// Redis lock per bed for multi-process deployments.
type Service struct {
	repo   Repository
	locker redislock.Locker
}

func NewService(repo Repository, locker redislock.Locker) *Service {
	return &Service{repo: repo, locker: locker}
}

func (s *Service) CreateRoom(ctx context.Context, r *Room) error {
	if r.Number == "" {
		return fmt.Errorf("number is required")
	}
	if !validRoomTypes[r.Type] {
		return fmt.Errorf("type must be regular, vip or icu")
	}
	if r.CostPerDay < 0 {
		return fmt.Errorf("costPerDay must not be negative")
	}
	return s.repo.CreateRoom(ctx, r)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *Service) ListRooms(ctx context.Context) ([]*Room, error) {
	return s.repo.ListRooms(ctx)
}

func (s *Service) CreateBed(ctx context.Context, b *Bed) error {
	if b.Number == "" {
		return fmt.Errorf("number is required")
	}
	if _, err := s.repo.GetRoom(ctx, b.RoomID); err != nil {
		return err
	}
	b.Status = BedAvailable
	return s.repo.CreateBed(ctx, b)
}

func (s *Service) ListRoomBeds(ctx context.Context, roomID uuid.UUID) ([]*Bed, error) {
	return s.repo.ListRoomBeds(ctx, roomID)
}

func (s *Service) ListAvailableBeds(ctx context.Context) ([]*Bed, error) {
	return s.repo.ListAvailableBeds(ctx)
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.repo.GetBed(ctx, id)
}

// SetBedMaintenance flips a bed between available and maintenance. Occupied
// beds are refused; discharge the patient first.
func (s *Service) SetBedMaintenance(ctx context.Context, id uuid.UUID, status string) error {
	if status != BedAvailable && status != BedMaintenance {
		return fmt.Errorf("status must be available or maintenance")
	}
	return s.repo.SetBedStatus(ctx, id, status)
}

func (s *Service) Occupancy(ctx context.Context) ([]TypeOccupancy, error) {
	return s.repo.Occupancy(ctx)
}

// Admit claims the bed and creates the active admission as one unit. A bed
// that is occupied or under maintenance makes the whole operation fail with
// ErrBedUnavailable and nothing is written.
func (s *Service) Admit(ctx context.Context, a *Admission) error {
	if err := validateAdmission(a); err != nil {
		return err
	}
	a.Status = AdmissionActive

	admit := func(ctx context.Context) error {
		return s.repo.Atomic(ctx, func(ctx context.Context) error {
			if err := s.repo.ClaimBed(ctx, a.BedID); err != nil {
				return err
			}
			return s.repo.CreateAdmission(ctx, a)
		})
	}

	if s.locker == nil {
		return admit(ctx)
	}
	err := s.locker.WithLock(ctx, "bed", a.BedID, admit)
	if errors.Is(err, redislock.ErrNotAcquired) {
		return ErrBedUnavailable
	}
	return err
}

func validateAdmission(a *Admission) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctorId is required")
	}
	if a.BedID == uuid.Nil {
		return fmt.Errorf("bedId is required")
	}
	if a.AdmissionDate == "" {
		a.AdmissionDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", a.AdmissionDate); err != nil {
		return fmt.Errorf("admissionDate must be YYYY-MM-DD")
	}
	if a.AdmissionTime == "" {
		a.AdmissionTime = time.Now().Format("15:04")
	} else if _, err := time.Parse("15:04", a.AdmissionTime); err != nil {
		return fmt.Errorf("admissionTime must be HH:MM")
	}
	return nil
}

// Discharge closes an active admission and frees its bed. Only active
// admissions can be discharged.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID, date, tm string) (*Admission, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("dischargeDate must be YYYY-MM-DD")
	}
	if tm == "" {
		tm = time.Now().Format("15:04")
	} else if _, err := time.Parse("15:04", tm); err != nil {
		return nil, fmt.Errorf("dischargeTime must be HH:MM")
	}

	var out *Admission
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAdmission(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != AdmissionActive {
			return ErrNotActive
		}
		a.Status = AdmissionDischarged
		a.DischargeDate = &date
		a.DischargeTime = &tm
		if err := s.repo.UpdateAdmission(ctx, a); err != nil {
			return err
		}
		if err := s.repo.ReleaseBed(ctx, a.BedID); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// Transfer moves a patient to a new bed: the old admission is closed as
// transferred, its bed freed, and a new active admission opened on the
// target bed. If the target bed cannot be claimed nothing changes.
func (s *Service) Transfer(ctx context.Context, id, newBedID uuid.UUID) (*Admission, error) {
	if newBedID == uuid.Nil {
		return nil, fmt.Errorf("bedId is required")
	}

	var next *Admission
	transfer := func(ctx context.Context) error {
		return s.repo.Atomic(ctx, func(ctx context.Context) error {
			a, err := s.repo.GetAdmission(ctx, id)
			if err != nil {
				return err
			}
			if a.Status != AdmissionActive {
				return ErrNotActive
			}
			if a.BedID == newBedID {
				return ErrBedUnavailable
			}
			if err := s.repo.ClaimBed(ctx, newBedID); err != nil {
				return err
			}
			if err := s.repo.ReleaseBed(ctx, a.BedID); err != nil {
				return err
			}
			a.Status = AdmissionTransferred
			if err := s.repo.UpdateAdmission(ctx, a); err != nil {
				return err
			}
			next = &Admission{
				PatientID:     a.PatientID,
				DoctorID:      a.DoctorID,
				BedID:         newBedID,
				AdmissionDate: time.Now().Format("2006-01-02"),
				AdmissionTime: time.Now().Format("15:04"),
				Status:        AdmissionActive,
				Diagnosis:     a.Diagnosis,
			}
			return s.repo.CreateAdmission(ctx, next)
		})
	}

	var err error
	if s.locker == nil {
		err = transfer(ctx)
	} else {
		err = s.locker.WithLock(ctx, "bed", newBedID, transfer)
		if errors.Is(err, redislock.ErrNotAcquired) {
			err = ErrBedUnavailable
		}
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.repo.GetAdmission(ctx, id)
}

// UpdateAdmission applies editable fields of an active admission. Status
// transitions go through Discharge and Transfer, never through here.
func (s *Service) UpdateAdmission(ctx context.Context, id uuid.UUID, doctorID *uuid.UUID, diagnosis *string) (*Admission, error) {
	a, err := s.repo.GetAdmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != AdmissionActive {
		return nil, ErrNotActive
	}
	if doctorID != nil {
		a.DoctorID = *doctorID
	}
	if diagnosis != nil {
		a.Diagnosis = *diagnosis
	}
	if err := s.repo.UpdateAdmission(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAdmissions(ctx context.Context, f AdmissionFilter) ([]*Admission, error) {
	return s.repo.ListAdmissions(ctx, f)
}

func (s *Service) CountActiveAdmissions(ctx context.Context) (int, error) {
	return s.repo.CountActiveAdmissions(ctx)
}
