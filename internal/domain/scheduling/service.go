package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var statusTransitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctorId is required")
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", a.Time); err != nil {
		return fmt.Errorf("time must be HH:MM")
	}
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Appointment, error) {
	return s.repo.List(ctx, f)
}

// SetStatus moves a scheduled appointment to completed or cancelled. Closed
// appointments stay closed.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, next := range statusTransitions[a.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot move appointment from %s to %s", a.Status, status)
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves a scheduled appointment to a new slot.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date, tm string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, fmt.Errorf("only scheduled appointments can be rescheduled")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", tm); err != nil {
		return nil, fmt.Errorf("time must be HH:MM")
	}
	a.Date = date
	a.Time = tm
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) CountByDate(ctx context.Context, date time.Time) (int, error) {
	return s.repo.CountByDate(ctx, date)
}
