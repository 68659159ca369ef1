package pharmacy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	if m.Code == "" {
		return fmt.Errorf("code is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Stock < 0 || m.MinStock < 0 {
		return fmt.Errorf("stock and min_stock must not be negative")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.repo.CreateMedication(ctx, m)
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.repo.GetMedication(ctx, id)
}

// UpdateMedication edits the catalog fields. Stock changes go through
// Restock and Prescribe only.
func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if m.Code == "" || m.Name == "" {
		return fmt.Errorf("code and name are required")
	}
	if m.MinStock < 0 || m.Price < 0 {
		return fmt.Errorf("minStock and price must not be negative")
	}
	return s.repo.UpdateMedication(ctx, m)
}

func (s *Service) ListMedications(ctx context.Context, f MedicationFilter, limit, offset int) ([]*Medication, int, error) {
	return s.repo.ListMedications(ctx, f, limit, offset)
}

func (s *Service) Restock(ctx context.Context, id uuid.UUID, quantity int) (*Medication, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if err := s.repo.AdjustStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetMedication(ctx, id)
}

// Prescribe dispenses every item and records the prescription as one unit.
// If any medication is short, nothing is dispensed.
func (s *Service) Prescribe(ctx context.Context, p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if p.DoctorID == uuid.Nil {
		return fmt.Errorf("doctorId is required")
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("a prescription needs at least one item")
	}
	seen := make(map[uuid.UUID]bool, len(p.Items))
	for _, it := range p.Items {
		if it.MedicationID == uuid.Nil {
			return fmt.Errorf("medicationId is required on every item")
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive on every item")
		}
		if seen[it.MedicationID] {
			return fmt.Errorf("duplicate medication on prescription")
		}
		seen[it.MedicationID] = true
	}

	return s.repo.Atomic(ctx, func(ctx context.Context) error {
		for _, it := range p.Items {
			if err := s.repo.AdjustStock(ctx, it.MedicationID, -it.Quantity); err != nil {
				return err
			}
		}
		return s.repo.CreatePrescription(ctx, p)
	})
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetPrescription(ctx, id)
}

func (s *Service) ListPrescriptions(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListPrescriptions(ctx, patientID, limit, offset)
}
