package pharmacy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func seedMedication(t *testing.T, svc *Service, code string, stock, minStock int) *Medication {
	t.Helper()
	m := &Medication{
		Code: code, Name: "Paracetamol 500mg " + code, Category: "analgesik",
		Unit: "tablet", Stock: stock, MinStock: minStock, Price: 500,
	}
	if err := svc.CreateMedication(context.Background(), m); err != nil {
		t.Fatalf("create medication: %v", err)
	}
	return m
}

func TestCreateMedication_DuplicateCode(t *testing.T) {
	svc := NewService(NewMemRepo())
	seedMedication(t, svc, "MED-001", 100, 10)
	m := &Medication{Code: "MED-001", Name: "Other", Unit: "tablet"}
	if err := svc.CreateMedication(context.Background(), m); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestPrescribe_DecrementsStock(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	m := seedMedication(t, svc, "MED-001", 100, 10)

	p := &Prescription{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Items: []PrescriptionItem{
			{MedicationID: m.ID, Quantity: 15, Dosage: "3x1", Instructions: "sesudah makan"},
		},
	}
	if err := svc.Prescribe(ctx, p); err != nil {
		t.Fatalf("prescribe: %v", err)
	}

	got, _ := svc.GetMedication(ctx, m.ID)
	if got.Stock != 85 {
		t.Errorf("expected stock 85, got %d", got.Stock)
	}
}

func TestPrescribe_InsufficientStockRollsBack(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	m1 := seedMedication(t, svc, "MED-001", 100, 10)
	m2 := seedMedication(t, svc, "MED-002", 5, 10)

	p := &Prescription{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Items: []PrescriptionItem{
			{MedicationID: m1.ID, Quantity: 10, Dosage: "3x1"},
			{MedicationID: m2.ID, Quantity: 6, Dosage: "2x1"},
		},
	}
	if err := svc.Prescribe(ctx, p); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// first item's decrement must be rolled back
	got, _ := svc.GetMedication(ctx, m1.ID)
	if got.Stock != 100 {
		t.Errorf("expected stock 100 after rollback, got %d", got.Stock)
	}
	if _, total, _ := svc.ListPrescriptions(ctx, nil, 10, 0); total != 0 {
		t.Errorf("expected no prescriptions, got %d", total)
	}
}

func TestPrescribe_ExactStockAllowed(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	m := seedMedication(t, svc, "MED-001", 10, 2)

	p := &Prescription{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Items:     []PrescriptionItem{{MedicationID: m.ID, Quantity: 10, Dosage: "1x1"}},
	}
	if err := svc.Prescribe(ctx, p); err != nil {
		t.Fatalf("dispensing exact stock must succeed: %v", err)
	}
	got, _ := svc.GetMedication(ctx, m.ID)
	if got.Stock != 0 {
		t.Errorf("expected stock 0, got %d", got.Stock)
	}
}

func TestPrescribe_DuplicateItemRejected(t *testing.T) {
	svc := NewService(NewMemRepo())
	m := seedMedication(t, svc, "MED-001", 100, 10)

	p := &Prescription{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Items: []PrescriptionItem{
			{MedicationID: m.ID, Quantity: 5, Dosage: "3x1"},
			{MedicationID: m.ID, Quantity: 5, Dosage: "3x1"},
		},
	}
	if err := svc.Prescribe(context.Background(), p); err == nil {
		t.Error("expected error for duplicate medication on prescription")
	}
}

func TestListMedications_LowStock(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	seedMedication(t, svc, "MED-001", 100, 10)
	low := seedMedication(t, svc, "MED-002", 10, 10)
	seedMedication(t, svc, "MED-003", 3, 5)

	items, total, err := svc.ListMedications(ctx, MedicationFilter{LowStock: true}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 low-stock medications, got %d", total)
	}
	found := false
	for _, m := range items {
		if m.ID == low.ID {
			found = true
		}
	}
	if !found {
		t.Error("stock == min_stock must count as low")
	}
}

func TestRestock(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	m := seedMedication(t, svc, "MED-001", 3, 5)

	got, err := svc.Restock(ctx, m.ID, 50)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if got.Stock != 53 {
		t.Errorf("expected stock 53, got %d", got.Stock)
	}
	if _, err := svc.Restock(ctx, m.ID, 0); err == nil {
		t.Error("expected error for non-positive quantity")
	}
}
