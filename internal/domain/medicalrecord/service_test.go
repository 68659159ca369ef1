package medicalrecord

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func validRecord(patientID uuid.UUID) *Record {
	return &Record{
		PatientID:     patientID,
		DoctorID:      uuid.New(),
		Subjective:    "demam 3 hari, mual",
		Objective:     "suhu 38.5, faring hiperemis",
		Assessment:    "faringitis akut",
		Plan:          "paracetamol 3x500mg, kontrol 3 hari",
		DiagnosisCode: "J02.9",
		DiagnosisName: "Acute pharyngitis, unspecified",
		Vitals:        Vitals{Systolic: 120, Diastolic: 80, Temperature: 38.5, Pulse: 92, Respiration: 20, WeightKg: 65, HeightCm: 170},
	}
}

func TestCreate_SetsDateWhenEmpty(t *testing.T) {
	svc := NewService(NewMemRepo())
	rec := validRecord(uuid.New())
	if err := svc.Create(context.Background(), rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Date == "" {
		t.Error("expected date to default to today")
	}
}

func TestCreate_InvalidICD10(t *testing.T) {
	svc := NewService(NewMemRepo())
	rec := validRecord(uuid.New())
	rec.DiagnosisCode = "invalid"
	if err := svc.Create(context.Background(), rec); err == nil {
		t.Error("expected error for bad ICD-10 code")
	}
}

func TestCreate_ValidICD10Variants(t *testing.T) {
	svc := NewService(NewMemRepo())
	for _, code := range []string{"A09", "J06.9", "S72.01"} {
		rec := validRecord(uuid.New())
		rec.DiagnosisCode = code
		if err := svc.Create(context.Background(), rec); err != nil {
			t.Errorf("code %s rejected: %v", code, err)
		}
	}
}

func TestCreate_EmptyNoteRejected(t *testing.T) {
	svc := NewService(NewMemRepo())
	rec := validRecord(uuid.New())
	rec.Subjective = ""
	rec.Assessment = ""
	if err := svc.Create(context.Background(), rec); err == nil {
		t.Error("expected error for encounter without note")
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	pid := uuid.New()

	first := validRecord(pid)
	second := validRecord(pid)
	second.Assessment = "kontrol, perbaikan"
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc.Create(ctx, validRecord(uuid.New())) // other patient

	items, total, err := svc.History(ctx, pid, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 records, got total=%d len=%d", total, len(items))
	}
}

func TestHistory_Pagination(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	pid := uuid.New()
	for i := 0; i < 5; i++ {
		svc.Create(ctx, validRecord(pid))
	}

	items, total, err := svc.History(ctx, pid, 2, 4)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 5 || len(items) != 1 {
		t.Errorf("expected total=5 len=1, got total=%d len=%d", total, len(items))
	}
}
