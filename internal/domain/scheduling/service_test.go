package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newAppointment(doctorID uuid.UUID, date, tm string) *Appointment {
	return &Appointment{
		PatientID:  uuid.New(),
		DoctorID:   doctorID,
		Date:       date,
		Time:       tm,
		Polyclinic: "Poli Umum",
		Complaint:  "demam 3 hari",
	}
}

func TestBook_AssignsQueueNumber(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	doc := uuid.New()

	a1 := newAppointment(doc, "2026-09-01", "08:00")
	a2 := newAppointment(doc, "2026-09-01", "08:30")
	if err := svc.Book(ctx, a1); err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := svc.Book(ctx, a2); err != nil {
		t.Fatalf("book: %v", err)
	}
	if a1.QueueNumber != 1 || a2.QueueNumber != 2 {
		t.Errorf("queue numbers: %d, %d", a1.QueueNumber, a2.QueueNumber)
	}
	if a1.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", a1.Status)
	}
}

func TestBook_DoubleBookingRejected(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	doc := uuid.New()

	if err := svc.Book(ctx, newAppointment(doc, "2026-09-01", "08:00")); err != nil {
		t.Fatalf("book: %v", err)
	}
	err := svc.Book(ctx, newAppointment(doc, "2026-09-01", "08:00"))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestBook_SameSlotDifferentDoctor(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()

	if err := svc.Book(ctx, newAppointment(uuid.New(), "2026-09-01", "08:00")); err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := svc.Book(ctx, newAppointment(uuid.New(), "2026-09-01", "08:00")); err != nil {
		t.Fatalf("other doctor same slot must be allowed: %v", err)
	}
}

func TestBook_InvalidDate(t *testing.T) {
	svc := NewService(NewMemRepo())
	if err := svc.Book(context.Background(), newAppointment(uuid.New(), "01-09-2026", "08:00")); err == nil {
		t.Error("expected error for bad date format")
	}
}

func TestSetStatus_CompletedIsFinal(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	a := newAppointment(uuid.New(), "2026-09-01", "08:00")
	svc.Book(ctx, a)

	if _, err := svc.SetStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.SetStatus(ctx, a.ID, StatusCancelled); err == nil {
		t.Error("expected error cancelling a completed appointment")
	}
}

func TestCancelFreesSlot(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	doc := uuid.New()
	a := newAppointment(doc, "2026-09-01", "08:00")
	svc.Book(ctx, a)

	if _, err := svc.SetStatus(ctx, a.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Book(ctx, newAppointment(doc, "2026-09-01", "08:00")); err != nil {
		t.Errorf("cancelled slot must be bookable again: %v", err)
	}
}

func TestList_ByDateAndDoctor(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	doc := uuid.New()
	svc.Book(ctx, newAppointment(doc, "2026-09-01", "08:00"))
	svc.Book(ctx, newAppointment(doc, "2026-09-02", "08:00"))
	svc.Book(ctx, newAppointment(uuid.New(), "2026-09-01", "09:00"))

	items, err := svc.List(ctx, Filter{Date: "2026-09-01", DoctorID: &doc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(items))
	}
}

func TestCountByDate_SkipsCancelled(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	a := newAppointment(uuid.New(), "2026-09-01", "08:00")
	svc.Book(ctx, a)
	svc.Book(ctx, newAppointment(uuid.New(), "2026-09-01", "09:00"))
	svc.SetStatus(ctx, a.ID, StatusCancelled)

	day, _ := time.Parse("2006-01-02", "2026-09-01")
	n, err := svc.CountByDate(ctx, day)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1, got %d", n)
	}
}
