package inpatient

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, uuid.UUID, uuid.UUID) {
	t.Helper()
	svc := NewService(NewMemRepo(), nil)
	ctx := context.Background()

	room := &Room{Number: "201", Ward: "Melati", Type: "regular", BedCount: 2, CostPerDay: 350000}
	if err := svc.CreateRoom(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}
	bed1 := &Bed{RoomID: room.ID, Number: "201-A"}
	bed2 := &Bed{RoomID: room.ID, Number: "201-B"}
	if err := svc.CreateBed(ctx, bed1); err != nil {
		t.Fatalf("create bed: %v", err)
	}
	if err := svc.CreateBed(ctx, bed2); err != nil {
		t.Fatalf("create bed: %v", err)
	}
	return svc, bed1.ID, bed2.ID
}

func newAdmission(bedID uuid.UUID) *Admission {
	return &Admission{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		BedID:     bedID,
		Diagnosis: "DHF grade I",
	}
}

func TestAdmit_OccupiesBed(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	a := newAdmission(bed1)
	if err := svc.Admit(ctx, a); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if a.Status != AdmissionActive {
		t.Errorf("expected active admission, got %s", a.Status)
	}

	b, err := svc.repo.GetBed(ctx, bed1)
	if err != nil {
		t.Fatalf("get bed: %v", err)
	}
	if b.Status != BedOccupied {
		t.Errorf("expected occupied bed, got %s", b.Status)
	}
}

func TestAdmit_OccupiedBedRejected(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Admit(ctx, newAdmission(bed1)); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	err := svc.Admit(ctx, newAdmission(bed1))
	if !errors.Is(err, ErrBedUnavailable) {
		t.Fatalf("expected ErrBedUnavailable, got %v", err)
	}

	// the rejected admit must leave no admission behind
	items, _ := svc.ListAdmissions(ctx, AdmissionFilter{Status: AdmissionActive})
	if len(items) != 1 {
		t.Errorf("expected 1 active admission, got %d", len(items))
	}
}

func TestAdmit_MaintenanceBedRejected(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetBedMaintenance(ctx, bed1, BedMaintenance); err != nil {
		t.Fatalf("set maintenance: %v", err)
	}
	if err := svc.Admit(ctx, newAdmission(bed1)); !errors.Is(err, ErrBedUnavailable) {
		t.Fatalf("expected ErrBedUnavailable, got %v", err)
	}
}

func TestDischarge_FreesBed(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	a := newAdmission(bed1)
	if err := svc.Admit(ctx, a); err != nil {
		t.Fatalf("admit: %v", err)
	}

	out, err := svc.Discharge(ctx, a.ID, "2026-08-28", "14:30")
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if out.Status != AdmissionDischarged {
		t.Errorf("expected discharged, got %s", out.Status)
	}
	if out.DischargeDate == nil || *out.DischargeDate != "2026-08-28" {
		t.Errorf("discharge date not recorded: %v", out.DischargeDate)
	}

	b, _ := svc.repo.GetBed(ctx, bed1)
	if b.Status != BedAvailable {
		t.Errorf("expected available bed after discharge, got %s", b.Status)
	}
}

func TestDischarge_TwiceRejected(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	a := newAdmission(bed1)
	svc.Admit(ctx, a)
	if _, err := svc.Discharge(ctx, a.ID, "", ""); err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if _, err := svc.Discharge(ctx, a.ID, "", ""); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
}

func TestTransfer_MovesPatient(t *testing.T) {
	svc, bed1, bed2 := newTestService(t)
	ctx := context.Background()

	a := newAdmission(bed1)
	if err := svc.Admit(ctx, a); err != nil {
		t.Fatalf("admit: %v", err)
	}

	next, err := svc.Transfer(ctx, a.ID, bed2)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if next.BedID != bed2 || next.Status != AdmissionActive {
		t.Errorf("unexpected new admission: bed=%s status=%s", next.BedID, next.Status)
	}

	old, _ := svc.GetAdmission(ctx, a.ID)
	if old.Status != AdmissionTransferred {
		t.Errorf("expected transferred, got %s", old.Status)
	}
	b1, _ := svc.repo.GetBed(ctx, bed1)
	b2, _ := svc.repo.GetBed(ctx, bed2)
	if b1.Status != BedAvailable || b2.Status != BedOccupied {
		t.Errorf("bed states after transfer: %s / %s", b1.Status, b2.Status)
	}
}

func TestTransfer_TargetOccupiedRejected(t *testing.T) {
	svc, bed1, bed2 := newTestService(t)
	ctx := context.Background()

	a := newAdmission(bed1)
	svc.Admit(ctx, a)
	svc.Admit(ctx, newAdmission(bed2))

	if _, err := svc.Transfer(ctx, a.ID, bed2); !errors.Is(err, ErrBedUnavailable) {
		t.Fatalf("expected ErrBedUnavailable, got %v", err)
	}

	// nothing moved
	b1, _ := svc.repo.GetBed(ctx, bed1)
	if b1.Status != BedOccupied {
		t.Errorf("source bed must stay occupied, got %s", b1.Status)
	}
	old, _ := svc.GetAdmission(ctx, a.ID)
	if old.Status != AdmissionActive {
		t.Errorf("admission must stay active, got %s", old.Status)
	}
}

func TestSetBedMaintenance_OccupiedRejected(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	svc.Admit(ctx, newAdmission(bed1))
	if err := svc.SetBedMaintenance(ctx, bed1, BedMaintenance); !errors.Is(err, ErrBedUnavailable) {
		t.Fatalf("expected ErrBedUnavailable, got %v", err)
	}
}

func TestOccupancy_CountsPerRoomType(t *testing.T) {
	svc, bed1, _ := newTestService(t)
	ctx := context.Background()

	vip := &Room{Number: "301", Ward: "Anggrek", Type: "vip", BedCount: 1, CostPerDay: 900000}
	if err := svc.CreateRoom(ctx, vip); err != nil {
		t.Fatalf("create room: %v", err)
	}
	vipBed := &Bed{RoomID: vip.ID, Number: "301-A"}
	if err := svc.CreateBed(ctx, vipBed); err != nil {
		t.Fatalf("create bed: %v", err)
	}
	svc.Admit(ctx, newAdmission(bed1))

	occ, err := svc.Occupancy(ctx)
	if err != nil {
		t.Fatalf("occupancy: %v", err)
	}
	got := map[string]TypeOccupancy{}
	for _, o := range occ {
		got[o.RoomType] = o
	}
	if got["regular"].Total != 2 || got["regular"].Occupied != 1 {
		t.Errorf("regular occupancy: %+v", got["regular"])
	}
	if got["vip"].Total != 1 || got["vip"].Occupied != 0 {
		t.Errorf("vip occupancy: %+v", got["vip"])
	}
}

func TestCreateRoom_InvalidType(t *testing.T) {
	svc := NewService(NewMemRepo(), nil)
	err := svc.CreateRoom(context.Background(), &Room{Number: "101", Type: "suite"})
	if err == nil {
		t.Error("expected error for invalid room type")
	}
}
