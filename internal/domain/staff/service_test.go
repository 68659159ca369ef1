package staff

import (
	"context"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemRepo())
}

func TestCreate(t *testing.T) {
	svc := newTestService()
	d := &Doctor{Name: "dr. Andi Wijaya", SIP: "SIP-001/2024", Specialty: "Internal Medicine", Polyclinic: "internal"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Active {
		t.Error("expected new doctor to be active")
	}
}

func TestCreate_SIPRequired(t *testing.T) {
	svc := newTestService()
	d := &Doctor{Name: "dr. Andi", Specialty: "Pediatrics"}
	if err := svc.Create(context.Background(), d); err == nil {
		t.Error("expected error for missing sip")
	}
}

func TestSearch_BySpecialty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.Create(ctx, &Doctor{Name: "dr. Andi", SIP: "SIP-1", Specialty: "Pediatrics", Polyclinic: "children"})
	svc.Create(ctx, &Doctor{Name: "dr. Budi", SIP: "SIP-2", Specialty: "Cardiology", Polyclinic: "heart"})

	items, total, err := svc.Search(ctx, map[string]string{"specialty": "cardiology"}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].Name != "dr. Budi" {
		t.Errorf("unexpected result: total=%d", total)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService()
	d := &Doctor{Name: "dr. Ghost"}
	if err := svc.Update(context.Background(), d); err == nil {
		t.Error("expected error updating unknown doctor")
	}
}
