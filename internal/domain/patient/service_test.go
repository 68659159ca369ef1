package patient

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestService() *Service {
	return NewService(NewMemRepo())
}

func strPtr(s string) *string { return &s }

func TestRegister_GeneratesMRN(t *testing.T) {
	svc := newTestService()
	p := &Patient{Name: "Budi Santoso", Gender: "male", BirthDate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p.MRN, "MRN-") {
		t.Errorf("expected generated MRN, got %q", p.MRN)
	}
}

func TestRegister_NameRequired(t *testing.T) {
	svc := newTestService()
	p := &Patient{Gender: "male", BirthDate: time.Now()}
	if err := svc.Register(context.Background(), p); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestRegister_InvalidGender(t *testing.T) {
	svc := newTestService()
	p := &Patient{Name: "Budi", Gender: "other", BirthDate: time.Now()}
	if err := svc.Register(context.Background(), p); err == nil {
		t.Error("expected error for invalid gender")
	}
}

func TestRegister_ShortNIK(t *testing.T) {
	svc := newTestService()
	p := &Patient{Name: "Budi", Gender: "male", BirthDate: time.Now(), NIK: strPtr("12345")}
	if err := svc.Register(context.Background(), p); err == nil {
		t.Error("expected error for short NIK")
	}
}

func TestGetByMRN(t *testing.T) {
	svc := newTestService()
	p := &Patient{Name: "Siti Aminah", Gender: "female", BirthDate: time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetched, err := svc.GetByMRN(context.Background(), p.MRN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.Name != "Siti Aminah" {
		t.Errorf("expected Siti Aminah, got %s", fetched.Name)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService()
	p := &Patient{Name: "Ghost", Gender: "male", BirthDate: time.Now()}
	err := svc.Update(context.Background(), p)
	if err == nil {
		t.Error("expected error updating unknown patient")
	}
}

func TestSearch_ByName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.Register(ctx, &Patient{Name: "Budi Santoso", Gender: "male", BirthDate: time.Now()})
	svc.Register(ctx, &Patient{Name: "Siti Aminah", Gender: "female", BirthDate: time.Now()})

	items, total, err := svc.Search(ctx, map[string]string{"name": "budi"}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", total)
	}
	if items[0].Name != "Budi Santoso" {
		t.Errorf("unexpected match: %s", items[0].Name)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := &Patient{Name: "Budi", Gender: "male", BirthDate: time.Now()}
	svc.Register(ctx, p)

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); err == nil {
		t.Error("expected error after deletion")
	}
}
