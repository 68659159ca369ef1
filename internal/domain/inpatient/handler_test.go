package inpatient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo, uuid.UUID) {
	t.Helper()
	svc, bed1, _ := newTestService(t)
	return NewHandler(svc), echo.New(), bed1
}

func TestHandler_Admit_BindsDocumentedKeys(t *testing.T) {
	h, e, bed1 := newTestHandler(t)

	body := `{
		"patientId": "` + uuid.NewString() + `",
		"doctorId": "` + uuid.NewString() + `",
		"bedId": "` + bed1.String() + `",
		"admissionDate": "2026-08-28",
		"admissionTime": "09:30",
		"diagnosis": "DHF grade I",
		"status": "active"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/inpatient/admissions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Admit(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var a Admission
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.Status != AdmissionActive {
		t.Errorf("expected active admission, got %s", a.Status)
	}
	if a.AdmissionDate != "2026-08-28" || a.AdmissionTime != "09:30" {
		t.Errorf("admission date/time did not bind: %+v", a)
	}
}

func TestHandler_UpdateAdmission_DischargeKeys(t *testing.T) {
	h, e, bed1 := newTestHandler(t)
	ctx := context.Background()

	a := newAdmission(bed1)
	if err := h.svc.Admit(ctx, a); err != nil {
		t.Fatalf("admit: %v", err)
	}

	body := `{"status": "discharged", "dischargeDate": "2026-08-30", "dischargeTime": "11:00"}`
	req := httptest.NewRequest(http.MethodPut, "/api/inpatient/admissions/"+a.ID.String(), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.UpdateAdmission(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got Admission
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != AdmissionDischarged {
		t.Errorf("expected discharged, got %s", got.Status)
	}
	if got.DischargeDate == nil || *got.DischargeDate != "2026-08-30" {
		t.Errorf("discharge date did not bind: %+v", got)
	}

	b, err := h.svc.GetBed(ctx, bed1)
	if err != nil {
		t.Fatalf("get bed: %v", err)
	}
	if b.Status != BedAvailable {
		t.Errorf("expected available bed after discharge, got %s", b.Status)
	}
}

func TestHandler_Admit_MissingPatientRejected(t *testing.T) {
	h, e, bed1 := newTestHandler(t)

	body := `{"bedId": "` + bed1.String() + `", "doctorId": "` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/inpatient/admissions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Admit(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
