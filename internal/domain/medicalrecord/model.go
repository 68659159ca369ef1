package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

// Vitals holds the nursing measurements taken at the start of an encounter.
type Vitals struct {
	Systolic    int     `db:"systolic" json:"systolic"`
	Diastolic   int     `db:"diastolic" json:"diastolic"`
	Temperature float64 `db:"temperature" json:"temperature"` // celsius
	Pulse       int     `db:"pulse" json:"pulse"`
	Respiration int     `db:"respiration" json:"respiration"`
	WeightKg    float64 `db:"weight_kg" json:"weightKg"`
	HeightCm    float64 `db:"height_cm" json:"heightCm"`
}

// Record maps to the medical_record table, one row per encounter. The
// clinical note follows the SOAP structure; the diagnosis carries its ICD-10
// code.
type Record struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctorId"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointmentId"`
	Date          string     `db:"date" json:"date"` // YYYY-MM-DD
	Subjective    string     `db:"subjective" json:"subjective"`
	Objective     string     `db:"objective" json:"objective"`
	Assessment    string     `db:"assessment" json:"assessment"`
	Plan          string     `db:"plan" json:"plan"`
	DiagnosisCode string     `db:"diagnosis_code" json:"diagnosisCode"`
	DiagnosisName string     `db:"diagnosis_name" json:"diagnosisName"`
	Vitals        Vitals     `json:"vitals"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}
