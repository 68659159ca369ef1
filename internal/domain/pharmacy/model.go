package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table. Stock only moves through
// dispensing and restocking; it can never go below zero.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Unit      string    `db:"unit" json:"unit"` // tablet, kapsul, botol, ampul
	Stock     int       `db:"stock" json:"stock"`
	MinStock  int       `db:"min_stock" json:"minStock"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// LowStock reports whether the medication has fallen to its reorder level.
func (m *Medication) LowStock() bool { return m.Stock <= m.MinStock }

// Prescription maps to the prescription table. Creating one dispenses every
// item immediately, decrementing medication stock in the same transaction.
type Prescription struct {
	ID        uuid.UUID          `db:"id" json:"id"`
	PatientID uuid.UUID          `db:"patient_id" json:"patientId"`
	DoctorID  uuid.UUID          `db:"doctor_id" json:"doctorId"`
	RecordID  *uuid.UUID         `db:"record_id" json:"recordId"`
	Notes     string             `db:"notes" json:"notes"`
	Items     []PrescriptionItem `json:"items"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
}

// PrescriptionItem maps to the prescription_item table.
type PrescriptionItem struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescriptionId"`
	MedicationID   uuid.UUID `db:"medication_id" json:"medicationId"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Dosage         string    `db:"dosage" json:"dosage"` // e.g. 3x1
	Instructions   string    `db:"instructions" json:"instructions"`
}
