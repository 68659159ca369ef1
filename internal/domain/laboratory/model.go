package laboratory

import (
	"time"

	"github.com/google/uuid"
)

// Order maps to the lab_order table. An order moves ordered -> in_progress
// -> completed; results are attached per test when the order completes.
type Order struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID    uuid.UUID  `db:"doctor_id" json:"doctorId"`
	RecordID    *uuid.UUID `db:"record_id" json:"recordId"`
	Status      string     `db:"status" json:"status"` // ordered|in_progress|completed
	Notes       string     `db:"notes" json:"notes"`
	Tests       []Test     `json:"tests"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Test maps to the lab_test table, one row per requested analyte.
type Test struct {
	ID       uuid.UUID `db:"id" json:"id"`
	OrderID  uuid.UUID `db:"order_id" json:"orderId"`
	Name     string    `db:"name" json:"name"` // e.g. hemoglobin, leukosit
	Result   string    `db:"result" json:"result"`
	Unit     string    `db:"unit" json:"unit"`
	RefRange string    `db:"ref_range" json:"refRange"`
	Flag     string    `db:"flag" json:"flag"` // normal|low|high
}

// Order status values.
const (
	StatusOrdered    = "ordered"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)
