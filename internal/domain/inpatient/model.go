package inpatient

import (
	"time"

	"github.com/google/uuid"
)

// Room maps to the room table. Rooms are created at setup time and hold a
// fixed set of beds.
type Room struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Number     string    `db:"number" json:"number"`
	Ward       string    `db:"ward" json:"ward"`
	Type       string    `db:"type" json:"type"` // regular|vip|icu
	BedCount   int       `db:"bed_count" json:"bedCount"`
	CostPerDay float64   `db:"cost_per_day" json:"costPerDay"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Bed maps to the bed table. Status is mutated only by admission, discharge,
// transfer, and maintenance operations.
type Bed struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RoomID    uuid.UUID `db:"room_id" json:"roomId"`
	Number    string    `db:"number" json:"number"`
	Status    string    `db:"status" json:"status"` // available|occupied|maintenance
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Admission maps to the admission table. An admission is never deleted;
// discharge and transfer close it by flipping its status.
type Admission struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctorId"`
	BedID         uuid.UUID `db:"bed_id" json:"bedId"`
	AdmissionDate string    `db:"admission_date" json:"admissionDate"` // YYYY-MM-DD
	AdmissionTime string    `db:"admission_time" json:"admissionTime"` // HH:MM
	DischargeDate *string   `db:"discharge_date" json:"dischargeDate"`
	DischargeTime *string   `db:"discharge_time" json:"dischargeTime"`
	Status        string    `db:"status" json:"status"` // active|discharged|transferred
	Diagnosis     string    `db:"diagnosis" json:"diagnosis"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Bed status values.
const (
	BedAvailable   = "available"
	BedOccupied    = "occupied"
	BedMaintenance = "maintenance"
)

// Admission status values.
const (
	AdmissionActive      = "active"
	AdmissionDischarged  = "discharged"
	AdmissionTransferred = "transferred"
)

// TypeOccupancy reports bed usage for one room type, for capacity reporting.
type TypeOccupancy struct {
	RoomType string `json:"roomType"`
	Total    int    `json:"total"`
	Occupied int    `json:"occupied"`
}
