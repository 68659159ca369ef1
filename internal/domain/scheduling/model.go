package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointment table. Date and time are stored as the
// registration desk enters them; QueueNumber is assigned per doctor per day.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctorId"`
	Date        string    `db:"date" json:"date"` // YYYY-MM-DD
	Time        string    `db:"time" json:"time"` // HH:MM
	Polyclinic  string    `db:"polyclinic" json:"polyclinic"`
	Complaint   string    `db:"complaint" json:"complaint"`
	Status      string    `db:"status" json:"status"` // scheduled|completed|cancelled
	QueueNumber int       `db:"queue_number" json:"queueNumber"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Appointment status values.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)
