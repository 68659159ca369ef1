package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. MRN is the hospital-wide medical record
// number; NIK is the national identity number used for Satu Sehat lookups.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	MRN          string     `db:"mrn" json:"mrn"`
	NIK          *string    `db:"nik" json:"nik,omitempty"`
	Name         string     `db:"name" json:"name"`
	Gender       string     `db:"gender" json:"gender"`
	BirthDate    time.Time  `db:"birth_date" json:"birthDate"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	BloodType    *string    `db:"blood_type" json:"bloodType"`
	Insurance    *string    `db:"insurance" json:"insurance,omitempty"`
	InsuranceNo  *string    `db:"insurance_no" json:"insuranceNo"`
	EmergencyTel *string    `db:"emergency_tel" json:"emergencyTel"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
