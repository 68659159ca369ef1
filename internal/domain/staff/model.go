package staff

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table. SIP is the practice license number.
type Doctor struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SIP        string    `db:"sip" json:"sip"`
	NIK        *string   `db:"nik" json:"nik,omitempty"`
	Name       string    `db:"name" json:"name"`
	Specialty  string    `db:"specialty" json:"specialty"`
	Polyclinic string    `db:"polyclinic" json:"polyclinic"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
