package billing

import (
	"time"

	"github.com/google/uuid"
)

// Billing maps to the billing table. Status is derived from the amounts by
// Classify and never taken from a client.
type Billing struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	InvoiceNo   string        `db:"invoice_no" json:"invoiceNo"`
	PatientID   uuid.UUID     `db:"patient_id" json:"patientId"`
	AdmissionID *uuid.UUID    `db:"admission_id" json:"admissionId"`
	BillDate    string        `db:"bill_date" json:"billDate"` // YYYY-MM-DD
	Items       []BillingItem `json:"items"`
	TotalAmount float64       `db:"total_amount" json:"totalAmount"`
	PaidAmount  float64       `db:"paid_amount" json:"paidAmount"`
	Status      string        `db:"status" json:"status"` // pending|partial|paid
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// BillingItem maps to the billing_item table.
type BillingItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BillingID   uuid.UUID `db:"billing_id" json:"billingId"`
	Description string    `db:"description" json:"description"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unitPrice"`
	Amount      float64   `db:"amount" json:"amount"`
}

// Payment maps to the payment table, one row per instalment.
type Payment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BillingID uuid.UUID `db:"billing_id" json:"billingId"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"` // cash|card|transfer|insurance
	PaidAt    time.Time `db:"paid_at" json:"paidAt"`
}

// Billing status values.
const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// Classify derives the billing status from its amounts.
func Classify(total, paid float64) string {
	switch {
	case paid <= 0:
		return StatusPending
	case paid < total:
		return StatusPartial
	default:
		return StatusPaid
	}
}
