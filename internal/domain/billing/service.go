package billing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Issue creates a billing. The total is computed from the items and the
// status derived server side; amounts sent by the client are ignored.
func (s *Service) Issue(ctx context.Context, b *Billing) error {
	if b.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if len(b.Items) == 0 {
		return fmt.Errorf("a billing needs at least one item")
	}

	var total float64
	for i := range b.Items {
		it := &b.Items[i]
		if it.Description == "" {
			return fmt.Errorf("every item needs a description")
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive on every item")
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("unitPrice must not be negative")
		}
		it.Amount = float64(it.Quantity) * it.UnitPrice
		total += it.Amount
	}
	// A zero total would classify as pending forever: payments must be
	// positive, so such a bill could never reach paid.
	if total <= 0 {
		return fmt.Errorf("total amount must be positive")
	}

	if b.BillDate == "" {
		b.BillDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", b.BillDate); err != nil {
		return fmt.Errorf("billDate must be YYYY-MM-DD")
	}
	if b.InvoiceNo == "" {
		b.InvoiceNo = generateInvoiceNo(time.Now())
	}
	b.TotalAmount = total
	b.PaidAmount = 0
	b.Status = Classify(b.TotalAmount, b.PaidAmount)
	return s.repo.Create(ctx, b)
}

// generateInvoiceNo builds an invoice number of the form INV-YYYYMM-XXXXXX.
func generateInvoiceNo(now time.Time) string {
	var buf [3]byte
	_, _ = rand.Read(buf[:])
	return fmt.Sprintf("INV-%s-%s", now.Format("200601"), strings.ToUpper(hex.EncodeToString(buf[:])))
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Billing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Billing, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// UpdateItems replaces the billing's items and recomputes total and status.
// The paid amount is untouched; a bill whose total drops below what was
// already paid becomes paid.
func (s *Service) UpdateItems(ctx context.Context, id uuid.UUID, items []BillingItem) (*Billing, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a billing needs at least one item")
	}
	var b *Billing
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		var total float64
		for i := range items {
			it := &items[i]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be positive on every item")
			}
			if it.UnitPrice < 0 {
				return fmt.Errorf("unitPrice must not be negative")
			}
			it.Amount = float64(it.Quantity) * it.UnitPrice
			total += it.Amount
		}
		if total <= 0 {
			return fmt.Errorf("total amount must be positive")
		}

		b.Items = items
		b.TotalAmount = total
		b.Status = Classify(b.TotalAmount, b.PaidAmount)
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

var validMethods = map[string]bool{"cash": true, "card": true, "transfer": true, "insurance": true}

// RecordPayment adds an instalment. A payment that would exceed the
// outstanding amount is rejected whole with ErrOverpayment; the cashier
// corrects the amount and retries.
func (s *Service) RecordPayment(ctx context.Context, billingID uuid.UUID, amount float64, method string) (*Billing, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !validMethods[method] {
		return nil, fmt.Errorf("method must be cash, card, transfer or insurance")
	}

	var b *Billing
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByID(ctx, billingID)
		if err != nil {
			return err
		}
		if b.PaidAmount+amount > b.TotalAmount {
			return ErrOverpayment
		}
		if err := s.repo.AddPayment(ctx, &Payment{
			BillingID: billingID,
			Amount:    amount,
			Method:    method,
		}); err != nil {
			return err
		}
		b.PaidAmount += amount
		b.Status = Classify(b.TotalAmount, b.PaidAmount)
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Payments(ctx context.Context, billingID uuid.UUID) ([]*Payment, error) {
	if _, err := s.repo.GetByID(ctx, billingID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, billingID)
}

// MonthlyRevenue sums payments received in the calendar month containing t.
func (s *Service) MonthlyRevenue(ctx context.Context, t time.Time) (float64, error) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return s.repo.RevenueBetween(ctx, from, from.AddDate(0, 1, 0))
}
