package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func issueBilling(t *testing.T, svc *Service) *Billing {
	t.Helper()
	b := &Billing{
		PatientID: uuid.New(),
		Items: []BillingItem{
			{Description: "konsultasi dokter", Quantity: 1, UnitPrice: 150000},
			{Description: "paracetamol 500mg", Quantity: 10, UnitPrice: 500},
		},
	}
	if err := svc.Issue(context.Background(), b); err != nil {
		t.Fatalf("issue: %v", err)
	}
	return b
}

func TestClassify(t *testing.T) {
	cases := []struct {
		total, paid float64
		want        string
	}{
		{100, 0, StatusPending},
		{100, 50, StatusPartial},
		{100, 100, StatusPaid},
		{100, 120, StatusPaid},
		{0, 0, StatusPending},
	}
	for _, c := range cases {
		if got := Classify(c.total, c.paid); got != c.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", c.total, c.paid, got, c.want)
		}
	}
}

func TestIssue_ComputesTotalAndStatus(t *testing.T) {
	svc := NewService(NewMemRepo())
	b := issueBilling(t, svc)

	if b.TotalAmount != 155000 {
		t.Errorf("expected total 155000, got %v", b.TotalAmount)
	}
	if b.Status != StatusPending {
		t.Errorf("expected pending, got %s", b.Status)
	}
	if !strings.HasPrefix(b.InvoiceNo, "INV-") {
		t.Errorf("expected generated invoice number, got %q", b.InvoiceNo)
	}
}

func TestIssue_IgnoresClientAmounts(t *testing.T) {
	svc := NewService(NewMemRepo())
	b := &Billing{
		PatientID:   uuid.New(),
		TotalAmount: 999999,
		PaidAmount:  999999,
		Status:      StatusPaid,
		Items:       []BillingItem{{Description: "konsultasi", Quantity: 1, UnitPrice: 100000}},
	}
	if err := svc.Issue(context.Background(), b); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if b.TotalAmount != 100000 || b.PaidAmount != 0 || b.Status != StatusPending {
		t.Errorf("client amounts must be ignored: %+v", b)
	}
}

func TestIssue_ZeroTotalRejected(t *testing.T) {
	svc := NewService(NewMemRepo())
	b := &Billing{
		PatientID: uuid.New(),
		Items:     []BillingItem{{Description: "konsultasi gratis", Quantity: 1, UnitPrice: 0}},
	}
	if err := svc.Issue(context.Background(), b); err == nil {
		t.Error("a bill with a zero total can never be settled and must be rejected")
	}
}

func TestUpdateItems_ZeroTotalRejected(t *testing.T) {
	svc := NewService(NewMemRepo())
	b := issueBilling(t, svc)
	_, err := svc.UpdateItems(context.Background(), b.ID, []BillingItem{
		{Description: "konsultasi gratis", Quantity: 1, UnitPrice: 0},
	})
	if err == nil {
		t.Error("expected zero-total update to be rejected")
	}
}

func TestRecordPayment_Lifecycle(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	b := issueBilling(t, svc)

	got, err := svc.RecordPayment(ctx, b.ID, 55000, "cash")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got.Status != StatusPartial || got.PaidAmount != 55000 {
		t.Errorf("after first payment: status=%s paid=%v", got.Status, got.PaidAmount)
	}

	got, err = svc.RecordPayment(ctx, b.ID, 100000, "transfer")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got.Status != StatusPaid || got.PaidAmount != 155000 {
		t.Errorf("after final payment: status=%s paid=%v", got.Status, got.PaidAmount)
	}
}

func TestRecordPayment_OverpaymentRejected(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	b := issueBilling(t, svc)

	if _, err := svc.RecordPayment(ctx, b.ID, 155001, "cash"); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("expected ErrOverpayment, got %v", err)
	}

	// nothing recorded
	got, _ := svc.Get(ctx, b.ID)
	if got.PaidAmount != 0 || got.Status != StatusPending {
		t.Errorf("rejected payment must not change the bill: %+v", got)
	}
	ps, _ := svc.Payments(ctx, b.ID)
	if len(ps) != 0 {
		t.Errorf("expected no payment rows, got %d", len(ps))
	}
}

func TestRecordPayment_ExactOutstandingAllowed(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	b := issueBilling(t, svc)

	if _, err := svc.RecordPayment(ctx, b.ID, 155000, "insurance"); err != nil {
		t.Fatalf("exact payment must succeed: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, b.ID, 1, "cash"); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("expected ErrOverpayment on settled bill, got %v", err)
	}
}

func TestRecordPayment_InvalidMethod(t *testing.T) {
	svc := NewService(NewMemRepo())
	b := issueBilling(t, svc)
	if _, err := svc.RecordPayment(context.Background(), b.ID, 1000, "bitcoin"); err == nil {
		t.Error("expected error for invalid method")
	}
}

func TestUpdateItems_RecomputesStatus(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	b := issueBilling(t, svc)
	svc.RecordPayment(ctx, b.ID, 100000, "cash")

	// dropping the total below the paid amount settles the bill
	got, err := svc.UpdateItems(ctx, b.ID, []BillingItem{
		{Description: "konsultasi dokter", Quantity: 1, UnitPrice: 100000},
	})
	if err != nil {
		t.Fatalf("update items: %v", err)
	}
	if got.TotalAmount != 100000 || got.Status != StatusPaid {
		t.Errorf("expected settled bill, got total=%v status=%s", got.TotalAmount, got.Status)
	}
}

func TestMonthlyRevenue(t *testing.T) {
	svc := NewService(NewMemRepo())
	ctx := context.Background()
	b := issueBilling(t, svc)
	svc.RecordPayment(ctx, b.ID, 55000, "cash")
	svc.RecordPayment(ctx, b.ID, 100000, "card")

	sum, err := svc.MonthlyRevenue(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if sum != 155000 {
		t.Errorf("expected 155000, got %v", sum)
	}
}
