package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paylist/payments-api/internal/model"
	"go.uber.org/zap"
)

// MockRepository is a simple in-memory repository for testing
type MockRepository struct {
	payments []model.Payment
	scanErr  error
	getErr   error
}

func (r *MockRepository) ScanAll(ctx context.Context) ([]model.Payment, error) {
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	return r.payments, nil
}

func (r *MockRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for i := range r.payments {
		if r.payments[i].ID == id {
			return &r.payments[i], nil
		}
	}
	return nil, nil
}

func testPayments() []model.Payment {
	return []model.Payment{
		{ID: "txn_001", Amount: 5000, Currency: "USD", ScheduledDate: "2025-07-26", Recipient: "John Doe", Status: model.PaymentStatusPending},
		{ID: "txn_002", Amount: 2500, Currency: "USD", ScheduledDate: "2025-10-01", Recipient: "Jane Smith", Status: model.PaymentStatusPending},
		{ID: "txn_003", Amount: 1000, Currency: "USD", ScheduledDate: "2025-09-30", Recipient: "Bob Johnson", Status: model.PaymentStatusCompleted},
	}
}

func newTestService(payments []model.Payment) *PaymentService {
	logger, _ := zap.NewDevelopment()
	return NewPaymentService(&MockRepository{payments: payments}, logger)
}

func ids(payments []model.Payment) []string {
	out := make([]string, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.ID)
	}
	return out
}

func TestListPayments_NoFilters_PendingOnly(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(payments) != 2 {
		t.Fatalf("expected 2 pending payments, got: %v", ids(payments))
	}
	for _, p := range payments {
		if p.Status != model.PaymentStatusPending {
			t.Errorf("non-pending payment %s leaked through", p.ID)
		}
	}

	// Same snapshot, same result
	again, err := svc.ListPayments(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(again) != len(payments) {
		t.Errorf("expected idempotent listing, got %d then %d", len(payments), len(again))
	}
}

func TestListPayments_RecipientSubstringCaseInsensitive(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{Recipient: "John"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != "txn_001" {
		t.Fatalf("expected exactly [txn_001], got: %v", ids(payments))
	}

	upper, _ := svc.ListPayments(context.Background(), Filters{Recipient: "JOHN"})
	lower, _ := svc.ListPayments(context.Background(), Filters{Recipient: "john"})
	if len(upper) != 1 || len(lower) != 1 || upper[0].ID != lower[0].ID {
		t.Errorf("expected case-insensitive match, got %v and %v", ids(upper), ids(lower))
	}

	// Substring, not prefix: "jo" matches "John Doe" and "Bob Johnson", but
	// Bob is completed
	sub, _ := svc.ListPayments(context.Background(), Filters{Recipient: "jo"})
	if len(sub) != 1 || sub[0].ID != "txn_001" {
		t.Errorf("expected substring match on pending records only, got: %v", ids(sub))
	}
}

func TestListPayments_RecipientCompletedExcluded(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{Recipient: "Bob"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("expected no results for completed recipient, got: %v", ids(payments))
	}
}

func TestListPayments_AfterStrict(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{After: "2025-09-29"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// txn_003 has a qualifying date but is completed
	if len(payments) != 1 || payments[0].ID != "txn_002" {
		t.Fatalf("expected exactly [txn_002], got: %v", ids(payments))
	}

	// Boundary is exclusive
	boundary, _ := svc.ListPayments(context.Background(), Filters{After: "2025-10-01"})
	if len(boundary) != 0 {
		t.Errorf("expected record equal to after bound to be excluded, got: %v", ids(boundary))
	}
}

func TestListPayments_BeforeStrict(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{Before: "2025-10-01"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != "txn_001" {
		t.Fatalf("expected exactly [txn_001], got: %v", ids(payments))
	}
}

func TestListPayments_ExactDateStringEquality(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{Date: "2025-10-01"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != "txn_002" {
		t.Fatalf("expected exactly [txn_002], got: %v", ids(payments))
	}
}

func TestListPayments_UnparseableRangeBoundIsNoOp(t *testing.T) {
	svc := newTestService(testPayments())

	payments, err := svc.ListPayments(context.Background(), Filters{After: "not-a-date"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("expected all pending payments to pass through, got: %v", ids(payments))
	}

	payments, err = svc.ListPayments(context.Background(), Filters{Before: "not-a-date"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("expected all pending payments to pass through, got: %v", ids(payments))
	}
}

func TestListPayments_UnparseableScheduledDateExcludedFromRange(t *testing.T) {
	payments := append(testPayments(), model.Payment{
		ID: "txn_bad", Amount: 10, Currency: "USD", ScheduledDate: "someday",
		Recipient: "Jane Smith", Status: model.PaymentStatusPending,
	})
	svc := newTestService(payments)

	// Range filters can't compare an unparseable date
	got, err := svc.ListPayments(context.Background(), Filters{After: "2025-01-01"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, p := range got {
		if p.ID == "txn_bad" {
			t.Error("expected record with unparseable scheduled_date to be excluded from range filter")
		}
	}

	// But it still shows up unfiltered
	all, _ := svc.ListPayments(context.Background(), Filters{})
	if len(all) != 3 {
		t.Errorf("expected 3 pending records without filters, got: %v", ids(all))
	}
}

func TestListPayments_ScanError(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	svc := NewPaymentService(&MockRepository{scanErr: errors.New("table unavailable")}, logger)

	if _, err := svc.ListPayments(context.Background(), Filters{}); err == nil {
		t.Fatal("expected backend failure to propagate")
	}
}

func TestGetPayment_Absent(t *testing.T) {
	svc := newTestService(testPayments())

	payment, err := svc.GetPayment(context.Background(), "txn_999")
	if err != nil {
		t.Fatalf("expected absent lookup not to error, got: %v", err)
	}
	if payment != nil {
		t.Errorf("expected nil for absent id, got: %+v", payment)
	}
}

func TestGetPayment_BypassesFilters(t *testing.T) {
	svc := newTestService(testPayments())

	// Completed records are reachable by id even though listings hide them
	payment, err := svc.GetPayment(context.Background(), "txn_003")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if payment == nil || payment.ID != "txn_003" {
		t.Fatalf("expected txn_003, got: %+v", payment)
	}
}

func TestSummarize(t *testing.T) {
	svc := newTestService(testPayments())

	payments, _ := svc.ListPayments(context.Background(), Filters{Recipient: "John"})
	summary := Summarize(payments)
	if summary.Count != 1 {
		t.Errorf("expected count 1, got: %d", summary.Count)
	}
	if summary.TotalAmount != 5000 {
		t.Errorf("expected totalAmount 5000, got: %v", summary.TotalAmount)
	}
	if summary.Currency != "USD" {
		t.Errorf("expected currency USD, got: %s", summary.Currency)
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	if summary.Count != 0 {
		t.Errorf("expected count 0, got: %d", summary.Count)
	}
	if summary.TotalAmount != 0 {
		t.Errorf("expected totalAmount 0, got: %v", summary.TotalAmount)
	}
	if summary.Currency != DefaultCurrency {
		t.Errorf("expected default currency, got: %s", summary.Currency)
	}
}

func TestSummarize_FirstSurvivorCurrency(t *testing.T) {
	payments := []model.Payment{
		{ID: "a", Amount: 1.5, Currency: "EUR", Status: model.PaymentStatusPending},
		{ID: "b", Amount: 2.5, Currency: "USD", Status: model.PaymentStatusPending},
	}

	summary := Summarize(payments)
	if summary.Currency != "EUR" {
		t.Errorf("expected first entry's currency, got: %s", summary.Currency)
	}
	if summary.TotalAmount != 4 {
		t.Errorf("expected totalAmount 4, got: %v", summary.TotalAmount)
	}
}

func TestWithin24Hours(t *testing.T) {
	now := time.Date(2025, 7, 25, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		date string
		want bool
	}{
		{"2025-07-26", true},   // 12 hours ahead
		{"2025-07-25", false},  // midnight today is in the past
		{"2025-07-24", false},  // yesterday
		{"2025-07-27", false},  // 36 hours ahead
		{"not-a-date", false},  // unparseable
	}

	for _, tc := range cases {
		if got := Within24Hours(now, tc.date); got != tc.want {
			t.Errorf("Within24Hours(%s, %s) = %v, want %v", now, tc.date, got, tc.want)
		}
	}
}

func TestWithin24Hours_ExactBoundary(t *testing.T) {
	// Exactly 24 hours ahead is included, anything past it is not
	boundary := time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC)
	if !Within24Hours(boundary, "2025-07-26") {
		t.Error("expected a date exactly 24 hours ahead to classify true")
	}
	justOver := boundary.Add(-time.Second)
	if Within24Hours(justOver, "2025-07-26") {
		t.Error("expected a date just over 24 hours ahead to classify false")
	}
}

func TestIsWithin24Hours_InjectedClock(t *testing.T) {
	svc := newTestService(testPayments()).WithClock(func() time.Time {
		return time.Date(2025, 7, 25, 18, 0, 0, 0, time.UTC)
	})

	if !svc.IsWithin24Hours("2025-07-26") {
		t.Error("expected txn due in 6 hours to classify true")
	}
	if svc.IsWithin24Hours("2025-10-01") {
		t.Error("expected txn months away to classify false")
	}
}
