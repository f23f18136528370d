package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paylist/payments-api/internal/metrics"
	"github.com/paylist/payments-api/internal/model"
	"github.com/paylist/payments-api/internal/repository"
	"go.uber.org/zap"
)

// DefaultCurrency is reported for an empty result set, where no record can
// contribute its own currency.
const DefaultCurrency = "USD"

// PaymentService implements the payment query pipeline over a
// PaymentRepository. It is read-only and backend-agnostic.
type PaymentService struct {
	repo    repository.PaymentRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPaymentService creates a new PaymentService with dependency injection
func NewPaymentService(repo repository.PaymentRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithMetrics attaches store-read instrumentation.
func (s *PaymentService) WithMetrics(m *metrics.Metrics) *PaymentService {
	s.metrics = m
	return s
}

// WithClock replaces the wall-clock source. Tests use it to pin "now".
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

func (s *PaymentService) recordStoreRequest(operation string, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordStoreRequest(operation, status, time.Since(start).Seconds())
}

// ListPayments returns every pending payment that survives the given
// filters, in store order. Filters must have passed ValidateFilters; an
// unparseable after/before value degrades to a no-op stage rather than
// an error.
func (s *PaymentService) ListPayments(ctx context.Context, filters Filters) ([]model.Payment, error) {
	start := time.Now()
	all, err := s.repo.ScanAll(ctx)
	s.recordStoreRequest("scan", err, start)
	if err != nil {
		return nil, fmt.Errorf("scan payments: %w", err)
	}

	payments := make([]model.Payment, 0, len(all))
	for _, p := range all {
		if p.IsPending() {
			payments = append(payments, p)
		}
	}

	if filters.Recipient != "" {
		recipient := strings.ToLower(filters.Recipient)
		payments = retain(payments, func(p model.Payment) bool {
			return strings.Contains(strings.ToLower(p.Recipient), recipient)
		})
	}

	if filters.After != "" {
		if after, err := time.Parse(DateLayout, filters.After); err == nil {
			payments = retain(payments, func(p model.Payment) bool {
				d, err := time.Parse(DateLayout, p.ScheduledDate)
				return err == nil && d.After(after)
			})
		} else {
			s.logger.Debug("Ignoring unparseable after filter", zap.String("after", filters.After))
		}
	} else if filters.Before != "" {
		if before, err := time.Parse(DateLayout, filters.Before); err == nil {
			payments = retain(payments, func(p model.Payment) bool {
				d, err := time.Parse(DateLayout, p.ScheduledDate)
				return err == nil && d.Before(before)
			})
		} else {
			s.logger.Debug("Ignoring unparseable before filter", zap.String("before", filters.Before))
		}
	}

	if filters.Date != "" {
		payments = retain(payments, func(p model.Payment) bool {
			return p.ScheduledDate == filters.Date
		})
	}

	return payments, nil
}

// GetPayment retrieves a single payment by id, bypassing all filters.
// Returns nil, nil when no such payment exists.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	start := time.Now()
	payment, err := s.repo.GetByID(ctx, id)
	s.recordStoreRequest("get", err, start)
	if err != nil {
		return nil, fmt.Errorf("get payment %s: %w", id, err)
	}
	return payment, nil
}

// IsWithin24Hours reports whether the scheduled date falls within the next
// 24 hours of the service clock, evaluated fresh on each call.
func (s *PaymentService) IsWithin24Hours(scheduledDate string) bool {
	return Within24Hours(s.now(), scheduledDate)
}

// Within24Hours reports whether scheduledDate is strictly in the future and
// at most 24 hours away from now. Past dates, far dates and unparseable
// dates are all false.
func Within24Hours(now time.Time, scheduledDate string) bool {
	d, err := time.Parse(DateLayout, scheduledDate)
	if err != nil {
		return false
	}

	diff := d.Sub(now).Hours()
	return diff > 0 && diff <= 24
}

// Summary holds the aggregate computed over a final filtered sequence.
type Summary struct {
	Count       int
	TotalAmount float64
	Currency    string
}

// Summarize computes count, amount total and reported currency for the exact
// sequence a listing returns.
func Summarize(payments []model.Payment) Summary {
	summary := Summary{
		Count:    len(payments),
		Currency: DefaultCurrency,
	}

	for _, p := range payments {
		summary.TotalAmount += p.Amount
	}
	if len(payments) > 0 {
		summary.Currency = payments[0].Currency
	}

	return summary
}

// retain filters in place, preserving order.
func retain(payments []model.Payment, keep func(model.Payment) bool) []model.Payment {
	out := payments[:0]
	for _, p := range payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
