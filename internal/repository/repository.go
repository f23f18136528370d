package repository

import (
	"context"

	"github.com/paylist/payments-api/internal/model"
)

// PaymentRepository defines the read contract shared by every payment store.
// Both implementations are interchangeable; selection happens once at
// composition time.
type PaymentRepository interface {
	// ScanAll retrieves every payment record in the store
	ScanAll(ctx context.Context) ([]model.Payment, error)

	// GetByID retrieves a single payment by its id.
	// Returns nil, nil when no such record exists.
	GetByID(ctx context.Context, id string) (*model.Payment, error)
}
