package model

// PaymentStatus represents the lifecycle state of a payment. The backing
// store owns the value set; only "pending" has filtering significance here.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment represents a scheduled payment record as stored in the backing
// store. Records are read-only to this service.
type Payment struct {
	ID            string        `json:"id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	ScheduledDate string        `json:"scheduled_date"`
	Recipient     string        `json:"recipient"`
	Status        PaymentStatus `json:"status"`
}

// IsPending reports whether the payment is still awaiting execution.
func (p Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
