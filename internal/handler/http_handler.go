package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paylist/payments-api/internal/metrics"
	"github.com/paylist/payments-api/internal/model"
	"github.com/paylist/payments-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTPHandler handles HTTP requests
type HTTPHandler struct {
	payments   *service.PaymentService
	logger     *zap.Logger
	metrics    *metrics.Metrics
	dataSource string
}

// NewHTTPHandler creates a new HTTPHandler. dataSource is the human label of
// the backend selected at startup ("Local JSON" or "DynamoDB").
func NewHTTPHandler(payments *service.PaymentService, logger *zap.Logger, m *metrics.Metrics, dataSource string) *HTTPHandler {
	return &HTTPHandler{
		payments:   payments,
		logger:     logger,
		metrics:    m,
		dataSource: dataSource,
	}
}

// SetupRoutes configures the HTTP routes
func (h *HTTPHandler) SetupRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/payments", h.ListPayments)
	r.GET("/payments/:id", h.GetPayment)
}

// paymentView is a payment as rendered in responses, carrying the due-soon
// flag evaluated at response-assembly time.
type paymentView struct {
	model.Payment
	IsWithin24Hours bool `json:"isWithin24Hours"`
}

// listResponse is the collection envelope the frontend table consumes.
type listResponse struct {
	Payments    []paymentView `json:"payments"`
	Count       int           `json:"count"`
	TotalAmount float64       `json:"totalAmount"`
	Currency    string        `json:"currency"`
	DataSource  string        `json:"dataSource"`
}

func (h *HTTPHandler) record(endpoint string, status int, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordRequest(endpoint, strconv.Itoa(status), time.Since(start).Seconds())
	}
}

// Health returns the health status
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "payments-api",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"dataSource": h.dataSource,
	})
}

// Ready returns the readiness status
func (h *HTTPHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "payments-api",
	})
}

// ListPayments serves the filtered pending-payments collection.
func (h *HTTPHandler) ListPayments(c *gin.Context) {
	start := time.Now()

	filters := service.Filters{
		Recipient: c.Query("recipient"),
		After:     c.Query("after"),
		Before:    c.Query("before"),
		Date:      c.Query("date"),
	}

	if verr := service.ValidateFilters(filters); verr != nil {
		if h.metrics != nil {
			h.metrics.RecordFilterRejection(verr.Message)
		}
		h.record("list", verr.Status, start)
		c.JSON(verr.Status, gin.H{
			"error":   "Invalid filters",
			"message": verr.Message,
		})
		return
	}

	payments, err := h.payments.ListPayments(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		h.record("list", http.StatusInternalServerError, start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, paymentView{
			Payment:         p,
			IsWithin24Hours: h.payments.IsWithin24Hours(p.ScheduledDate),
		})
	}

	summary := service.Summarize(payments)

	h.record("list", http.StatusOK, start)
	c.JSON(http.StatusOK, listResponse{
		Payments:    views,
		Count:       summary.Count,
		TotalAmount: summary.TotalAmount,
		Currency:    summary.Currency,
		DataSource:  h.dataSource,
	})
}

// GetPayment serves a single payment by id, unfiltered.
func (h *HTTPHandler) GetPayment(c *gin.Context) {
	start := time.Now()
	id := c.Param("id")

	payment, err := h.payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get payment", zap.String("id", id), zap.Error(err))
		h.record("get", http.StatusInternalServerError, start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if payment == nil {
		h.record("get", http.StatusNotFound, start)
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	h.record("get", http.StatusOK, start)
	c.JSON(http.StatusOK, gin.H{
		"id":              payment.ID,
		"amount":          payment.Amount,
		"currency":        payment.Currency,
		"scheduled_date":  payment.ScheduledDate,
		"recipient":       payment.Recipient,
		"status":          payment.Status,
		"isWithin24Hours": h.payments.IsWithin24Hours(payment.ScheduledDate),
		"dataSource":      h.dataSource,
	})
}
