package payment

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// TxStatus represents the lifecycle of a payment.
type TxStatus string

const (
	TxPending   TxStatus = "PENDING"
	TxCompleted TxStatus = "COMPLETED"
	TxFailed    TxStatus = "FAILED"
)

// Payment records one charge attempt for an order.
type Payment struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"provider_ref"`
	Amount      float64   `json:"amount"`
	Captured    bool      `json:"captured"`
	Status      TxStatus  `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePaymentRequest is the payload to start a payment for an order.
type CreatePaymentRequest struct {
	OrderID string `json:"orderId"`
}

// CreatePaymentResponse carries the client continuation for a live payment.
// Mode is "mock" on the offline demo path so a fake capture is never
// mistaken for a real one.
type CreatePaymentResponse struct {
	ClientSecret     string   `json:"clientSecret,omitempty"`
	AuthorizationURL string   `json:"authorizationUrl,omitempty"`
	Mode             string   `json:"mode"`
	Payment          *Payment `json:"payment"`
}

// WebhookEvent is the inbound provider callback envelope.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData is the subset of the provider payload the bridge needs.
type WebhookData struct {
	Reference string `json:"reference"`
}

// MinorUnits converts a decimal amount to the provider's minor-unit integer
// representation, rounding half up.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
