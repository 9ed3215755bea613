package order

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is the header record for a purchase. Total is a snapshot taken at
// creation time and never recomputed.
type Order struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Total      float64        `json:"total"`
	Status     OrderStatus    `json:"status"`
	Items      []*OrderItem   `json:"items,omitempty"`
	Payment    *PaymentRecord `json:"payment,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// OrderItem is a single line item. Price is the unit price captured at
// purchase time, decoupled from later product price changes.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// PaymentRecord is the payment view joined onto an order listing.
type PaymentRecord struct {
	ID          uuid.UUID `json:"id"`
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"provider_ref"`
	Amount      float64   `json:"amount"`
	Captured    bool      `json:"captured"`
	Status      string    `json:"status"`
}

// CartItem describes one requested line during checkout.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	Items []CartItem `json:"items"`
}
