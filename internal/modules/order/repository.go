package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ProductInfo is the slice of a product the order flow needs.
type ProductInfo struct {
	ID    uuid.UUID
	Name  string
	Price float64
	Stock int
}

// StockConflictError is returned by CreateOrder when the conditional stock
// decrement for a product matches no row, i.e. a concurrent order consumed
// the remaining stock after the pre-check.
type StockConflictError struct {
	ProductID uuid.UUID
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// Repository defines data access for orders.
type Repository interface {
	// GetProducts batch-fetches the referenced products in one lookup.
	GetProducts(ctx context.Context, ids []string) ([]*ProductInfo, error)

	// CreateOrder persists the order header, every line item, and the
	// per-line conditional stock decrement in a single transaction. Any
	// failure, including a stock race, rolls back the whole operation and
	// surfaces a *StockConflictError when stock was the cause.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items and payment.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// ListOrdersByCustomer returns a customer's orders with items and payment.
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}
