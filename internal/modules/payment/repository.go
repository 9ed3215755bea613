package payment

import "context"

// Repository defines data access for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByProviderRef(ctx context.Context, provider, ref string) (*Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)

	// UpdateStatus sets the lifecycle status and the captured flag.
	UpdateStatus(ctx context.Context, id string, status TxStatus, captured bool) error
}
