package catalog

import "context"

// Repository defines data access for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, category string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error

	// VendorIDByOwner resolves the vendor profile owned by a user.
	VendorIDByOwner(ctx context.Context, ownerID string) (string, error)
}
