package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item owned by a vendor. Stock is only ever mutated by
// order creation.
type Product struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpsertProductRequest holds the data for creating or updating a product.
// Pointer fields distinguish an omitted field from a zero value: on update,
// nil leaves the stored value untouched.
type UpsertProductRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
}
