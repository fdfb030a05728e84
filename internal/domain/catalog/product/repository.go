package product

import (
	"context"

	"ventapos/internal/core/id"
	"ventapos/internal/domain"
)

// Repository defines storage operations for products.
type Repository interface {
	// Create inserts a new product (fails with Duplicate on barcode reuse)
	Create(ctx context.Context, p *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetByBarcode retrieves a product by exact barcode (POS scan path)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)

	// List retrieves products with name/barcode search and pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
