package pricing

import (
	"context"

	"ventapos/internal/core/id"
	"ventapos/internal/domain"
)

// Repository defines storage operations for prices.
type Repository interface {
	// Create inserts a new price row.
	Create(ctx context.Context, p *Price) error

	// GetByID retrieves a price by ID. Fails with NotFound.
	GetByID(ctx context.Context, priceID id.ID) (*Price, error)

	// GetActiveByProduct returns the single active price for a product.
	// Fails with NoActivePrice when none is active.
	GetActiveByProduct(ctx context.Context, productID id.ID) (*Price, error)

	// Activate marks the given price active and deactivates every other
	// price of the same product in one atomic statement, so the
	// at-most-one-active rule holds at every observable instant.
	// Returns the number of rows touched; zero means the price does not
	// exist.
	Activate(ctx context.Context, productID, priceID id.ID) (int64, error)

	// ListByProduct returns all price rows for a product, active first,
	// then newest first.
	ListByProduct(ctx context.Context, productID id.ID, filter domain.ListFilter) (domain.ListResult[*Price], error)

	// Delete removes an inactive price row. Fails with NotFound when the
	// row does not exist and with Conflict when it is active.
	Delete(ctx context.Context, priceID id.ID) error
}
