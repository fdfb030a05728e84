package inventory

import (
	"context"

	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
)

// Repository defines storage operations for the stock ledger.
//
// AddQuantity and SubtractQuantity are the only writers of
// quantity_on_hand; both are single atomic statements so two concurrent
// calls against the same product are linearized by the store.
type Repository interface {
	// GetByProductID returns the stock item for a product.
	// Fails with NotFound if none exists.
	GetByProductID(ctx context.Context, productID id.ID) (*StockItem, error)

	// CreateIfAbsent inserts the item unless a row for the product
	// already exists (ON CONFLICT DO NOTHING). Returns true when the
	// insert won.
	CreateIfAbsent(ctx context.Context, item *StockItem) (bool, error)

	// AddQuantity atomically adds quantity (> 0) to quantity_on_hand.
	// Fails with NotFound if no stock item exists.
	AddQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error

	// SubtractQuantity atomically subtracts quantity (> 0) from
	// quantity_on_hand, guarded by quantity_on_hand >= quantity in the
	// same statement. Fails with NotFound or InsufficientStock; on
	// failure the row is untouched.
	SubtractQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error

	// UpdatePolicy updates reorder level and location only.
	// Fails with NotFound if no stock item exists.
	UpdatePolicy(ctx context.Context, productID id.ID, reorderLevel types.Quantity, location string) error

	// CreateMovement appends one immutable movement record.
	CreateMovement(ctx context.Context, m *StockMovement) error

	// ListStock returns stock rows with product identity, searchable by
	// product name or barcode.
	ListStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[StockRow], error)

	// ListMovements returns movement history, newest first.
	ListMovements(ctx context.Context, filter MovementFilter) (domain.ListResult[MovementRow], error)

	// LowStock returns rows with quantity_on_hand <= reorder_level,
	// ordered by missing quantity descending.
	LowStock(ctx context.Context, limit int) ([]LowStockRow, error)

	// CountLowStock returns how many products are at or below their
	// reorder level.
	CountLowStock(ctx context.Context) (int64, error)
}
