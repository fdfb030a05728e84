package inventory

import (
	"context"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/tx"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/pkg/logger"
)

// Ledger is the only writer of stock state. Every mutation pairs a
// quantity change with a movement record inside one transaction.
type Ledger struct {
	repo      Repository
	txManager tx.Manager
}

// NewLedger creates the stock ledger service.
func NewLedger(repo Repository, txManager tx.Manager) *Ledger {
	return &Ledger{repo: repo, txManager: txManager}
}

// EnsureStockItem returns the stock item for a product, creating an
// empty one (quantity 0, default reorder level) if none exists yet.
// Safe under concurrent callers: the insert is conditional and the
// loser re-reads the winner's row.
func (l *Ledger) EnsureStockItem(ctx context.Context, productID id.ID) (*StockItem, error) {
	item, err := l.repo.GetByProductID(ctx, productID)
	if err == nil {
		return item, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	item = NewStockItem(productID)
	inserted, err := l.repo.CreateIfAbsent(ctx, item)
	if err != nil {
		return nil, err
	}
	if inserted {
		logger.Info(ctx, "stock item created", "product_id", productID)
		return item, nil
	}

	// Lost the race; another caller created the row first.
	return l.repo.GetByProductID(ctx, productID)
}

// Increase adds quantity to a product's stock and appends an IN
// movement. Fails with NotFound when no stock item exists; rows are
// created explicitly through EnsureStockItem, never as a side effect.
func (l *Ledger) Increase(ctx context.Context, productID id.ID, quantity types.Quantity, note string) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.repo.AddQuantity(ctx, productID, quantity); err != nil {
			return err
		}
		return l.repo.CreateMovement(ctx, NewStockMovement(productID, MovementIn, quantity, note))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock increased", "product_id", productID, "quantity", quantity)
	return nil
}

// Decrease subtracts quantity from a product's stock and appends an OUT
// movement. Fails with NotFound when no stock item exists and with
// InsufficientStock when on-hand quantity is short; on failure neither
// the quantity nor the movement history changes.
func (l *Ledger) Decrease(ctx context.Context, productID id.ID, quantity types.Quantity, note string) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.repo.SubtractQuantity(ctx, productID, quantity); err != nil {
			return err
		}
		return l.repo.CreateMovement(ctx, NewStockMovement(productID, MovementOut, quantity, note))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock decreased", "product_id", productID, "quantity", quantity)
	return nil
}

// UpdateReorderPolicy sets the reorder level and storage location
// without touching quantity or movement history. A nil reorder level is
// normalized to zero.
func (l *Ledger) UpdateReorderPolicy(ctx context.Context, productID id.ID, reorderLevel *types.Quantity, location string) error {
	level := types.Zero()
	if reorderLevel != nil {
		if reorderLevel.IsNegative() {
			return apperror.NewValidation("reorder level must not be negative").
				WithDetail("reorder_level", reorderLevel.String())
		}
		level = *reorderLevel
	}

	if err := l.repo.UpdatePolicy(ctx, productID, level, location); err != nil {
		return err
	}

	logger.Info(ctx, "reorder policy updated", "product_id", productID, "reorder_level", level)
	return nil
}

// GetByProduct returns the stock item for a product.
func (l *Ledger) GetByProduct(ctx context.Context, productID id.ID) (*StockItem, error) {
	return l.repo.GetByProductID(ctx, productID)
}

// ListStock returns the stock listing with product identity.
func (l *Ledger) ListStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[StockRow], error) {
	return l.repo.ListStock(ctx, filter)
}

// Movements returns movement history, newest first.
func (l *Ledger) Movements(ctx context.Context, filter MovementFilter) (domain.ListResult[MovementRow], error) {
	return l.repo.ListMovements(ctx, filter)
}

// LowStock returns products at or below their reorder level.
func (l *Ledger) LowStock(ctx context.Context, limit int) ([]LowStockRow, error) {
	if limit <= 0 {
		limit = 20
	}
	return l.repo.LowStock(ctx, limit)
}

// CountLowStock returns how many products are at or below their reorder
// level.
func (l *Ledger) CountLowStock(ctx context.Context) (int64, error) {
	return l.repo.CountLowStock(ctx)
}

func validateQuantity(quantity types.Quantity) error {
	if !quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity.String())
	}
	return nil
}
