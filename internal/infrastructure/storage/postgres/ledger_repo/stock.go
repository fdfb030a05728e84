// Package ledger_repo provides the PostgreSQL implementation of the
// stock ledger repository.
package ledger_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/infrastructure/storage/postgres"
)

const (
	stockItemsTable     = "stock_items"
	stockMovementsTable = "stock_movements"
)

var stockItemColumns = []string{
	"id", "product_id", "quantity_on_hand", "reorder_level", "location",
	"date_created", "last_updated",
}

// StockRepo implements inventory.Repository.
//
// quantity_on_hand is only ever changed by the two single-statement
// updates below; the CHECK (quantity_on_hand >= 0) constraint is the
// final guard against negative stock.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByProductID returns the stock item for a product.
func (r *StockRepo) GetByProductID(ctx context.Context, productID id.ID) (*inventory.StockItem, error) {
	q := r.builder.Select(stockItemColumns...).
		From(stockItemsTable).
		Where(squirrel.Eq{"product_id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.StockItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock item", productID)
		}
		return nil, apperror.NewStorage(fmt.Errorf("get stock item: %w", err))
	}

	return &item, nil
}

// CreateIfAbsent inserts the item unless a row for the product exists.
func (r *StockRepo) CreateIfAbsent(ctx context.Context, item *inventory.StockItem) (bool, error) {
	q := r.builder.Insert(stockItemsTable).
		Columns(stockItemColumns...).
		Values(item.ID, item.ProductID, item.QuantityOnHand, item.ReorderLevel, item.Location,
			item.DateCreated, item.LastUpdated).
		Suffix("ON CONFLICT (product_id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, apperror.NewStorage(fmt.Errorf("insert stock item: %w", err))
	}

	return tag.RowsAffected() > 0, nil
}

// AddQuantity atomically adds quantity to quantity_on_hand.
func (r *StockRepo) AddQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error {
	sql := `
		UPDATE stock_items
		SET quantity_on_hand = quantity_on_hand + $1, last_updated = now()
		WHERE product_id = $2
	`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, quantity, productID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("add quantity: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock item", productID)
	}

	return nil
}

// SubtractQuantity atomically subtracts quantity, guarded against going
// negative in the same statement. When the guarded update touches no
// row a follow-up read distinguishes a missing item from a shortage.
func (r *StockRepo) SubtractQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error {
	sql := `
		UPDATE stock_items
		SET quantity_on_hand = quantity_on_hand - $1, last_updated = now()
		WHERE product_id = $2
		  AND quantity_on_hand >= $1
	`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, quantity, productID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("subtract quantity: %w", err))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	item, err := r.GetByProductID(ctx, productID)
	if err != nil {
		return err
	}
	return apperror.NewInsufficientStock(
		productID.String(), item.QuantityOnHand.String(), quantity.String())
}

// UpdatePolicy updates reorder level and location only.
func (r *StockRepo) UpdatePolicy(ctx context.Context, productID id.ID, reorderLevel types.Quantity, location string) error {
	q := r.builder.Update(stockItemsTable).
		Set("reorder_level", reorderLevel).
		Set("location", location).
		Set("last_updated", squirrel.Expr("now()")).
		Where(squirrel.Eq{"product_id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("update policy: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock item", productID)
	}

	return nil
}

// CreateMovement appends one movement record.
func (r *StockRepo) CreateMovement(ctx context.Context, m *inventory.StockMovement) error {
	q := r.builder.Insert(stockMovementsTable).
		Columns("id", "product_id", "type", "quantity", "note", "date_created").
		Values(m.ID, m.ProductID, m.Type, m.Quantity, m.Note, m.DateCreated)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStorage(fmt.Errorf("insert movement: %w", err))
	}

	return nil
}

// ListStock returns stock rows with product identity.
func (r *StockRepo) ListStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[inventory.StockRow], error) {
	result := domain.ListResult[inventory.StockRow]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().
		From(stockItemsTable + " si").
		Join("products p ON p.id = si.product_id")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.barcode": pattern},
		})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewStorage(fmt.Errorf("count stock: %w", err))
	}

	q := base.Columns(
		"si.id", "si.product_id", "si.quantity_on_hand", "si.reorder_level", "si.location",
		"si.date_created", "si.last_updated",
		"p.name AS product_name", "p.barcode", "p.unit",
	).OrderBy(stockOrderBy(filter.OrderBy))
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &result.Items, sql, args...); err != nil {
		return result, apperror.NewStorage(fmt.Errorf("select stock: %w", err))
	}

	return result, nil
}

// ListMovements returns movement history, newest first.
func (r *StockRepo) ListMovements(ctx context.Context, filter inventory.MovementFilter) (domain.ListResult[inventory.MovementRow], error) {
	result := domain.ListResult[inventory.MovementRow]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().
		From(stockMovementsTable + " sm").
		Join("products p ON p.id = sm.product_id")
	if filter.ProductID != nil {
		base = base.Where(squirrel.Eq{"sm.product_id": *filter.ProductID})
	}
	if filter.Type != nil {
		base = base.Where(squirrel.Eq{"sm.type": *filter.Type})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.barcode": pattern},
		})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewStorage(fmt.Errorf("count movements: %w", err))
	}

	q := base.Columns(
		"sm.id", "sm.product_id", "sm.type", "sm.quantity", "sm.note", "sm.date_created",
		"p.name AS product_name", "p.barcode",
	).OrderBy("sm.date_created DESC", "sm.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &result.Items, sql, args...); err != nil {
		return result, apperror.NewStorage(fmt.Errorf("select movements: %w", err))
	}

	return result, nil
}

// LowStock returns products at or below their reorder level.
func (r *StockRepo) LowStock(ctx context.Context, limit int) ([]inventory.LowStockRow, error) {
	sql := `
		SELECT si.product_id,
		       p.name AS product_name,
		       si.quantity_on_hand AS on_hand,
		       si.reorder_level AS min_required,
		       si.reorder_level - si.quantity_on_hand AS missing
		FROM stock_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.quantity_on_hand <= si.reorder_level
		ORDER BY missing DESC, p.name
		LIMIT $1
	`

	var rows []inventory.LowStockRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, limit); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("select low stock: %w", err))
	}

	return rows, nil
}

// CountLowStock returns how many products are at or below reorder level.
func (r *StockRepo) CountLowStock(ctx context.Context) (int64, error) {
	sql := `SELECT COUNT(*) FROM stock_items WHERE quantity_on_hand <= reorder_level`

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, apperror.NewStorage(fmt.Errorf("count low stock: %w", err))
	}

	return count, nil
}

// stockOrderBy maps an order key to a safe ORDER BY clause.
func stockOrderBy(key string) string {
	desc := strings.HasPrefix(key, "-")
	column := strings.TrimPrefix(key, "-")
	switch column {
	case "quantity_on_hand", "reorder_level":
		column = "si." + column
	case "name":
		column = "p.name"
	default:
		column, desc = "p.name", false
	}
	if desc {
		return column + " DESC"
	}
	return column
}

// Ensure interface compliance.
var _ inventory.Repository = (*StockRepo)(nil)
