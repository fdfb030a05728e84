package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/domain"
	"ventapos/internal/domain/pricing"
	"ventapos/internal/infrastructure/storage/postgres"
)

const pricesTable = "prices"

var priceColumns = []string{
	"id", "product_id", "amount", "currency", "active", "date_created", "last_updated",
}

// PriceRepo implements pricing.Repository.
//
// The at-most-one-active rule is double-guarded: Activate switches the
// rows of a product inside the caller's transaction, and the partial
// unique index prices_one_active_per_product backs it up against any
// out-of-band writer.
type PriceRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPriceRepo creates a new price repository.
func NewPriceRepo(txm *postgres.TxManager) *PriceRepo {
	return &PriceRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new price row.
func (r *PriceRepo) Create(ctx context.Context, p *pricing.Price) error {
	q := r.builder.Insert(pricesTable).
		Columns(priceColumns...).
		Values(p.ID, p.ProductID, p.Amount, p.Currency, p.Active, p.DateCreated, p.LastUpdated)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, "prices_one_active_per_product") {
			return apperror.NewConflict("product already has an active price")
		}
		return apperror.NewStorage(fmt.Errorf("insert price: %w", err))
	}

	return nil
}

// GetByID retrieves a price by ID.
func (r *PriceRepo) GetByID(ctx context.Context, priceID id.ID) (*pricing.Price, error) {
	q := r.builder.Select(priceColumns...).
		From(pricesTable).
		Where(squirrel.Eq{"id": priceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p pricing.Price
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("price", priceID)
		}
		return nil, apperror.NewStorage(fmt.Errorf("get price: %w", err))
	}

	return &p, nil
}

// GetActiveByProduct returns the single active price for a product.
func (r *PriceRepo) GetActiveByProduct(ctx context.Context, productID id.ID) (*pricing.Price, error) {
	q := r.builder.Select(priceColumns...).
		From(pricesTable).
		Where(squirrel.Eq{"product_id": productID, "active": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p pricing.Price
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNoActivePrice(productID.String())
		}
		return nil, apperror.NewStorage(fmt.Errorf("get active price: %w", err))
	}

	return &p, nil
}

// Activate deactivates whatever price is currently active for the
// product, then activates the target row. Two statements rather than
// one flip of every row: the partial unique index is checked per row
// during a statement, and a single UPDATE that turns the new row on
// before turning the old one off would trip it. Callers run Activate
// inside a transaction, so readers still never observe two active rows
// or none. Rows already in the desired state are skipped so activating
// the current active price touches nothing.
func (r *PriceRepo) Activate(ctx context.Context, productID, priceID id.ID) (int64, error) {
	deactivate := `
		UPDATE prices
		SET active = FALSE, last_updated = now()
		WHERE product_id = $1
		  AND active
		  AND id <> $2
	`
	offTag, err := r.txm.GetQuerier(ctx).Exec(ctx, deactivate, productID, priceID)
	if err != nil {
		return 0, apperror.NewStorage(fmt.Errorf("deactivate prices: %w", err))
	}

	activate := `
		UPDATE prices
		SET active = TRUE, last_updated = now()
		WHERE id = $1
		  AND product_id = $2
		  AND NOT active
	`
	onTag, err := r.txm.GetQuerier(ctx).Exec(ctx, activate, priceID, productID)
	if err != nil {
		return 0, apperror.NewStorage(fmt.Errorf("activate price: %w", err))
	}

	return offTag.RowsAffected() + onTag.RowsAffected(), nil
}

// ListByProduct returns all price rows for a product, active first,
// then newest first.
func (r *PriceRepo) ListByProduct(ctx context.Context, productID id.ID, filter domain.ListFilter) (domain.ListResult[*pricing.Price], error) {
	result := domain.ListResult[*pricing.Price]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(pricesTable).
		Where(squirrel.Eq{"product_id": productID})

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewStorage(fmt.Errorf("count prices: %w", err))
	}

	q := base.Columns(priceColumns...).
		OrderBy("active DESC", "date_created DESC")
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
		return result, apperror.NewStorage(fmt.Errorf("select prices: %w", err))
	}

	return result, nil
}

// Delete removes an inactive price row.
func (r *PriceRepo) Delete(ctx context.Context, priceID id.ID) error {
	sql := `DELETE FROM prices WHERE id = $1 AND NOT active`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, priceID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("delete price: %w", err))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish missing from active.
	if _, err := r.GetByID(ctx, priceID); err != nil {
		return err
	}
	return apperror.NewConflict("active price cannot be deleted")
}

// Ensure interface compliance.
var _ pricing.Repository = (*PriceRepo)(nil)
