// Package sales_repo provides the PostgreSQL implementation of the
// sales repository, including the dashboard aggregates.
package sales_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/internal/domain/sales"
	"ventapos/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleLinesTable = "sale_lines"
)

var saleColumns = []string{
	"id", "sale_no", "total", "date_created", "last_updated",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sales repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the sale header. A sale number collision surfaces as
// Duplicate so the checkout engine can regenerate and retry. The insert
// uses ON CONFLICT DO NOTHING instead of letting the unique constraint
// fire: a raised 23505 would put the enclosing checkout transaction
// into aborted state and make the retry impossible.
func (r *SaleRepo) Create(ctx context.Context, s *sales.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(s.ID, s.SaleNo, s.Total, s.DateCreated, s.LastUpdated).
		Suffix("ON CONFLICT (sale_no) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("insert sale: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewDuplicate("sale", "sale_no", s.SaleNo)
	}

	return nil
}

// CreateLines inserts all lines of a sale in one statement.
func (r *SaleRepo) CreateLines(ctx context.Context, lines []*sales.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(saleLinesTable).
		Columns("id", "sale_id", "position", "product_id", "quantity", "unit_price", "line_total")
	for _, line := range lines {
		q = q.Values(line.ID, line.SaleID, line.Position, line.ProductID,
			line.Quantity, line.UnitPrice, line.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewStorage(fmt.Errorf("insert sale lines: %w", err))
	}

	return nil
}

// GetByID retrieves a sale header.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sales.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, apperror.NewStorage(fmt.Errorf("get sale: %w", err))
	}

	return &s, nil
}

// GetBySaleNo retrieves a sale header by its number.
func (r *SaleRepo) GetBySaleNo(ctx context.Context, saleNo string) (*sales.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"sale_no": saleNo})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sales.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleNo)
		}
		return nil, apperror.NewStorage(fmt.Errorf("get sale by number: %w", err))
	}

	return &s, nil
}

// GetLines returns the lines of a sale in input order.
func (r *SaleRepo) GetLines(ctx context.Context, saleID id.ID) ([]sales.SaleLineRow, error) {
	q := r.builder.Select(
		"sl.id", "sl.sale_id", "sl.position", "sl.product_id",
		"sl.quantity", "sl.unit_price", "sl.line_total",
		"p.name AS product_name", "p.barcode",
	).From(saleLinesTable + " sl").
		Join("products p ON p.id = sl.product_id").
		Where(squirrel.Eq{"sl.sale_id": saleID}).
		OrderBy("sl.position")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []sales.SaleLineRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("select sale lines: %w", err))
	}

	return rows, nil
}

// List returns sale headers, newest first, searchable by sale number.
func (r *SaleRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sales.Sale], error) {
	result := domain.ListResult[*sales.Sale]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(salesTable)
	if filter.Search != "" {
		base = base.Where(squirrel.ILike{"sale_no": "%" + filter.Search + "%"})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewStorage(fmt.Errorf("count sales: %w", err))
	}

	q := base.Columns(saleColumns...).
		OrderBy("date_created DESC", "id DESC")
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
		return result, apperror.NewStorage(fmt.Errorf("select sales: %w", err))
	}

	return result, nil
}

// SumTotalBetween returns revenue over [from, to).
func (r *SaleRepo) SumTotalBetween(ctx context.Context, from, to time.Time) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(total), 0)
		FROM sales
		WHERE date_created >= $1 AND date_created < $2
	`

	var total types.Money
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, from, to).Scan(&total); err != nil {
		return types.Zero(), apperror.NewStorage(fmt.Errorf("sum sales: %w", err))
	}

	return total, nil
}

// CountBetween returns the number of sales over [from, to).
func (r *SaleRepo) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	sql := `
		SELECT COUNT(*)
		FROM sales
		WHERE date_created >= $1 AND date_created < $2
	`

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, from, to).Scan(&count); err != nil {
		return 0, apperror.NewStorage(fmt.Errorf("count sales: %w", err))
	}

	return count, nil
}

// DailyTotals returns per-day revenue over [from, to).
func (r *SaleRepo) DailyTotals(ctx context.Context, from, to time.Time) ([]sales.DailyTotal, error) {
	sql := `
		SELECT date_trunc('day', date_created AT TIME ZONE 'UTC') AS day,
		       SUM(total) AS total
		FROM sales
		WHERE date_created >= $1 AND date_created < $2
		GROUP BY day
		ORDER BY day
	`

	var totals []sales.DailyTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, from, to); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("select daily totals: %w", err))
	}

	return totals, nil
}

// TopProducts returns best sellers by quantity over [from, to).
func (r *SaleRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]sales.TopProduct, error) {
	sql := `
		SELECT sl.product_id,
		       p.name AS product_name,
		       SUM(sl.quantity) AS quantity_sold,
		       SUM(sl.line_total) AS revenue
		FROM sale_lines sl
		JOIN sales s ON s.id = sl.sale_id
		JOIN products p ON p.id = sl.product_id
		WHERE s.date_created >= $1 AND s.date_created < $2
		GROUP BY sl.product_id, p.name
		ORDER BY quantity_sold DESC, revenue DESC
		LIMIT $3
	`

	var rows []sales.TopProduct
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, from, to, limit); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("select top products: %w", err))
	}

	return rows, nil
}

// Ensure interface compliance.
var _ sales.Repository = (*SaleRepo)(nil)
