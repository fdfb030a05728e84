package sales

import (
	"context"
	"time"

	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
)

// Repository defines storage operations for sales.
type Repository interface {
	// Create inserts the sale header. Fails with Duplicate when the sale
	// number is already taken, which the checkout engine treats as a
	// signal to regenerate and retry.
	Create(ctx context.Context, s *Sale) error

	// CreateLines inserts all lines of a sale.
	CreateLines(ctx context.Context, lines []*SaleLine) error

	// GetByID retrieves a sale header. Fails with NotFound.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetBySaleNo retrieves a sale header by its number.
	GetBySaleNo(ctx context.Context, saleNo string) (*Sale, error)

	// GetLines returns the lines of a sale in input order.
	GetLines(ctx context.Context, saleID id.ID) ([]SaleLineRow, error)

	// List returns sale headers, newest first, searchable by sale number.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)

	// SumTotalBetween returns revenue over [from, to).
	SumTotalBetween(ctx context.Context, from, to time.Time) (types.Money, error)

	// CountBetween returns the number of sales over [from, to).
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)

	// DailyTotals returns per-day revenue over [from, to), days with no
	// sales omitted.
	DailyTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error)

	// TopProducts returns best sellers by quantity over [from, to).
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}
