// Package reports aggregates committed sales and ledger state into the
// dashboard numbers: headline KPIs, the daily revenue series, best
// sellers, and the low stock list. Read-only; never mutates anything.
package reports

import (
	"context"
	"time"

	"ventapos/internal/core/types"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/domain/sales"
)

// DefaultSeriesDays is the daily revenue window when none is requested.
const DefaultSeriesDays = 14

// DefaultTopProducts is the best-sellers row count when none is requested.
const DefaultTopProducts = 5

// Summary carries the dashboard headline numbers.
type Summary struct {
	RevenueToday    types.Money `json:"revenueToday"`
	RevenueMonth    types.Money `json:"revenueMonth"`
	SalesCountToday int64       `json:"salesCountToday"`
	LowStockCount   int64       `json:"lowStockCount"`
}

// Service computes dashboard reports.
type Service struct {
	sales  sales.Repository
	ledger *inventory.Ledger
	now    func() time.Time
}

// NewService creates the reports service.
func NewService(salesRepo sales.Repository, ledger *inventory.Ledger) *Service {
	return &Service{sales: salesRepo, ledger: ledger, now: time.Now}
}

// Summary returns today's revenue and sales count, the current month's
// revenue, and the low stock count. Day boundaries are UTC.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	revenueToday, err := s.sales.SumTotalBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	revenueMonth, err := s.sales.SumTotalBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	countToday, err := s.sales.CountBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	lowStock, err := s.ledger.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		RevenueToday:    revenueToday,
		RevenueMonth:    revenueMonth,
		SalesCountToday: countToday,
		LowStockCount:   lowStock,
	}, nil
}

// DailySales returns the per-day revenue series for the last `days`
// days including today, zero-filled for days without sales.
func (s *Service) DailySales(ctx context.Context, days int) ([]sales.DailyTotal, error) {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	now := s.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)

	totals, err := s.sales.DailyTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]types.Money, len(totals))
	for _, t := range totals {
		byDay[t.Day.UTC().Truncate(24*time.Hour)] = t.Total
	}

	series := make([]sales.DailyTotal, 0, days)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		total, ok := byDay[day]
		if !ok {
			total = types.Zero()
		}
		series = append(series, sales.DailyTotal{Day: day, Total: total})
	}
	return series, nil
}

// TopProducts returns best sellers by quantity over the last `days` days.
func (s *Service) TopProducts(ctx context.Context, days, limit int) ([]sales.TopProduct, error) {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	now := s.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return s.sales.TopProducts(ctx, to.AddDate(0, 0, -days), to, limit)
}

// LowStock returns products at or below their reorder level.
func (s *Service) LowStock(ctx context.Context, limit int) ([]inventory.LowStockRow, error) {
	return s.ledger.LowStock(ctx, limit)
}
