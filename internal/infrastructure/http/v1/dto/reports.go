package dto

import (
	"time"

	"ventapos/internal/domain/reports"
	"ventapos/internal/domain/sales"
)

// SummaryResponse carries the dashboard headline numbers.
type SummaryResponse struct {
	RevenueToday    string `json:"revenueToday"`
	RevenueMonth    string `json:"revenueMonth"`
	SalesCountToday int64  `json:"salesCountToday"`
	LowStockCount   int64  `json:"lowStockCount"`
}

// FromSummary converts the domain summary.
func FromSummary(s *reports.Summary) SummaryResponse {
	return SummaryResponse{
		RevenueToday:    s.RevenueToday.String(),
		RevenueMonth:    s.RevenueMonth.String(),
		SalesCountToday: s.SalesCountToday,
		LowStockCount:   s.LowStockCount,
	}
}

// DailyTotalResponse is one point of the daily revenue series.
type DailyTotalResponse struct {
	Day   time.Time `json:"day"`
	Total string    `json:"total"`
}

// FromDailyTotals converts the daily revenue series.
func FromDailyTotals(items []sales.DailyTotal) []DailyTotalResponse {
	out := make([]DailyTotalResponse, 0, len(items))
	for _, t := range items {
		out = append(out, DailyTotalResponse{Day: t.Day, Total: t.Total.String()})
	}
	return out
}

// TopProductResponse is one row of the best-sellers report.
type TopProductResponse struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	QuantitySold string `json:"quantitySold"`
	Revenue      string `json:"revenue"`
}

// FromTopProducts converts the best-sellers rows.
func FromTopProducts(items []sales.TopProduct) []TopProductResponse {
	out := make([]TopProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, TopProductResponse{
			ProductID:    p.ProductID.String(),
			ProductName:  p.ProductName,
			QuantitySold: p.QuantitySold.String(),
			Revenue:      p.Revenue.String(),
		})
	}
	return out
}
