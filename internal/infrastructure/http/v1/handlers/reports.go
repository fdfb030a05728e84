package handlers

import (
	"github.com/gin-gonic/gin"

	"ventapos/internal/domain/reports"
	"ventapos/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles dashboard report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Summary returns the dashboard headline numbers.
// GET /api/v1/reports/summary
func (h *ReportsHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSummary(summary))
}

// DailySales returns the daily revenue series.
// GET /api/v1/reports/daily-sales
func (h *ReportsHandler) DailySales(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", reports.DefaultSeriesDays)

	series, err := h.service.DailySales(c.Request.Context(), days)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": dto.FromDailyTotals(series)})
}

// TopProducts returns best sellers by quantity.
// GET /api/v1/reports/top-products
func (h *ReportsHandler) TopProducts(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", 30)
	limit := h.ParseIntQuery(c, "limit", reports.DefaultTopProducts)

	rows, err := h.service.TopProducts(c.Request.Context(), days, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": dto.FromTopProducts(rows)})
}

// LowStock returns products at or below their reorder level.
// GET /api/v1/reports/low-stock
func (h *ReportsHandler) LowStock(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 20)

	rows, err := h.service.LowStock(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.LowStockResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.FromLowStockRow(row))
	}

	h.OK(c, gin.H{"items": items})
}
