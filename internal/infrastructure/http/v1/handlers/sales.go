package handlers

import (
	"github.com/gin-gonic/gin"

	"ventapos/internal/domain"
	"ventapos/internal/domain/sales"
	"ventapos/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sale read endpoints.
type SalesHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service}
}

// Get returns a sale with its lines.
// GET /api/v1/sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, err := h.service.GetLines(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromSale(sale)
	resp.Lines = resp.Lines[:0]
	for _, row := range rows {
		resp.Lines = append(resp.Lines, dto.FromSaleLineRow(row))
	}

	h.OK(c, resp)
}

// List returns sale headers, newest first.
// GET /api/v1/sales
func (h *SalesHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromSales(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
