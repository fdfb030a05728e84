package handlers

import (
	"github.com/gin-gonic/gin"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/domain"
	"ventapos/internal/domain/pricing"
	"ventapos/internal/infrastructure/http/v1/dto"
)

// PriceHandler handles price endpoints.
type PriceHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPriceHandler creates a new price handler.
func NewPriceHandler(base *BaseHandler, service *pricing.Service) *PriceHandler {
	return &PriceHandler{BaseHandler: base, service: service}
}

// Create handles price creation, optionally activating it immediately.
// POST /api/v1/prices
func (h *PriceHandler) Create(c *gin.Context) {
	var req dto.CreatePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId").WithDetail("value", req.ProductID))
		return
	}
	amount, ok := h.ParseDecimal(c, "amount", req.Amount)
	if !ok {
		return
	}

	price, err := h.service.Create(c.Request.Context(), productID, amount, req.Currency, req.Activate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, price.ID.String())
}

// Activate makes a price the product's active one.
// POST /api/v1/prices/:id/activate
func (h *PriceHandler) Activate(c *gin.Context) {
	priceID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	price, err := h.service.Activate(c.Request.Context(), priceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPrice(price))
}

// GetActive returns the active price for a product.
// GET /api/v1/products/:id/prices/active
func (h *PriceHandler) GetActive(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	price, err := h.service.GetActivePrice(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPrice(price))
}

// ListByProduct returns all price rows for a product.
// GET /api/v1/products/:id/prices
func (h *PriceHandler) ListByProduct(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.ListByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromPrices(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Delete removes an inactive price row.
// DELETE /api/v1/prices/:id
func (h *PriceHandler) Delete(c *gin.Context) {
	priceID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), priceID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
