package handlers

import (
	"github.com/gin-gonic/gin"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/domain/pos"
	"ventapos/internal/infrastructure/http/v1/dto"
)

// POSHandler handles the checkout endpoint.
type POSHandler struct {
	*BaseHandler
	engine *pos.Engine
}

// NewPOSHandler creates a new POS handler.
func NewPOSHandler(base *BaseHandler, engine *pos.Engine) *POSHandler {
	return &POSHandler{BaseHandler: base, engine: engine}
}

// Checkout processes a cart atomically.
// POST /api/v1/pos/checkout
func (h *POSHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cart := make([]pos.CartLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId").
				WithDetail("line", i).
				WithDetail("value", line.ProductID))
			return
		}
		quantity, ok := h.ParseDecimal(c, "quantity", line.Quantity)
		if !ok {
			return
		}
		cart = append(cart, pos.CartLine{ProductID: productID, Quantity: quantity})
	}

	sale, err := h.engine.Checkout(c.Request.Context(), cart)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(sale))
}
