package handlers

import (
	"github.com/gin-gonic/gin"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger endpoints.
type StockHandler struct {
	*BaseHandler
	ledger *inventory.Ledger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledger *inventory.Ledger) *StockHandler {
	return &StockHandler{BaseHandler: base, ledger: ledger}
}

// Get returns the stock item for a product.
// GET /api/v1/stock/:productId
func (h *StockHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	item, err := h.ledger.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockItem(item))
}

// Ensure lazily creates the stock item for a product.
// POST /api/v1/stock/:productId/ensure
func (h *StockHandler) Ensure(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	item, err := h.ledger.EnsureStockItem(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockItem(item))
}

// Increase handles stock receipt.
// POST /api/v1/stock/:productId/increase
func (h *StockHandler) Increase(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}
	var req dto.StockAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quantity, ok := h.ParseDecimal(c, "quantity", req.Quantity)
	if !ok {
		return
	}

	if err := h.ledger.Increase(c.Request.Context(), productID, quantity, req.Note); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock increased")
}

// Decrease handles manual stock issue (spoilage, corrections).
// POST /api/v1/stock/:productId/decrease
func (h *StockHandler) Decrease(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}
	var req dto.StockAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quantity, ok := h.ParseDecimal(c, "quantity", req.Quantity)
	if !ok {
		return
	}

	if err := h.ledger.Decrease(c.Request.Context(), productID, quantity, req.Note); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock decreased")
}

// UpdatePolicy updates the reorder level and location.
// PUT /api/v1/stock/:productId/policy
func (h *StockHandler) UpdatePolicy(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}
	var req dto.ReorderPolicyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var level *types.Quantity
	if req.ReorderLevel != nil {
		parsed, ok := h.ParseDecimal(c, "reorderLevel", *req.ReorderLevel)
		if !ok {
			return
		}
		level = &parsed
	}

	if err := h.ledger.UpdateReorderPolicy(c.Request.Context(), productID, level, req.Location); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "reorder policy updated")
}

// List returns the stock listing with product identity.
// GET /api/v1/stock
func (h *StockHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.OrderBy = c.Query("orderBy")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.ledger.ListStock(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockRowResponse, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, dto.FromStockRow(row))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Movements returns movement history, newest first.
// GET /api/v1/stock/movements
func (h *StockHandler) Movements(c *gin.Context) {
	filter := inventory.MovementFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("productId"); raw != "" {
		productID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId").WithDetail("value", raw))
			return
		}
		filter.ProductID = &productID
	}
	if raw := c.Query("type"); raw != "" {
		mt := inventory.MovementType(raw)
		filter.Type = &mt
	}

	result, err := h.ledger.Movements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, dto.FromMovementRow(row))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
