package dto

import (
	"time"

	"ventapos/internal/domain/inventory"
)

// --- Request DTOs ---

// StockAdjustmentRequest for stock increase/decrease operations.
type StockAdjustmentRequest struct {
	Quantity string `json:"quantity" binding:"required"`
	Note     string `json:"note"`
}

// ReorderPolicyRequest updates reorder level and location.
// A null reorderLevel clears the level to zero.
type ReorderPolicyRequest struct {
	ReorderLevel *string `json:"reorderLevel"`
	Location     string  `json:"location"`
}

// --- Response DTOs ---

// StockItemResponse represents a stock item in API responses.
type StockItemResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	QuantityOnHand string    `json:"quantityOnHand"`
	ReorderLevel   string    `json:"reorderLevel"`
	Location       string    `json:"location,omitempty"`
	DateCreated    time.Time `json:"dateCreated"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// FromStockItem converts domain stock item to response DTO.
func FromStockItem(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:             item.ID.String(),
		ProductID:      item.ProductID.String(),
		QuantityOnHand: item.QuantityOnHand.String(),
		ReorderLevel:   item.ReorderLevel.String(),
		Location:       item.Location,
		DateCreated:    item.DateCreated,
		LastUpdated:    item.LastUpdated,
	}
}

// StockRowResponse is a stock listing row with product identity.
type StockRowResponse struct {
	StockItemResponse
	ProductName string `json:"productName"`
	Barcode     string `json:"barcode"`
	Unit        string `json:"unit"`
}

// FromStockRow converts a stock listing row.
func FromStockRow(row inventory.StockRow) StockRowResponse {
	return StockRowResponse{
		StockItemResponse: FromStockItem(&row.StockItem),
		ProductName:       row.ProductName,
		Barcode:           row.Barcode,
		Unit:              row.Unit,
	}
}

// MovementResponse represents a stock movement in API responses.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	Type        string    `json:"type"`
	Quantity    string    `json:"quantity"`
	Note        string    `json:"note,omitempty"`
	DateCreated time.Time `json:"dateCreated"`
}

// FromMovementRow converts a movement history row.
func FromMovementRow(row inventory.MovementRow) MovementResponse {
	return MovementResponse{
		ID:          row.ID.String(),
		ProductID:   row.ProductID.String(),
		ProductName: row.ProductName,
		Barcode:     row.Barcode,
		Type:        string(row.Type),
		Quantity:    row.Quantity.String(),
		Note:        row.Note,
		DateCreated: row.DateCreated,
	}
}

// LowStockResponse reports a product at or below its reorder level.
type LowStockResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	OnHand      string `json:"onHand"`
	MinRequired string `json:"minRequired"`
	Missing     string `json:"missing"`
}

// FromLowStockRow converts a low stock row.
func FromLowStockRow(row inventory.LowStockRow) LowStockResponse {
	return LowStockResponse{
		ProductID:   row.ProductID.String(),
		ProductName: row.ProductName,
		OnHand:      row.OnHand.String(),
		MinRequired: row.MinRequired.String(),
		Missing:     row.Missing.String(),
	}
}
