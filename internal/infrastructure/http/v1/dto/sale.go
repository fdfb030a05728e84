package dto

import (
	"time"

	"ventapos/internal/domain/sales"
)

// --- Checkout ---

// CheckoutLineRequest is one requested cart position.
type CheckoutLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
}

// CheckoutRequest for the checkout operation.
type CheckoutRequest struct {
	Lines []CheckoutLineRequest `json:"lines"`
}

// --- Responses ---

// SaleLineResponse represents a sale line in API responses.
type SaleLineResponse struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	LineTotal   string `json:"lineTotal"`
}

// FromSaleLine converts a domain sale line.
func FromSaleLine(line *sales.SaleLine) SaleLineResponse {
	return SaleLineResponse{
		ID:        line.ID.String(),
		Position:  line.Position,
		ProductID: line.ProductID.String(),
		Quantity:  line.Quantity.String(),
		UnitPrice: line.UnitPrice.String(),
		LineTotal: line.LineTotal.String(),
	}
}

// FromSaleLineRow converts a sale line display row.
func FromSaleLineRow(row sales.SaleLineRow) SaleLineResponse {
	resp := FromSaleLine(&row.SaleLine)
	resp.ProductName = row.ProductName
	resp.Barcode = row.Barcode
	return resp
}

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID          string             `json:"id"`
	SaleNo      string             `json:"saleNo"`
	Total       string             `json:"total"`
	DateCreated time.Time          `json:"dateCreated"`
	Lines       []SaleLineResponse `json:"lines,omitempty"`
}

// FromSale converts a domain sale, including lines when loaded.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:          s.ID.String(),
		SaleNo:      s.SaleNo,
		Total:       s.Total.String(),
		DateCreated: s.DateCreated,
	}
	for _, line := range s.Lines {
		resp.Lines = append(resp.Lines, FromSaleLine(line))
	}
	return resp
}

// FromSales converts a slice of sale headers.
func FromSales(items []*sales.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSale(s))
	}
	return out
}
