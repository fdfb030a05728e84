package dto

import (
	"time"

	"ventapos/internal/domain/catalog/product"
)

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Name    string `json:"name" binding:"required"`
	Barcode string `json:"barcode" binding:"required"`
	Unit    string `json:"unit"`
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Barcode     string    `json:"barcode"`
	Unit        string    `json:"unit"`
	Active      bool      `json:"active"`
	DateCreated time.Time `json:"dateCreated"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// FromProduct converts domain product to response DTO.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Barcode:     p.Barcode,
		Unit:        string(p.Unit),
		Active:      p.Active,
		DateCreated: p.DateCreated,
		LastUpdated: p.LastUpdated,
	}
}

// FromProducts converts a slice of products.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}
