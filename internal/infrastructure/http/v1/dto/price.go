package dto

import (
	"time"

	"ventapos/internal/domain/pricing"
)

// CreatePriceRequest for creating price rows.
type CreatePriceRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Currency  string `json:"currency"`
	Activate  bool   `json:"activate"`
}

// PriceResponse represents a price row in API responses.
type PriceResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Active      bool      `json:"active"`
	DateCreated time.Time `json:"dateCreated"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// FromPrice converts domain price to response DTO.
func FromPrice(p *pricing.Price) PriceResponse {
	return PriceResponse{
		ID:          p.ID.String(),
		ProductID:   p.ProductID.String(),
		Amount:      p.Amount.String(),
		Currency:    p.Currency,
		Active:      p.Active,
		DateCreated: p.DateCreated,
		LastUpdated: p.LastUpdated,
	}
}

// FromPrices converts a slice of prices.
func FromPrices(items []*pricing.Price) []PriceResponse {
	out := make([]PriceResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromPrice(p))
	}
	return out
}
