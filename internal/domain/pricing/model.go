// Package pricing manages product price rows with an at-most-one-active
// rule per product. The active price is the only one checkout reads.
package pricing

import (
	"context"
	"time"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
)

// DefaultCurrency is applied when a price is created without one.
const DefaultCurrency = "EUR"

// Price is one price row for a product. Any number of inactive rows may
// exist per product; at most one may be active at a time.
type Price struct {
	ID        id.ID       `db:"id" json:"id"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Amount    types.Money `db:"amount" json:"amount"`
	Currency  string      `db:"currency" json:"currency"`
	Active    bool        `db:"active" json:"active"`

	DateCreated time.Time `db:"date_created" json:"dateCreated"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// New creates an inactive price row.
func New(productID id.ID, amount types.Money, currency string) *Price {
	now := time.Now().UTC()
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Price{
		ID:          id.New(),
		ProductID:   productID,
		Amount:      amount,
		Currency:    currency,
		Active:      false,
		DateCreated: now,
		LastUpdated: now,
	}
}

// Validate checks price invariants.
func (p *Price) Validate(ctx context.Context) error {
	if id.IsNil(p.ProductID) {
		return apperror.NewValidation("price requires a product").
			WithDetail("field", "productId")
	}
	if p.Amount.IsNegative() {
		return apperror.NewValidation("price amount must not be negative").
			WithDetail("amount", p.Amount.String())
	}
	if len(p.Currency) != 3 {
		return apperror.NewValidation("currency must be a 3-letter code").
			WithDetail("currency", p.Currency)
	}
	return nil
}
