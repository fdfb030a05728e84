// Package product provides the product identity consumed by the ledger
// and checkout. Catalog management lives outside this core; only the
// read contract (id, active flag, unit, barcode lookup) plus a minimal
// create used by seeding is exposed here.
package product

import (
	"context"
	"time"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
)

// Unit enumerates sale units for a product.
type Unit string

const (
	UnitPiece      Unit = "pcs"
	UnitBox        Unit = "box"
	UnitPack       Unit = "pack"
	UnitSet        Unit = "set"
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitMeter      Unit = "m"
	UnitCentimeter Unit = "cm"
)

// validUnits is the closed set accepted by Validate.
var validUnits = map[Unit]struct{}{
	UnitPiece: {}, UnitBox: {}, UnitPack: {}, UnitSet: {},
	UnitKilogram: {}, UnitGram: {}, UnitLiter: {}, UnitMilliliter: {},
	UnitMeter: {}, UnitCentimeter: {},
}

// IsValid reports whether u is a known unit.
func (u Unit) IsValid() bool {
	_, ok := validUnits[u]
	return ok
}

// Product is the external identity the core consumes.
// Immutable from the ledger's perspective during a transaction.
type Product struct {
	ID      id.ID  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Barcode string `db:"barcode" json:"barcode"`
	Unit    Unit   `db:"unit" json:"unit"`
	Active  bool   `db:"active" json:"active"`

	DateCreated time.Time `db:"date_created" json:"dateCreated"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// New creates a product with generated ID and defaults.
func New(name, barcode string, unit Unit) *Product {
	now := time.Now().UTC()
	if unit == "" {
		unit = UnitPiece
	}
	return &Product{
		ID:          id.New(),
		Name:        name,
		Barcode:     barcode,
		Unit:        unit,
		Active:      true,
		DateCreated: now,
		LastUpdated: now,
	}
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.Barcode == "" {
		return apperror.NewValidation("product barcode is required").
			WithDetail("field", "barcode")
	}
	if !p.Unit.IsValid() {
		return apperror.NewValidation("unknown product unit").
			WithDetail("field", "unit").
			WithDetail("value", string(p.Unit))
	}
	return nil
}
