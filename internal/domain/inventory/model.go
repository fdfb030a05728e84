// Package inventory provides the stock ledger: one StockItem row per
// product plus an append-only StockMovement history.
//
// Ledger invariant: for any product observed outside an in-flight
// transaction, quantityOnHand == sum(IN movements) - sum(OUT movements),
// and quantityOnHand is never negative.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
)

// MovementType defines movement direction. Direction is carried by the
// type, never by the sign of the quantity.
type MovementType string

const (
	// MovementIn increases quantity on hand
	MovementIn MovementType = "IN"
	// MovementOut decreases quantity on hand
	MovementOut MovementType = "OUT"
)

// DefaultReorderLevel is applied when a stock item is created lazily.
var DefaultReorderLevel = decimal.NewFromInt(10)

// StockItem tracks on-hand quantity for exactly one product (unique
// constraint on product_id). Created lazily the first time a product
// needs stock tracking; mutated only by Ledger operations.
type StockItem struct {
	ID             id.ID          `db:"id" json:"id"`
	ProductID      id.ID          `db:"product_id" json:"productId"`
	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
	ReorderLevel   types.Quantity `db:"reorder_level" json:"reorderLevel"`
	Location       string         `db:"location" json:"location,omitempty"`

	DateCreated time.Time `db:"date_created" json:"dateCreated"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// NewStockItem creates an empty stock item for a product.
func NewStockItem(productID id.ID) *StockItem {
	now := time.Now().UTC()
	return &StockItem{
		ID:             id.New(),
		ProductID:      productID,
		QuantityOnHand: decimal.Zero,
		ReorderLevel:   DefaultReorderLevel,
		DateCreated:    now,
		LastUpdated:    now,
	}
}

// IsLow reports whether the item is at or below its reorder level.
func (s *StockItem) IsLow() bool {
	return s.QuantityOnHand.LessThanOrEqual(s.ReorderLevel)
}

// StockMovement is one immutable audit record. Movements are written in
// the same transaction as the quantity change they describe and are
// never updated or deleted.
type StockMovement struct {
	ID        id.ID          `db:"id" json:"id"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Type      MovementType   `db:"type" json:"type"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"` // always positive
	Note      string         `db:"note" json:"note,omitempty"`

	DateCreated time.Time `db:"date_created" json:"dateCreated"`
}

// NewStockMovement creates a movement record.
func NewStockMovement(productID id.ID, mt MovementType, quantity types.Quantity, note string) *StockMovement {
	return &StockMovement{
		ID:          id.New(),
		ProductID:   productID,
		Type:        mt,
		Quantity:    quantity,
		Note:        note,
		DateCreated: time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on movement type.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.Type == MovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockRow is a stock listing row joined with product identity.
type StockRow struct {
	StockItem
	ProductName string `db:"product_name" json:"productName"`
	Barcode     string `db:"barcode" json:"barcode"`
	Unit        string `db:"unit" json:"unit"`
}

// MovementRow is a movement history row joined with product identity.
type MovementRow struct {
	StockMovement
	ProductName string `db:"product_name" json:"productName"`
	Barcode     string `db:"barcode" json:"barcode"`
}

// LowStockRow reports a product at or below its reorder level.
// Missing = reorderLevel - onHand.
type LowStockRow struct {
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	OnHand      types.Quantity `db:"on_hand" json:"onHand"`
	MinRequired types.Quantity `db:"min_required" json:"minRequired"`
	Missing     types.Quantity `db:"missing" json:"missing"`
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	ProductID *id.ID
	Type      *MovementType
	Search    string // product name or barcode
	Limit     int
	Offset    int
}
