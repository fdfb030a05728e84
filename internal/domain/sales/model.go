// Package sales holds the persisted outcome of checkout: the Sale
// header with its human-readable number and the SaleLine breakdown.
// Sales are written once by the checkout engine and read-only after.
package sales

import (
	"time"

	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
)

// Sale is one committed checkout.
type Sale struct {
	ID     id.ID       `db:"id" json:"id"`
	SaleNo string      `db:"sale_no" json:"saleNo"`
	Total  types.Money `db:"total" json:"total"`

	DateCreated time.Time `db:"date_created" json:"dateCreated"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`

	// Lines are loaded on demand, in checkout input order.
	Lines []*SaleLine `db:"-" json:"lines,omitempty"`
}

// New creates an empty sale with the given number.
func New(saleNo string) *Sale {
	now := time.Now().UTC()
	return &Sale{
		ID:          id.New(),
		SaleNo:      saleNo,
		Total:       types.Zero(),
		DateCreated: now,
		LastUpdated: now,
	}
}

// AddLine appends a line, computing its rounded total and accumulating
// the sale total. Position preserves checkout input order.
func (s *Sale) AddLine(productID id.ID, quantity types.Quantity, unitPrice types.Money) *SaleLine {
	line := &SaleLine{
		ID:        id.New(),
		SaleID:    s.ID,
		Position:  len(s.Lines),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: types.LineTotal(unitPrice, quantity),
	}
	s.Lines = append(s.Lines, line)
	s.Total = s.Total.Add(line.LineTotal)
	return line
}

// SaleLine is one product position within a sale. UnitPrice is the
// active price captured at checkout time; LineTotal is unitPrice *
// quantity rounded to currency precision per line.
type SaleLine struct {
	ID        id.ID          `db:"id" json:"id"`
	SaleID    id.ID          `db:"sale_id" json:"saleId"`
	Position  int            `db:"position" json:"position"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money    `db:"line_total" json:"lineTotal"`
}

// SaleLineRow is a sale line joined with product identity for display.
type SaleLineRow struct {
	SaleLine
	ProductName string `db:"product_name" json:"productName"`
	Barcode     string `db:"barcode" json:"barcode"`
}

// DailyTotal is one point of the daily revenue series.
type DailyTotal struct {
	Day   time.Time   `db:"day" json:"day"`
	Total types.Money `db:"total" json:"total"`
}

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductID    id.ID          `db:"product_id" json:"productId"`
	ProductName  string         `db:"product_name" json:"productName"`
	QuantitySold types.Quantity `db:"quantity_sold" json:"quantitySold"`
	Revenue      types.Money    `db:"revenue" json:"revenue"`
}
