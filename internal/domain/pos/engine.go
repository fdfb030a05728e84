// Package pos implements the checkout engine: turning a cart into a
// committed sale, stock decrements, and movement records in one atomic
// step. A checkout either commits everything or leaves no trace.
package pos

import (
	"context"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/tx"
	"ventapos/internal/core/types"
	"ventapos/internal/domain/catalog/product"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/domain/pricing"
	"ventapos/internal/domain/sales"
	"ventapos/pkg/logger"
	"ventapos/pkg/salenumber"
)

// Checkout phases, surfaced in logs only.
const (
	phaseValidating = "validating"
	phaseReserving  = "reserving"
	phaseCommitted  = "committed"
	phaseRejected   = "rejected"
	phaseRolledBack = "rolled_back"
)

const (
	// maxSaleNoAttempts bounds sale number regeneration on collisions.
	maxSaleNoAttempts = 5

	// maxCheckoutAttempts bounds whole-transaction retries after a
	// transient write conflict.
	maxCheckoutAttempts = 2
)

// CartLine is one requested position. Prices are never supplied by the
// caller; the engine reads the active price at checkout time.
type CartLine struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// Engine performs atomic checkout.
type Engine struct {
	products  product.Repository
	ledger    *inventory.Ledger
	prices    *pricing.Service
	sales     sales.Repository
	numbers   salenumber.Generator
	txManager tx.Manager
}

// NewEngine creates the checkout engine.
func NewEngine(
	products product.Repository,
	ledger *inventory.Ledger,
	prices *pricing.Service,
	salesRepo sales.Repository,
	numbers salenumber.Generator,
	txManager tx.Manager,
) *Engine {
	return &Engine{
		products:  products,
		ledger:    ledger,
		prices:    prices,
		sales:     salesRepo,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Checkout processes a cart atomically. On success it returns the
// committed sale with lines in input order. On any failure no sale, no
// line, no movement, and no quantity change is observable.
//
// The validation pass is a fast-fail courtesy only; the transaction's
// conditional decrements remain the sole authority on availability.
func (e *Engine) Checkout(ctx context.Context, cart []CartLine) (*sales.Sale, error) {
	if len(cart) == 0 {
		return nil, apperror.NewEmptyCart()
	}

	logger.Debug(ctx, "checkout started", "phase", phaseValidating, "lines", len(cart))
	priced, err := e.validate(ctx, cart)
	if err != nil {
		logger.Info(ctx, "checkout rejected", "phase", phaseRejected, "error", err)
		return nil, err
	}

	var sale *sales.Sale
	for attempt := 1; ; attempt++ {
		sale, err = e.commit(ctx, priced)
		if err == nil {
			break
		}
		if apperror.IsConcurrentModification(err) && attempt < maxCheckoutAttempts {
			logger.Warn(ctx, "checkout write conflict, retrying", "attempt", attempt)
			continue
		}
		logger.Info(ctx, "checkout rolled back", "phase", phaseRolledBack, "error", err)
		return nil, err
	}

	logger.Info(ctx, "checkout committed",
		"phase", phaseCommitted, "sale_no", sale.SaleNo, "total", sale.Total, "lines", len(sale.Lines))
	return sale, nil
}

// pricedLine is a cart line with its captured unit price.
type pricedLine struct {
	CartLine
	UnitPrice types.Money
}

// validate checks line shape, product existence, active prices, and
// current availability without taking locks or writing anything.
func (e *Engine) validate(ctx context.Context, cart []CartLine) ([]pricedLine, error) {
	priced := make([]pricedLine, 0, len(cart))
	want := make(map[id.ID]types.Quantity, len(cart))

	for i, line := range cart {
		if id.IsNil(line.ProductID) {
			return nil, apperror.NewValidation("cart line requires a product").
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return nil, apperror.NewValidation("cart line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity.String())
		}

		p, err := e.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.Active {
			return nil, apperror.NewValidation("product is not sellable").
				WithDetail("product_id", p.ID)
		}

		price, err := e.prices.GetActivePrice(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		priced = append(priced, pricedLine{CartLine: line, UnitPrice: price.Amount})
		want[line.ProductID] = want[line.ProductID].Add(line.Quantity)
	}

	// Availability pre-check against the aggregated demand per product,
	// so duplicate lines don't pass individually and fail combined.
	for productID, total := range want {
		item, err := e.ledger.GetByProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if item.QuantityOnHand.LessThan(total) {
			return nil, apperror.NewInsufficientStock(
				productID.String(), item.QuantityOnHand.String(), total.String())
		}
	}

	return priced, nil
}

// commit runs the write phase in one transaction: reserve a unique sale
// number, insert the sale and its lines, and decrement stock per line.
// Movement notes reference the sale number.
func (e *Engine) commit(ctx context.Context, priced []pricedLine) (*sales.Sale, error) {
	var sale *sales.Sale
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		logger.Debug(ctx, "reserving sale", "phase", phaseReserving)

		var err error
		sale, err = e.createSaleHeader(ctx, priced)
		if err != nil {
			return err
		}
		if err := e.sales.CreateLines(ctx, sale.Lines); err != nil {
			return err
		}

		// Conditional decrements; the store rejects any shortfall that
		// slipped past validation.
		for _, line := range priced {
			if err := e.ledger.Decrease(ctx, line.ProductID, line.Quantity, "Sale "+sale.SaleNo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// createSaleHeader inserts the sale row, regenerating the sale number on
// a duplicate up to maxSaleNoAttempts times. Uniqueness is enforced by
// the store, not by the generator.
func (e *Engine) createSaleHeader(ctx context.Context, priced []pricedLine) (*sales.Sale, error) {
	var lastErr error
	for attempt := 1; attempt <= maxSaleNoAttempts; attempt++ {
		sale := sales.New(e.numbers.Next())
		for _, line := range priced {
			sale.AddLine(line.ProductID, line.Quantity, line.UnitPrice)
		}

		err := e.sales.Create(ctx, sale)
		if err == nil {
			return sale, nil
		}
		if !apperror.IsCode(err, apperror.CodeDuplicate) {
			return nil, err
		}
		logger.Warn(ctx, "sale number collision, regenerating",
			"sale_no", sale.SaleNo, "attempt", attempt)
		lastErr = err
	}
	return nil, apperror.NewConflict("could not reserve a unique sale number").
		WithCause(lastErr)
}
