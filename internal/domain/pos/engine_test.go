package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/internal/domain/catalog/product"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/domain/pricing"
	"ventapos/internal/domain/sales"
)

// store is the shared in-memory state behind all fake repositories, so
// one transaction manager can snapshot and restore everything at once.
// Like a real database session, a failed statement marks the whole
// transaction aborted and every later statement is refused until
// rollback.
type store struct {
	products  map[id.ID]*product.Product
	prices    map[id.ID]*pricing.Price
	items     map[id.ID]*inventory.StockItem // keyed by product ID
	movements []*inventory.StockMovement
	sales     map[id.ID]*sales.Sale
	saleNos   map[string]id.ID
	lines     map[id.ID][]*sales.SaleLine

	aborted         bool
	failCreateLines error
}

// exec gates every write the way an aborted session would.
func (s *store) exec() error {
	if s.aborted {
		return apperror.NewStorage(errors.New("current transaction is aborted"))
	}
	return nil
}

// fail aborts the transaction and returns the statement's error.
func (s *store) fail(err error) error {
	s.aborted = true
	return err
}

func newStore() *store {
	return &store{
		products: make(map[id.ID]*product.Product),
		prices:   make(map[id.ID]*pricing.Price),
		items:    make(map[id.ID]*inventory.StockItem),
		sales:    make(map[id.ID]*sales.Sale),
		saleNos:  make(map[string]id.ID),
		lines:    make(map[id.ID][]*sales.SaleLine),
	}
}

func (s *store) snapshot() *store {
	cp := newStore()
	for k, v := range s.products {
		p := *v
		cp.products[k] = &p
	}
	for k, v := range s.prices {
		p := *v
		cp.prices[k] = &p
	}
	for k, v := range s.items {
		it := *v
		cp.items[k] = &it
	}
	cp.movements = append([]*inventory.StockMovement(nil), s.movements...)
	for k, v := range s.sales {
		sl := *v
		cp.sales[k] = &sl
	}
	for k, v := range s.saleNos {
		cp.saleNos[k] = v
	}
	for k, v := range s.lines {
		cp.lines[k] = append([]*sales.SaleLine(nil), v...)
	}
	cp.failCreateLines = s.failCreateLines
	return cp
}

func (s *store) restore(from *store) {
	s.products = from.products
	s.prices = from.prices
	s.items = from.items
	s.movements = from.movements
	s.sales = from.sales
	s.saleNos = from.saleNos
	s.lines = from.lines
	s.aborted = false // rollback ends the aborted session state
}

// snapshotTx restores store state when fn fails, mimicking rollback.
// Nested calls participate in the outermost restore scope.
type snapshotTx struct {
	store *store
	depth int
}

func (t *snapshotTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.depth > 0 {
		t.depth++
		defer func() { t.depth-- }()
		return fn(ctx)
	}
	backup := t.store.snapshot()
	t.depth++
	err := fn(ctx)
	t.depth--
	if err != nil {
		t.store.restore(backup)
	}
	return err
}

// --- fake repositories over the shared store ---

type fakeProducts struct{ s *store }

func (r fakeProducts) Create(_ context.Context, p *product.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r fakeProducts) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (r fakeProducts) GetByBarcode(_ context.Context, barcode string) (*product.Product, error) {
	for _, p := range r.s.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", barcode)
}

func (r fakeProducts) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{}, nil
}

type fakePrices struct{ s *store }

func (r fakePrices) Create(_ context.Context, p *pricing.Price) error {
	cp := *p
	r.s.prices[p.ID] = &cp
	return nil
}

func (r fakePrices) GetByID(_ context.Context, priceID id.ID) (*pricing.Price, error) {
	p, ok := r.s.prices[priceID]
	if !ok {
		return nil, apperror.NewNotFound("price", priceID)
	}
	cp := *p
	return &cp, nil
}

func (r fakePrices) GetActiveByProduct(_ context.Context, productID id.ID) (*pricing.Price, error) {
	for _, p := range r.s.prices {
		if p.ProductID == productID && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNoActivePrice(productID.String())
}

func (r fakePrices) Activate(_ context.Context, productID, priceID id.ID) (int64, error) {
	var touched int64
	for _, p := range r.s.prices {
		if p.ProductID == productID && p.Active && p.ID != priceID {
			p.Active = false
			touched++
		}
	}
	if p, ok := r.s.prices[priceID]; ok && p.ProductID == productID && !p.Active {
		p.Active = true
		touched++
	}
	return touched, nil
}

func (r fakePrices) ListByProduct(_ context.Context, productID id.ID, filter domain.ListFilter) (domain.ListResult[*pricing.Price], error) {
	return domain.ListResult[*pricing.Price]{}, nil
}

func (r fakePrices) Delete(_ context.Context, priceID id.ID) error {
	delete(r.s.prices, priceID)
	return nil
}

type fakeInventory struct{ s *store }

func (r fakeInventory) GetByProductID(_ context.Context, productID id.ID) (*inventory.StockItem, error) {
	item, ok := r.s.items[productID]
	if !ok {
		return nil, apperror.NewNotFound("stock item", productID)
	}
	cp := *item
	return &cp, nil
}

func (r fakeInventory) CreateIfAbsent(_ context.Context, item *inventory.StockItem) (bool, error) {
	if _, ok := r.s.items[item.ProductID]; ok {
		return false, nil
	}
	cp := *item
	r.s.items[item.ProductID] = &cp
	return true, nil
}

func (r fakeInventory) AddQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	if err := r.s.exec(); err != nil {
		return err
	}
	item, ok := r.s.items[productID]
	if !ok {
		return apperror.NewNotFound("stock item", productID)
	}
	item.QuantityOnHand = item.QuantityOnHand.Add(quantity)
	return nil
}

func (r fakeInventory) SubtractQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	if err := r.s.exec(); err != nil {
		return err
	}
	// Shortfall and missing-row failures stem from a guarded update
	// touching zero rows, not from a raised error, so they leave the
	// transaction usable.
	item, ok := r.s.items[productID]
	if !ok {
		return apperror.NewNotFound("stock item", productID)
	}
	if item.QuantityOnHand.LessThan(quantity) {
		return apperror.NewInsufficientStock(
			productID.String(), item.QuantityOnHand.String(), quantity.String())
	}
	item.QuantityOnHand = item.QuantityOnHand.Sub(quantity)
	return nil
}

func (r fakeInventory) UpdatePolicy(_ context.Context, productID id.ID, reorderLevel types.Quantity, location string) error {
	return nil
}

func (r fakeInventory) CreateMovement(_ context.Context, m *inventory.StockMovement) error {
	if err := r.s.exec(); err != nil {
		return err
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r fakeInventory) ListStock(_ context.Context, filter domain.ListFilter) (domain.ListResult[inventory.StockRow], error) {
	return domain.ListResult[inventory.StockRow]{}, nil
}

func (r fakeInventory) ListMovements(_ context.Context, filter inventory.MovementFilter) (domain.ListResult[inventory.MovementRow], error) {
	return domain.ListResult[inventory.MovementRow]{}, nil
}

func (r fakeInventory) LowStock(_ context.Context, limit int) ([]inventory.LowStockRow, error) {
	return nil, nil
}

func (r fakeInventory) CountLowStock(_ context.Context) (int64, error) {
	return 0, nil
}

type fakeSales struct{ s *store }

func (r fakeSales) Create(_ context.Context, sale *sales.Sale) error {
	if err := r.s.exec(); err != nil {
		return err
	}
	// A taken number reports Duplicate without raising a statement
	// error, mirroring the insert's ON CONFLICT DO NOTHING: the
	// transaction stays usable for the regenerated attempt.
	if _, taken := r.s.saleNos[sale.SaleNo]; taken {
		return apperror.NewDuplicate("sale", "sale_no", sale.SaleNo)
	}
	cp := *sale
	cp.Lines = nil
	r.s.sales[sale.ID] = &cp
	r.s.saleNos[sale.SaleNo] = sale.ID
	return nil
}

func (r fakeSales) CreateLines(_ context.Context, lines []*sales.SaleLine) error {
	if err := r.s.exec(); err != nil {
		return err
	}
	if r.s.failCreateLines != nil {
		return r.s.fail(r.s.failCreateLines)
	}
	for _, line := range lines {
		cp := *line
		r.s.lines[line.SaleID] = append(r.s.lines[line.SaleID], &cp)
	}
	return nil
}

func (r fakeSales) GetByID(_ context.Context, saleID id.ID) (*sales.Sale, error) {
	sale, ok := r.s.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	cp := *sale
	return &cp, nil
}

func (r fakeSales) GetBySaleNo(_ context.Context, saleNo string) (*sales.Sale, error) {
	saleID, ok := r.s.saleNos[saleNo]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleNo)
	}
	return r.GetByID(context.Background(), saleID)
}

func (r fakeSales) GetLines(_ context.Context, saleID id.ID) ([]sales.SaleLineRow, error) {
	var rows []sales.SaleLineRow
	for _, line := range r.s.lines[saleID] {
		rows = append(rows, sales.SaleLineRow{SaleLine: *line})
	}
	return rows, nil
}

func (r fakeSales) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*sales.Sale], error) {
	return domain.ListResult[*sales.Sale]{}, nil
}

func (r fakeSales) SumTotalBetween(_ context.Context, from, to time.Time) (types.Money, error) {
	return types.Zero(), nil
}

func (r fakeSales) CountBetween(_ context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

func (r fakeSales) DailyTotals(_ context.Context, from, to time.Time) ([]sales.DailyTotal, error) {
	return nil, nil
}

func (r fakeSales) TopProducts(_ context.Context, from, to time.Time, limit int) ([]sales.TopProduct, error) {
	return nil, nil
}

// seqNumbers replays a fixed sale number sequence, then repeats the last.
type seqNumbers struct {
	seq []string
	i   int
}

func (g *seqNumbers) Next() string {
	if g.i < len(g.seq)-1 {
		n := g.seq[g.i]
		g.i++
		return n
	}
	return g.seq[len(g.seq)-1]
}

// --- harness ---

type harness struct {
	store  *store
	engine *Engine
	ledger *inventory.Ledger
}

func newHarness(numbers *seqNumbers) *harness {
	s := newStore()
	txm := &snapshotTx{store: s}
	ledger := inventory.NewLedger(fakeInventory{s}, txm)
	prices := pricing.NewService(fakePrices{s}, txm)
	engine := NewEngine(fakeProducts{s}, ledger, prices, fakeSales{s}, numbers, txm)
	return &harness{store: s, engine: engine, ledger: ledger}
}

func defaultNumbers() *seqNumbers {
	return &seqNumbers{seq: []string{"S-0A1B2C3D", "S-1B2C3D4E", "S-2C3D4E5F"}}
}

// addProduct seeds a product with stock and an active price.
func (h *harness) addProduct(t *testing.T, name, stock, price string) id.ID {
	t.Helper()
	ctx := context.Background()
	p := product.New(name, "BC-"+name, product.UnitPiece)
	require.NoError(t, fakeProducts{h.store}.Create(ctx, p))
	if stock != "" {
		_, err := h.ledger.EnsureStockItem(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, h.ledger.Increase(ctx, p.ID, types.MustMoney(stock), "initial"))
	}
	if price != "" {
		pr := pricing.New(p.ID, types.MustMoney(price), "EUR")
		pr.Active = true
		require.NoError(t, fakePrices{h.store}.Create(ctx, pr))
	}
	return p.ID
}

func (h *harness) onHand(t *testing.T, productID id.ID) types.Quantity {
	t.Helper()
	item, err := h.ledger.GetByProduct(context.Background(), productID)
	require.NoError(t, err)
	return item.QuantityOnHand
}

func TestCheckout_Commits(t *testing.T) {
	ctx := context.Background()
	h := newHarness(defaultNumbers())

	apples := h.addProduct(t, "apples", "10", "10.00")
	radio := h.addProduct(t, "radio", "5", "52.50")

	sale, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("3")},
		{ProductID: radio, Quantity: types.MustMoney("1")},
	})
	require.NoError(t, err)

	assert.Equal(t, "S-0A1B2C3D", sale.SaleNo)
	assert.True(t, sale.Total.Equal(types.MustMoney("82.50")),
		"expected 82.50, got %s", sale.Total)

	require.Len(t, sale.Lines, 2)
	assert.Equal(t, apples, sale.Lines[0].ProductID)
	assert.Equal(t, radio, sale.Lines[1].ProductID)

	assert.True(t, h.onHand(t, apples).Equal(types.MustMoney("7")))
	assert.True(t, h.onHand(t, radio).Equal(types.MustMoney("4")))

	// Two initial IN movements plus two checkout OUT movements, the
	// latter annotated with the sale number.
	require.Len(t, h.store.movements, 4)
	for _, m := range h.store.movements[2:] {
		assert.Equal(t, inventory.MovementOut, m.Type)
		assert.Equal(t, "Sale S-0A1B2C3D", m.Note)
	}

	// Header and lines persisted.
	stored, err := fakeSales{h.store}.GetBySaleNo(ctx, "S-0A1B2C3D")
	require.NoError(t, err)
	rows, err := fakeSales{h.store}.GetLines(ctx, stored.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	h := newHarness(defaultNumbers())

	_, err := h.engine.Checkout(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyCart))
}

func TestCheckout_InsufficientStock_NoSideEffects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(defaultNumbers())

	apples := h.addProduct(t, "apples", "10", "10.00")
	radio := h.addProduct(t, "radio", "2", "52.50")

	_, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("3")},
		{ProductID: radio, Quantity: types.MustMoney("5")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "2", appErr.Details["have"])
	assert.Equal(t, "5", appErr.Details["want"])

	// Nothing changed for either product, no sale exists.
	assert.True(t, h.onHand(t, apples).Equal(types.MustMoney("10")))
	assert.True(t, h.onHand(t, radio).Equal(types.MustMoney("2")))
	assert.Empty(t, h.store.sales)
	assert.Len(t, h.store.movements, 2, "only the seed IN movements remain")
}

func TestCheckout_DuplicateLinesAggregatedForAvailability(t *testing.T) {
	ctx := context.Background()
	h := newHarness(defaultNumbers())

	apples := h.addProduct(t, "apples", "10", "1.00")

	_, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("6")},
		{ProductID: apples, Quantity: types.MustMoney("6")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "12", appErr.Details["want"])
}

func TestCheckout_UnknownProduct(t *testing.T) {
	h := newHarness(defaultNumbers())

	_, err := h.engine.Checkout(context.Background(), []CartLine{
		{ProductID: id.New(), Quantity: types.MustMoney("1")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCheckout_NoActivePrice(t *testing.T) {
	h := newHarness(defaultNumbers())
	apples := h.addProduct(t, "apples", "10", "") // stocked, unpriced

	_, err := h.engine.Checkout(context.Background(), []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("1")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNoActivePrice))
}

func TestCheckout_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	h := newHarness(defaultNumbers())
	apples := h.addProduct(t, "apples", "10", "1.00")
	h.store.products[apples].Active = false

	_, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("1")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCheckout_QuantityValidation(t *testing.T) {
	h := newHarness(defaultNumbers())
	apples := h.addProduct(t, "apples", "10", "1.00")

	_, err := h.engine.Checkout(context.Background(), []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("0")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCheckout_PerLineRounding(t *testing.T) {
	ctx := context.Background()
	h := newHarness(defaultNumbers())
	apples := h.addProduct(t, "apples", "10", "9.995")

	sale, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("3")},
	})
	require.NoError(t, err)

	// 3 * 9.995 = 29.985, rounded half-up per line.
	assert.True(t, sale.Total.Equal(types.MustMoney("29.99")),
		"expected 29.99, got %s", sale.Total)
}

func TestCheckout_SaleNumberCollisionRetries(t *testing.T) {
	ctx := context.Background()
	numbers := &seqNumbers{seq: []string{"S-TAKEN00", "S-TAKEN00", "S-FRESH00"}}
	h := newHarness(numbers)
	apples := h.addProduct(t, "apples", "10", "1.00")

	// Occupy the colliding number up front.
	require.NoError(t, fakeSales{h.store}.Create(ctx, sales.New("S-TAKEN00")))

	sale, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "S-FRESH00", sale.SaleNo)

	// The duplicate attempts ran inside the same transaction as the
	// rest of the checkout; line inserts and decrements after them must
	// still have executed.
	assert.False(t, h.store.aborted)
	assert.True(t, h.onHand(t, apples).Equal(types.MustMoney("9")))
	rows, err := fakeSales{h.store}.GetLines(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCheckout_SaleNumberExhaustion(t *testing.T) {
	ctx := context.Background()
	numbers := &seqNumbers{seq: []string{"S-TAKEN00"}}
	h := newHarness(numbers)
	apples := h.addProduct(t, "apples", "10", "1.00")

	require.NoError(t, fakeSales{h.store}.Create(ctx, sales.New("S-TAKEN00")))

	_, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("1")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.True(t, h.onHand(t, apples).Equal(types.MustMoney("10")))
}

func TestCheckout_RollsBackOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(defaultNumbers())
	apples := h.addProduct(t, "apples", "10", "1.00")

	h.store.failCreateLines = apperror.NewStorage(assert.AnError)

	_, err := h.engine.Checkout(ctx, []CartLine{
		{ProductID: apples, Quantity: types.MustMoney("2")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeStorage))

	assert.True(t, h.onHand(t, apples).Equal(types.MustMoney("10")))
	assert.Len(t, h.store.sales, 0, "header insert must roll back with the lines")
	assert.Len(t, h.store.movements, 1)
}
