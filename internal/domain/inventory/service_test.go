package inventory

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
)

// memRepo is an in-memory Repository used by ledger tests.
type memRepo struct {
	items     map[id.ID]*StockItem // keyed by product ID
	movements []*StockMovement

	failCreateMovement error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*StockItem)}
}

func (r *memRepo) GetByProductID(_ context.Context, productID id.ID) (*StockItem, error) {
	item, ok := r.items[productID]
	if !ok {
		return nil, apperror.NewNotFound("stock item", productID)
	}
	cp := *item
	return &cp, nil
}

func (r *memRepo) CreateIfAbsent(_ context.Context, item *StockItem) (bool, error) {
	if _, ok := r.items[item.ProductID]; ok {
		return false, nil
	}
	cp := *item
	r.items[item.ProductID] = &cp
	return true, nil
}

func (r *memRepo) AddQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	item, ok := r.items[productID]
	if !ok {
		return apperror.NewNotFound("stock item", productID)
	}
	item.QuantityOnHand = item.QuantityOnHand.Add(quantity)
	return nil
}

func (r *memRepo) SubtractQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	item, ok := r.items[productID]
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

func (r *memRepo) UpdatePolicy(_ context.Context, productID id.ID, reorderLevel types.Quantity, location string) error {
	item, ok := r.items[productID]
	if !ok {
		return apperror.NewNotFound("stock item", productID)
	}
	item.ReorderLevel = reorderLevel
	item.Location = location
	return nil
}

func (r *memRepo) CreateMovement(_ context.Context, m *StockMovement) error {
	if r.failCreateMovement != nil {
		return r.failCreateMovement
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memRepo) ListStock(_ context.Context, filter domain.ListFilter) (domain.ListResult[StockRow], error) {
	rows := make([]StockRow, 0, len(r.items))
	for _, item := range r.items {
		rows = append(rows, StockRow{StockItem: *item})
	}
	return domain.ListResult[StockRow]{
		Items:      rows,
		TotalCount: int64(len(rows)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *memRepo) ListMovements(_ context.Context, filter MovementFilter) (domain.ListResult[MovementRow], error) {
	var rows []MovementRow
	for _, m := range r.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		rows = append(rows, MovementRow{StockMovement: *m})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DateCreated.After(rows[j].DateCreated)
	})
	return domain.ListResult[MovementRow]{
		Items:      rows,
		TotalCount: int64(len(rows)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *memRepo) LowStock(_ context.Context, limit int) ([]LowStockRow, error) {
	var rows []LowStockRow
	for _, item := range r.items {
		if !item.IsLow() {
			continue
		}
		rows = append(rows, LowStockRow{
			ProductID:   item.ProductID,
			OnHand:      item.QuantityOnHand,
			MinRequired: item.ReorderLevel,
			Missing:     item.ReorderLevel.Sub(item.QuantityOnHand),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Missing.GreaterThan(rows[j].Missing)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *memRepo) CountLowStock(_ context.Context) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.IsLow() {
			n++
		}
	}
	return n, nil
}

// memTx snapshots repo state before fn and restores it when fn fails,
// mimicking database rollback.
type memTx struct {
	repo *memRepo
}

func (t *memTx) RunInTransaction(_ context.Context, fn func(ctx context.Context) error) error {
	itemsBackup := make(map[id.ID]*StockItem, len(t.repo.items))
	for k, v := range t.repo.items {
		cp := *v
		itemsBackup[k] = &cp
	}
	movementsBackup := append([]*StockMovement(nil), t.repo.movements...)

	if err := fn(context.Background()); err != nil {
		t.repo.items = itemsBackup
		t.repo.movements = movementsBackup
		return err
	}
	return nil
}

func newTestLedger() (*Ledger, *memRepo) {
	repo := newMemRepo()
	return NewLedger(repo, &memTx{repo: repo}), repo
}

func qty(s string) types.Quantity {
	return decimal.RequireFromString(s)
}

// seedStock creates the stock row and books an initial receipt.
func seedStock(t *testing.T, ledger *Ledger, productID id.ID, quantity, note string) {
	t.Helper()
	ctx := context.Background()
	_, err := ledger.EnsureStockItem(ctx, productID)
	require.NoError(t, err)
	require.NoError(t, ledger.Increase(ctx, productID, qty(quantity), note))
}

func TestEnsureStockItem(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()
	productID := id.New()

	item, err := ledger.EnsureStockItem(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, productID, item.ProductID)
	assert.True(t, item.QuantityOnHand.IsZero())
	assert.True(t, item.ReorderLevel.Equal(DefaultReorderLevel))

	// Second call is idempotent and returns the same row.
	again, err := ledger.EnsureStockItem(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)
}

func TestIncreaseThenDecrease(t *testing.T) {
	ctx := context.Background()
	ledger, repo := newTestLedger()
	productID := id.New()

	seedStock(t, ledger, productID, "50", "initial delivery")
	require.NoError(t, ledger.Decrease(ctx, productID, qty("30"), "Sale S-0A1B2C3D"))

	item, err := ledger.GetByProduct(ctx, productID)
	require.NoError(t, err)
	assert.True(t, item.QuantityOnHand.Equal(qty("20")),
		"expected 20 on hand, got %s", item.QuantityOnHand)

	require.Len(t, repo.movements, 2)
	assert.Equal(t, MovementIn, repo.movements[0].Type)
	assert.Equal(t, MovementOut, repo.movements[1].Type)
	assert.Equal(t, "Sale S-0A1B2C3D", repo.movements[1].Note)

	// On-hand quantity always equals the signed movement sum.
	sum := decimal.Zero
	for _, m := range repo.movements {
		sum = sum.Add(m.SignedQuantity())
	}
	assert.True(t, item.QuantityOnHand.Equal(sum))
}

func TestIncrease_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	ledger, repo := newTestLedger()
	productID := id.New()

	err := ledger.Increase(ctx, productID, qty("5"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// The row must not appear as a side effect, and no movement either.
	_, err = ledger.GetByProduct(ctx, productID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.movements)
}

func TestDecrease_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	ledger, repo := newTestLedger()
	productID := id.New()

	seedStock(t, ledger, productID, "10", "")

	err := ledger.Decrease(ctx, productID, qty("15"), "oversell attempt")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "10", appErr.Details["have"])
	assert.Equal(t, "15", appErr.Details["want"])

	// No side effects: quantity unchanged, no OUT movement written.
	item, err := ledger.GetByProduct(ctx, productID)
	require.NoError(t, err)
	assert.True(t, item.QuantityOnHand.Equal(qty("10")))
	require.Len(t, repo.movements, 1)
	assert.Equal(t, MovementIn, repo.movements[0].Type)
}

func TestDecrease_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	err := ledger.Decrease(ctx, id.New(), qty("1"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestQuantityValidation(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()
	productID := id.New()

	for _, bad := range []string{"0", "-3"} {
		err := ledger.Increase(ctx, productID, qty(bad), "")
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "increase %s", bad)

		err = ledger.Decrease(ctx, productID, qty(bad), "")
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "decrease %s", bad)
	}
}

func TestDecrease_RollsBackQuantityWhenMovementFails(t *testing.T) {
	ctx := context.Background()
	ledger, repo := newTestLedger()
	productID := id.New()

	seedStock(t, ledger, productID, "8", "")

	repo.failCreateMovement = apperror.NewStorage(assert.AnError)
	err := ledger.Decrease(ctx, productID, qty("3"), "")
	require.Error(t, err)

	item, getErr := ledger.GetByProduct(ctx, productID)
	require.NoError(t, getErr)
	assert.True(t, item.QuantityOnHand.Equal(qty("8")),
		"quantity change must roll back with the movement")
}

func TestUpdateReorderPolicy(t *testing.T) {
	ctx := context.Background()
	ledger, repo := newTestLedger()
	productID := id.New()

	seedStock(t, ledger, productID, "7", "")

	level := qty("25")
	require.NoError(t, ledger.UpdateReorderPolicy(ctx, productID, &level, "aisle 3"))

	item, err := ledger.GetByProduct(ctx, productID)
	require.NoError(t, err)
	assert.True(t, item.ReorderLevel.Equal(qty("25")))
	assert.Equal(t, "aisle 3", item.Location)
	assert.True(t, item.QuantityOnHand.Equal(qty("7")), "policy update must not touch quantity")
	assert.Empty(t, repo.movements[1:], "policy update must not write movements")
}

func TestUpdateReorderPolicy_NilLevelMeansZero(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()
	productID := id.New()

	seedStock(t, ledger, productID, "1", "")
	require.NoError(t, ledger.UpdateReorderPolicy(ctx, productID, nil, ""))

	item, err := ledger.GetByProduct(ctx, productID)
	require.NoError(t, err)
	assert.True(t, item.ReorderLevel.IsZero())
}

func TestUpdateReorderPolicy_Validation(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	negative := qty("-1")
	err := ledger.UpdateReorderPolicy(ctx, id.New(), &negative, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = ledger.UpdateReorderPolicy(ctx, id.New(), nil, "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestLowStock(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	lowID, okID := id.New(), id.New()
	seedStock(t, ledger, lowID, "2", "")
	seedStock(t, ledger, okID, "100", "")

	rows, err := ledger.LowStock(ctx, 0) // defaulted limit
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, lowID, rows[0].ProductID)
	assert.True(t, rows[0].Missing.Equal(qty("8")))
}
