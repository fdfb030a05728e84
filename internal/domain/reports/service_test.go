package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
	"ventapos/internal/domain"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/domain/sales"
)

type stubSales struct {
	sales.Repository // panic on anything not stubbed

	sums   map[time.Time]types.Money
	counts map[time.Time]int64
	daily  []sales.DailyTotal
}

func (s *stubSales) SumTotalBetween(_ context.Context, from, _ time.Time) (types.Money, error) {
	return s.sums[from], nil
}

func (s *stubSales) CountBetween(_ context.Context, from, _ time.Time) (int64, error) {
	return s.counts[from], nil
}

func (s *stubSales) DailyTotals(_ context.Context, _, _ time.Time) ([]sales.DailyTotal, error) {
	return s.daily, nil
}

type stubInventory struct {
	lowCount int64
	lowRows  []inventory.LowStockRow
}

func (s stubInventory) GetByProductID(_ context.Context, _ id.ID) (*inventory.StockItem, error) {
	return nil, nil
}

func (s stubInventory) CreateIfAbsent(_ context.Context, _ *inventory.StockItem) (bool, error) {
	return false, nil
}

func (s stubInventory) AddQuantity(_ context.Context, _ id.ID, _ types.Quantity) error {
	return nil
}

func (s stubInventory) SubtractQuantity(_ context.Context, _ id.ID, _ types.Quantity) error {
	return nil
}

func (s stubInventory) UpdatePolicy(_ context.Context, _ id.ID, _ types.Quantity, _ string) error {
	return nil
}

func (s stubInventory) CreateMovement(_ context.Context, _ *inventory.StockMovement) error {
	return nil
}

func (s stubInventory) ListStock(_ context.Context, _ domain.ListFilter) (domain.ListResult[inventory.StockRow], error) {
	return domain.ListResult[inventory.StockRow]{}, nil
}

func (s stubInventory) ListMovements(_ context.Context, _ inventory.MovementFilter) (domain.ListResult[inventory.MovementRow], error) {
	return domain.ListResult[inventory.MovementRow]{}, nil
}

func (s stubInventory) LowStock(_ context.Context, _ int) ([]inventory.LowStockRow, error) {
	return s.lowRows, nil
}

func (s stubInventory) CountLowStock(_ context.Context) (int64, error) {
	return s.lowCount, nil
}

type noTx struct{}

func (noTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
}

func TestSummary(t *testing.T) {
	dayStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	salesRepo := &stubSales{
		sums: map[time.Time]types.Money{
			dayStart:   types.MustMoney("120.50"),
			monthStart: types.MustMoney("4300.00"),
		},
		counts: map[time.Time]int64{dayStart: 7},
	}
	ledger := inventory.NewLedger(stubInventory{lowCount: 3}, noTx{})

	svc := NewService(salesRepo, ledger)
	svc.now = fixedNow

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.RevenueToday.Equal(types.MustMoney("120.50")))
	assert.True(t, summary.RevenueMonth.Equal(types.MustMoney("4300.00")))
	assert.Equal(t, int64(7), summary.SalesCountToday)
	assert.Equal(t, int64(3), summary.LowStockCount)
}

func TestDailySales_ZeroFills(t *testing.T) {
	day13 := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	salesRepo := &stubSales{
		daily: []sales.DailyTotal{{Day: day13, Total: types.MustMoney("55.00")}},
	}
	ledger := inventory.NewLedger(stubInventory{}, noTx{})

	svc := NewService(salesRepo, ledger)
	svc.now = fixedNow

	series, err := svc.DailySales(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, series, 3)

	// 13th has revenue, 14th and 15th are zero-filled.
	assert.True(t, series[0].Total.Equal(types.MustMoney("55.00")))
	assert.True(t, series[1].Total.IsZero())
	assert.True(t, series[2].Total.IsZero())
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), series[2].Day)
}
