package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ventapos/internal/core/id"
	"ventapos/internal/core/types"
)

func TestAddLine_TotalsAndOrder(t *testing.T) {
	sale := New("S-0A1B2C3D")

	p1, p2 := id.New(), id.New()
	sale.AddLine(p1, types.MustMoney("3"), types.MustMoney("10.00"))
	sale.AddLine(p2, types.MustMoney("1"), types.MustMoney("52.50"))

	assert.True(t, sale.Total.Equal(types.MustMoney("82.50")),
		"expected 82.50, got %s", sale.Total)
	assert.Equal(t, 0, sale.Lines[0].Position)
	assert.Equal(t, 1, sale.Lines[1].Position)
	assert.Equal(t, p1, sale.Lines[0].ProductID)
}

func TestAddLine_RoundsPerLine(t *testing.T) {
	sale := New("S-11111111")

	// 3 * 9.995 = 29.985, rounded half-up per line.
	line := sale.AddLine(id.New(), types.MustMoney("3"), types.MustMoney("9.995"))

	assert.True(t, line.LineTotal.Equal(types.MustMoney("29.99")),
		"expected 29.99, got %s", line.LineTotal)
	assert.True(t, sale.Total.Equal(types.MustMoney("29.99")))
}

func TestAddLine_FractionalQuantity(t *testing.T) {
	sale := New("S-22222222")

	// 1.5 kg at 2.333 -> 3.4995 -> 3.50
	line := sale.AddLine(id.New(), types.MustMoney("1.5"), types.MustMoney("2.333"))

	assert.True(t, line.LineTotal.Equal(types.MustMoney("3.50")),
		"expected 3.50, got %s", line.LineTotal)
}
