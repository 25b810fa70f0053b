package pos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/pos"
)

func product(id string, price, cost int64, stock int) entity.Product {
	c := decimal.NewFromInt(cost)
	return entity.Product{
		ID:           id,
		Name:         "prod-" + id,
		SalePrice:    decimal.NewFromInt(price),
		PurchaseCost: &c,
		CurrentStock: stock,
	}
}

func TestCart_TotalYGanancia(t *testing.T) {
	cart := pos.NewCart()
	a := product("a", 10, 4, 5)
	b := product("b", 5, 2, 5)

	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(b))
	require.NoError(t, cart.UpdateQuantity("b", 3))

	assert.True(t, decimal.NewFromInt(35).Equal(cart.Total()), "2×10 + 3×5")
	assert.True(t, decimal.NewFromInt(21).Equal(cart.TotalProfit()), "2×6 + 3×3")
	assert.Equal(t, 2, cart.Len())
}

func TestCart_Add_SinStock(t *testing.T) {
	cart := pos.NewCart()
	err := cart.Add(product("a", 10, 4, 0))
	assert.ErrorIs(t, err, pos.ErrOutOfStock)
	assert.True(t, cart.IsEmpty())
}

func TestCart_Add_SuperaInstantanea(t *testing.T) {
	cart := pos.NewCart()
	p := product("a", 10, 4, 2)
	require.NoError(t, cart.Add(p))
	require.NoError(t, cart.Add(p))

	// el stock del catálogo cambió, la línea conserva su instantánea
	p.CurrentStock = 50
	assert.ErrorIs(t, cart.Add(p), pos.ErrExceedsStock)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := pos.NewCart()
	require.NoError(t, cart.Add(product("a", 10, 4, 3)))

	t.Run("excede stock no modifica", func(t *testing.T) {
		assert.ErrorIs(t, cart.UpdateQuantity("a", 4), pos.ErrExceedsStock)
		assert.Equal(t, 1, cart.Items()[0].Quantity)
	})

	t.Run("producto ausente", func(t *testing.T) {
		assert.ErrorIs(t, cart.UpdateQuantity("zzz", 1), pos.ErrItemNotInCart)
	})

	t.Run("cero elimina la línea", func(t *testing.T) {
		require.NoError(t, cart.UpdateQuantity("a", 0))
		assert.True(t, cart.IsEmpty())
	})
}

func TestCart_CostoOpcionalEsCero(t *testing.T) {
	cart := pos.NewCart()
	p := entity.Product{ID: "x", SalePrice: decimal.NewFromInt(8), CurrentStock: 1}
	require.NoError(t, cart.Add(p))
	assert.True(t, decimal.NewFromInt(8).Equal(cart.TotalProfit()))
}

func TestCart_RemoveYClear(t *testing.T) {
	cart := pos.NewCart()
	require.NoError(t, cart.Add(product("a", 1, 0, 1)))
	require.NoError(t, cart.Add(product("b", 1, 0, 1)))

	require.NoError(t, cart.Remove("a"))
	assert.ErrorIs(t, cart.Remove("a"), pos.ErrItemNotInCart)
	assert.Equal(t, "b", cart.Items()[0].ProductID)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}

func TestCart_ItemsEsCopia(t *testing.T) {
	cart := pos.NewCart()
	require.NoError(t, cart.Add(product("a", 1, 0, 3)))
	items := cart.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestChange(t *testing.T) {
	change, ok := pos.Change(decimal.NewFromInt(35), decimal.NewFromInt(50))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(15).Equal(change))

	_, ok = pos.Change(decimal.NewFromInt(35), decimal.NewFromInt(20))
	assert.False(t, ok)
}
