package model

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) CartProduct {
	return CartProduct{
		ID:     id,
		Name:   "Product " + id,
		Brand:  "Neon Threads",
		Price:  decimal.NewFromInt(price),
		Sizes:  []string{"S", "M", "L"},
		Colors: []string{"red", "black"},
	}
}

func sumQuantities(items []CartLineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func sumPrices(items []CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func assertInvariants(t *testing.T, s CartState) {
	t.Helper()

	seen := map[CartKey]bool{}
	for _, it := range s.Items {
		assert.False(t, seen[it.Key()], "duplicate key %v", it.Key())
		seen[it.Key()] = true
		assert.GreaterOrEqual(t, it.Quantity, 1)
	}
	assert.Equal(t, sumQuantities(s.Items), s.TotalItems())
	assert.True(t, sumPrices(s.Items).Equal(s.TotalPrice()), "total price %s", s.TotalPrice())
}

func TestCartState_AddSameKeyMerges(t *testing.T) {
	var s CartState
	p1 := product("p1", 100)

	s.Add(p1, "M", "red", 1)
	s.Add(p1, "M", "red", 2)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.Equal(t, 3, s.TotalItems())
	assert.True(t, s.IsOpen)
}

func TestCartState_DifferentSizeOrColorIsNewLine(t *testing.T) {
	var s CartState
	p1 := product("p1", 100)

	s.Add(p1, "M", "red", 1)
	s.Add(p1, "L", "red", 1)
	s.Add(p1, "M", "black", 1)

	assert.Len(t, s.Items, 3)
	assert.Equal(t, 3, s.TotalItems())
}

func TestCartState_TotalPrice(t *testing.T) {
	var s CartState
	s.Add(product("p1", 100), "M", "red", 1)
	s.Add(product("p2", 50), "S", "black", 2)

	assert.True(t, decimal.NewFromInt(200).Equal(s.TotalPrice()))
}

func TestCartState_AddNonPositiveQuantityCountsAsOne(t *testing.T) {
	var s CartState
	s.Add(product("p1", 10), "S", "red", 0)
	s.Add(product("p1", 10), "S", "red", -4)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
}

func TestCartState_SetQuantityZeroRemoves(t *testing.T) {
	p1 := product("p1", 100)
	key := CartKey{ProductID: "p1", Size: "M", Color: "red"}

	var a, b CartState
	a.Add(p1, "M", "red", 2)
	b.Add(p1, "M", "red", 2)

	a.SetQuantity(key, 0)
	b.Remove(key)

	assert.Equal(t, b.Items, a.Items)
	assert.Empty(t, a.Items)

	a.Add(p1, "M", "red", 2)
	a.SetQuantity(key, -1)
	assert.Empty(t, a.Items)
}

func TestCartState_SetQuantityAbsentIsNoop(t *testing.T) {
	var s CartState
	s.Add(product("p1", 100), "M", "red", 2)

	s.SetQuantity(CartKey{ProductID: "nope", Size: "M", Color: "red"}, 5)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
}

func TestCartState_RemoveIsIdempotent(t *testing.T) {
	var s CartState
	s.Add(product("p1", 100), "M", "red", 1)
	key := CartKey{ProductID: "p1", Size: "M", Color: "red"}

	s.Remove(key)
	s.Remove(key)

	assert.Empty(t, s.Items)
}

func TestCartState_ClearYieldsZeroState(t *testing.T) {
	var s CartState
	s.Add(product("p1", 100), "M", "red", 3)
	s.Add(product("p2", 25), "S", "black", 1)

	s.Clear()

	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())
}

func TestCartState_OpenCloseToggle(t *testing.T) {
	var s CartState
	assert.False(t, s.IsOpen)

	s.Toggle()
	assert.True(t, s.IsOpen)
	s.Close()
	assert.False(t, s.IsOpen)
	s.Open()
	assert.True(t, s.IsOpen)
	s.Toggle()
	assert.False(t, s.IsOpen)
}

func TestCartState_CloneDoesNotShareItems(t *testing.T) {
	var s CartState
	s.Add(product("p1", 100), "M", "red", 1)

	c := s.Clone()
	s.SetQuantity(s.Items[0].Key(), 9)

	assert.Equal(t, 1, c.Items[0].Quantity)
}

// ランダムな add/update/remove の列で常に不変条件が保たれること
func TestCartState_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := []CartProduct{product("p1", 100), product("p2", 50), product("p3", 7)}
	sizes := []string{"S", "M"}
	colors := []string{"red", "black"}

	for round := 0; round < 200; round++ {
		var s CartState
		expected := map[CartKey]int{}

		for step := 0; step < 50; step++ {
			p := products[rng.Intn(len(products))]
			size := sizes[rng.Intn(len(sizes))]
			color := colors[rng.Intn(len(colors))]
			key := CartKey{ProductID: p.ID, Size: size, Color: color}

			switch rng.Intn(3) {
			case 0:
				qty := rng.Intn(5) + 1
				s.Add(p, size, color, qty)
				expected[key] += qty
			case 1:
				qty := rng.Intn(7) - 2
				s.SetQuantity(key, qty)
				if qty <= 0 {
					delete(expected, key)
				} else if _, ok := expected[key]; ok {
					expected[key] = qty
				}
			case 2:
				s.Remove(key)
				delete(expected, key)
			}

			assertInvariants(t, s)
		}

		got := map[CartKey]int{}
		for _, it := range s.Items {
			got[it.Key()] = it.Quantity
		}
		assert.Equal(t, expected, got)
	}
}

func TestCartState_SubtractKeepsRemainder(t *testing.T) {
	var s CartState
	s.Add(product("a", 10), "M", "red", 3)
	s.Add(product("b", 5), "S", "black", 1)

	ordered := []CartLineItem{
		{Product: product("a", 10), Size: "M", Color: "red", Quantity: 2},
		{Product: product("b", 5), Size: "S", Color: "black", Quantity: 1},
		{Product: product("c", 1), Size: "L", Color: "red", Quantity: 1},
	}
	s.Subtract(ordered)

	require.Len(t, s.Items, 1)
	assert.Equal(t, "a", s.Items[0].Product.ID)
	assert.Equal(t, 1, s.Items[0].Quantity)
}
