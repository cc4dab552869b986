package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailbench/retailbench/internal/models"
)

func TestSearch(t *testing.T) {
	store := NewStore()

	results := store.Search("headphones", "")
	require.Len(t, results, 1)
	assert.Equal(t, "prod_001", results[0].ID)

	electronics := store.Search("", "Electronics")
	assert.Len(t, electronics, 2)

	assert.Empty(t, store.Search("headphones", "Footwear"))
}

func TestGetProduct(t *testing.T) {
	store := NewStore()

	p, err := store.GetProduct("prod_001")
	require.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", p.Name)
	assert.Equal(t, 199.99, p.Price)

	_, err = store.GetProduct("prod_999")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateOrderFlow(t *testing.T) {
	store := NewStore()

	order, err := store.CreateOrder("cust_1", []OrderLine{{ProductID: "prod_001", Quantity: 1}})
	require.NoError(t, err)

	assert.Equal(t, "order_0001", order.ID)
	assert.Equal(t, 199.99, order.TotalPrice)
	assert.Equal(t, "confirmed", order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Wireless Headphones", order.Items[0].ProductName)

	p, err := store.GetProduct("prod_001")
	require.NoError(t, err)
	assert.Equal(t, 49, p.Quantity)
}

func TestCreateOrderOutOfStock(t *testing.T) {
	store := NewStore()

	_, err := store.CreateOrder("cust_1", []OrderLine{{ProductID: "prod_003", Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// Nothing mutated.
	p, err := store.GetProduct("prod_003")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.False(t, p.InStock)
}

func TestCreateOrderAllOrNothing(t *testing.T) {
	store := NewStore()

	// Second line is unsatisfiable; first line's stock must be untouched.
	_, err := store.CreateOrder("cust_1", []OrderLine{
		{ProductID: "prod_001", Quantity: 1},
		{ProductID: "prod_003", Quantity: 1},
	})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	p, err := store.GetProduct("prod_001")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Quantity)
}

func TestStockInvariant(t *testing.T) {
	store := NewStore()

	// prod_005 starts at 15; drain it in chunks and past the end.
	sold := 0
	for i := 0; i < 10; i++ {
		order, err := store.CreateOrder("cust_1", []OrderLine{{ProductID: "prod_005", Quantity: 4}})
		if err != nil {
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
			break
		}
		sold += 4
		assert.Equal(t, 699.99*4, order.Items[0].TotalPrice)
	}

	p, err := store.GetProduct("prod_005")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Quantity, 0)
	assert.Equal(t, 15-sold, p.Quantity)
}

func TestOrderTotalSumsItems(t *testing.T) {
	store := NewStore()

	order, err := store.CreateOrder("cust_3", []OrderLine{
		{ProductID: "prod_002", Quantity: 1},
		{ProductID: "prod_004", Quantity: 2},
	})
	require.NoError(t, err)

	var sum float64
	for _, item := range order.Items {
		assert.Equal(t, item.UnitPrice*float64(item.Quantity), item.TotalPrice)
		sum += item.TotalPrice
	}
	assert.Equal(t, sum, order.TotalPrice)
	assert.Equal(t, 129.99+2*39.99, order.TotalPrice)
}

func TestApplyDiscount(t *testing.T) {
	store := NewStore()

	order, err := store.CreateOrder("cust_4", []OrderLine{{ProductID: "prod_001", Quantity: 1}})
	require.NoError(t, err)

	result, err := store.ApplyDiscount(order.ID, "SAVE10")
	require.NoError(t, err)
	assert.InDelta(t, 199.99*0.10, result.Amount, 1e-9)
	assert.InDelta(t, 199.99*0.90, result.NewTotal, 1e-9)

	// Mutated in place.
	stored, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, result.NewTotal, stored.TotalPrice, 1e-9)
	assert.Equal(t, "SAVE10", stored.DiscountCode)
}

func TestApplyDiscountRejectsSecondCode(t *testing.T) {
	store := NewStore()

	order, err := store.CreateOrder("cust_4", []OrderLine{{ProductID: "prod_001", Quantity: 1}})
	require.NoError(t, err)

	_, err = store.ApplyDiscount(order.ID, "SAVE10")
	require.NoError(t, err)

	_, err = store.ApplyDiscount(order.ID, "SAVE10")
	assert.ErrorIs(t, err, models.ErrDiscountApplied)
	_, err = store.ApplyDiscount(order.ID, "WELCOME20")
	assert.ErrorIs(t, err, models.ErrDiscountApplied)

	// Total unchanged by the rejected applications.
	stored, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 199.99*0.90, stored.TotalPrice, 1e-9)
}

func TestApplyDiscountInvalidCode(t *testing.T) {
	store := NewStore()

	order, err := store.CreateOrder("cust_4", []OrderLine{{ProductID: "prod_004", Quantity: 1}})
	require.NoError(t, err)

	_, err = store.ApplyDiscount(order.ID, "MEGA50")
	assert.ErrorIs(t, err, models.ErrInvalidDiscountCode)

	_, err = store.ApplyDiscount("order_9999", "SAVE10")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
