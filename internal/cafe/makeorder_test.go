package cafe

import (
	"context"
	"testing"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseSuccess(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 5, 1.00)))
	require.NoError(t, err)

	purchasedBefore := metrics.CounterValue("cafe_orders_purchased")
	change, err := mo.Purchase(ctx, order.ID, 5.00)
	require.NoError(t, err)
	assert.InDelta(t, 0.00, change, 1e-9)
	assert.Equal(t, purchasedBefore+1, metrics.CounterValue("cafe_orders_purchased"))

	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPurchased, got.Status)
	assert.Equal(t, 5, stockAmount(t, inv, "Coffee"))
}

func TestPurchaseReturnsChange(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 2, 1.50)))
	require.NoError(t, err)

	change, err := mo.Purchase(ctx, order.ID, 10.00)
	require.NoError(t, err)
	assert.InDelta(t, 7.00, change, 1e-9)
}

func TestPurchaseInsufficientPayment(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 5, 1.00)))
	require.NoError(t, err)

	_, err = mo.Purchase(ctx, order.ID, 3.00)
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusActive, got.Status)
	assert.Equal(t, 10, stockAmount(t, inv, "Coffee"))
}

func TestPurchaseInsufficientStock(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 3})

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 5, 1.00)))
	require.NoError(t, err)

	_, err = mo.Purchase(ctx, order.ID, 20.00)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusActive, got.Status)
	assert.Equal(t, 3, stockAmount(t, inv, "Coffee"))
}

func TestPurchaseAllOrNothing(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10, "Milk": 1})

	order, err := orders.Create(ctx, makeOrder("Latte",
		item("Coffee", 2, 1.00), item("Milk", 3, 0.50)))
	require.NoError(t, err)

	_, err = mo.Purchase(ctx, order.ID, 20.00)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// the satisfiable item must not be decremented either
	assert.Equal(t, 10, stockAmount(t, inv, "Coffee"))
	assert.Equal(t, 1, stockAmount(t, inv, "Milk"))
}

func TestPurchaseUnknownInventoryItem(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	order, err := orders.Create(ctx, makeOrder("Chai", item("Tea", 1, 1.00)))
	require.NoError(t, err)

	_, err = mo.Purchase(ctx, order.ID, 5.00)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestPurchaseSumsCaseCollidingItems(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 5})

	// both items draw from the same inventory row, needing 6 in total
	order, err := orders.Create(ctx, makeOrder("Double",
		item("Coffee", 3, 1.00), item("coffee", 3, 1.00)))
	require.NoError(t, err)

	_, err = mo.Purchase(ctx, order.ID, 6.00)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, stockAmount(t, inv, "Coffee"))

	seedInventory(t, inv, map[string]int{"Coffee": 6})
	_, err = mo.Purchase(ctx, order.ID, 6.00)
	require.NoError(t, err)
	assert.Equal(t, 0, stockAmount(t, inv, "Coffee"))
}

func TestPurchaseMatchesNamesCaseInsensitively(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"coffee": 10})

	order, err := orders.Create(ctx, makeOrder("Latte", item("COFFEE", 4, 1.00)))
	require.NoError(t, err)

	_, err = mo.Purchase(ctx, order.ID, 4.00)
	require.NoError(t, err)
	assert.Equal(t, 6, stockAmount(t, inv, "coffee"))
}

func TestPurchaseGuards(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	_, err := mo.Purchase(ctx, 42, 5.00)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 2, 1.00)))
	require.NoError(t, err)
	_, err = mo.Purchase(ctx, order.ID, 2.00)
	require.NoError(t, err)

	// paying twice for the same order is a conflict
	_, err = mo.Purchase(ctx, order.ID, 2.00)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.Equal(t, 8, stockAmount(t, inv, "Coffee"))
}

func TestOrderLifecycle(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	// fulfill and pickup are no-ops until the order is paid for
	moved, err := mo.Fulfill(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = mo.Pickup(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = mo.Purchase(ctx, order.ID, 1.00)
	require.NoError(t, err)

	moved, err = mo.Pickup(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = mo.Fulfill(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = mo.Fulfill(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = mo.Pickup(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPickedUp, got.Status)
}

func TestTransitionUnknownOrder(t *testing.T) {
	_, _, mo, _ := newServices(t)

	_, err := mo.Fulfill(context.Background(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFulfillmentQueues(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	paid, err := orders.Create(ctx, makeOrder("Paid", item("Coffee", 1, 1.00)))
	require.NoError(t, err)
	_, err = mo.Purchase(ctx, paid.ID, 1.00)
	require.NoError(t, err)

	ready, err := orders.Create(ctx, makeOrder("Ready", item("Coffee", 1, 1.00)))
	require.NoError(t, err)
	_, err = mo.Purchase(ctx, ready.ID, 1.00)
	require.NoError(t, err)
	moved, err := mo.Fulfill(ctx, ready.ID)
	require.NoError(t, err)
	require.True(t, moved)

	queue, err := mo.OrdersToFulfill(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "Paid", queue[0].Name)

	fulfilled, err := mo.FulfilledOrders(ctx)
	require.NoError(t, err)
	require.Len(t, fulfilled, 1)
	assert.Equal(t, "Ready", fulfilled[0].Name)
}
