package cafe

import (
	"context"
	"testing"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRejectsBadItems(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		order *domain.Order
	}{
		{"no items", makeOrder("Empty")},
		{"zero amount", makeOrder("Zero", item("Coffee", 0, 1.00))},
		{"negative amount", makeOrder("Neg", item("Coffee", -2, 1.00))},
		{"blank item name", makeOrder("Blank", item("  ", 1, 1.00))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orders.Create(ctx, tc.order)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}

func TestCreateOrderDuplicateName(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	_, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	_, err = orders.Create(ctx, makeOrder("Latte", item("Milk", 1, 0.50)))
	assert.ErrorIs(t, err, ErrDuplicateName)

	// the duplicate check is exact, differently cased names are distinct
	_, err = orders.Create(ctx, makeOrder("latte", item("Milk", 1, 0.50)))
	assert.NoError(t, err)
}

func TestCreateOrderCap(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := orders.Create(ctx, makeOrder(name, item("Coffee", 1, 1.00)))
		require.NoError(t, err)
	}

	_, err := orders.Create(ctx, makeOrder("Fourth", item("Coffee", 1, 1.00)))
	assert.ErrorIs(t, err, ErrOrderLimit)
}

func TestCreateOrderReplacesActive(t *testing.T) {
	db, orders, _, _ := newServices(t)
	ctx := context.Background()

	first, err := orders.Create(ctx, makeOrder("First", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	second, err := orders.Create(ctx, makeOrder("Second", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	active, err := orders.ActiveOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	var replaced domain.Order
	require.NoError(t, db.First(&replaced, first.ID).Error)
	assert.Equal(t, domain.OrderStatusPickedUp, replaced.Status)

	var activeCount int64
	require.NoError(t, db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusActive).Count(&activeCount).Error)
	assert.EqualValues(t, 1, activeCount)
}

func TestActiveOrderNone(t *testing.T) {
	_, orders, _, _ := newServices(t)

	_, err := orders.ActiveOrder(context.Background())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderHistoryExcludesActive(t *testing.T) {
	_, orders, mo, inv := newServices(t)
	ctx := context.Background()

	seedInventory(t, inv, map[string]int{"Coffee": 10})

	done, err := orders.Create(ctx, makeOrder("Done", item("Coffee", 1, 1.00)))
	require.NoError(t, err)
	_, err = mo.Purchase(ctx, done.ID, 1.00)
	require.NoError(t, err)

	_, err = orders.Create(ctx, makeOrder("Current", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	history, err := orders.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Done", history[0].Name)
}

func TestUpdateOrderReplacesItems(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	updated, err := orders.Update(ctx, order.ID, makeOrder("Mocha",
		item("Coffee", 2, 1.00), item("Chocolate", 1, 1.50)))
	require.NoError(t, err)
	assert.Equal(t, "Mocha", updated.Name)
	require.Len(t, updated.Items, 2)

	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mocha", got.Name)
	assert.Len(t, got.Items, 2)
	assert.InDelta(t, 3.50, got.Cost(), 1e-9)
}

func TestUpdateOrderAppliesStatusVerbatim(t *testing.T) {
	db, orders, _, _ := newServices(t)
	ctx := context.Background()

	first, err := orders.Create(ctx, makeOrder("First", item("Coffee", 1, 1.00)))
	require.NoError(t, err)
	_, err = orders.Create(ctx, makeOrder("Second", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	// Update takes the requested status without transition checks, so
	// reactivating a replaced order yields two ACTIVE orders. Long-standing
	// behavior the admin tooling relies on.
	update := makeOrder("First", item("Coffee", 1, 1.00))
	update.Status = domain.OrderStatusActive
	_, err = orders.Update(ctx, first.ID, update)
	require.NoError(t, err)

	var activeCount int64
	require.NoError(t, db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusActive).Count(&activeCount).Error)
	assert.EqualValues(t, 2, activeCount)
}

func TestUpdateOrderValidatesItems(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	_, err = orders.Update(ctx, order.ID, makeOrder("Latte"))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db, orders, _, _ := newServices(t)
	ctx := context.Background()

	order, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 1, 1.00)))
	require.NoError(t, err)

	require.NoError(t, orders.Delete(ctx, order.ID))

	_, err = orders.Get(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.Item{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteOrderNotFound(t *testing.T) {
	_, orders, _, _ := newServices(t)
	assert.ErrorIs(t, orders.Delete(context.Background(), 42), ErrOrderNotFound)
}

func TestAddItemToActiveOrder(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	_, err := orders.Create(ctx, makeOrder("Latte", item("Coffee", 2, 1.00)))
	require.NoError(t, err)

	// item names match case-insensitively
	order, err := orders.AddItemToActiveOrder(ctx, "coffee", 3)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Amount)

	got, err := orders.ActiveOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Amount)
}

func TestAddItemToActiveOrderRejections(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	_, err := orders.AddItemToActiveOrder(ctx, "Coffee", 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = orders.Create(ctx, makeOrder("Latte", item("Coffee", 2, 1.00)))
	require.NoError(t, err)

	_, err = orders.AddItemToActiveOrder(ctx, "Coffee", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = orders.AddItemToActiveOrder(ctx, "Tea", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestListOrdersInCreationOrder(t *testing.T) {
	_, orders, _, _ := newServices(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := orders.Create(ctx, makeOrder(name, item("Coffee", 1, 1.00)))
		require.NoError(t, err)
	}

	all, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "First", all[0].Name)
	assert.Equal(t, "Third", all[2].Name)
}
