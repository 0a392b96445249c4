package cafe

import (
	"context"
	"fmt"
	"testing"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newServices(t *testing.T) (*gorm.DB, *OrderService, *MakeOrderService, *InventoryService) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	return db, NewOrderService(db, repo), NewMakeOrderService(db, repo), NewInventoryService(db)
}

// seedInventory stores the given name=amount pairs at $1.00 each.
func seedInventory(t *testing.T, inv *InventoryService, stock map[string]int) {
	t.Helper()
	items := make([]domain.Item, 0, len(stock))
	for name, amount := range stock {
		items = append(items, domain.Item{Name: name, Amount: amount, Price: 1.00})
	}
	_, err := inv.Update(context.Background(), items)
	require.NoError(t, err)
}

func stockAmount(t *testing.T, inv *InventoryService, name string) int {
	t.Helper()
	i, err := inv.Get(context.Background())
	require.NoError(t, err)
	item := i.ItemByName(name)
	require.NotNil(t, item, "inventory item %s missing", name)
	return item.Amount
}

func makeOrder(name string, items ...domain.Item) *domain.Order {
	return &domain.Order{Name: name, Status: domain.OrderStatusActive, Items: items}
}

func item(name string, amount int, price float64) domain.Item {
	return domain.Item{Name: name, Amount: amount, Price: price, Description: name}
}

func TestOrderCostRecomputed(t *testing.T) {
	order := makeOrder("Latte", item("Coffee", 5, 1.00), item("Milk", 2, 0.50))
	require.InDelta(t, 6.00, order.Cost(), 1e-9)

	order.Items[0].Amount = 1
	require.InDelta(t, 2.00, order.Cost(), 1e-9)
}

func TestInventoryItemOwnershipIsSeparate(t *testing.T) {
	db, orders, _, inv := newServices(t)

	seedInventory(t, inv, map[string]int{"Coffee": 10})
	_, err := orders.Create(context.Background(), makeOrder("Latte", item("Coffee", 5, 1.00)))
	require.NoError(t, err)

	// order item and inventory item of the same name are distinct rows
	var count int64
	require.NoError(t, db.Model(&domain.Item{}).Where("name = ?", "Coffee").Count(&count).Error)
	require.EqualValues(t, 2, count)
}
