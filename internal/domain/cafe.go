package domain

import (
	"strings"
	"time"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "ACTIVE"
	OrderStatusPurchased OrderStatus = "PURCHASED"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusPickedUp  OrderStatus = "PICKED_UP"
)

// Item is a stock-keeping unit. Every item row belongs to exactly one
// inventory or one order; an order item is an independent copy, never a
// shared row with the inventory item of the same name.
type Item struct {
	ID          int64   `gorm:"primaryKey" json:"id,string"`
	InventoryID int64   `gorm:"index" json:"-"`
	OrderID     int64   `gorm:"index" json:"-"`
	Name        string  `gorm:"index" json:"name" form:"name"`
	Amount      int     `json:"amount" form:"amount"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
}

// TableName Specify table name
func (Item) TableName() string {
	return "cafe_item"
}

// Inventory is the single system-wide stock record. Exactly one row exists;
// it is created lazily on first read and never deleted.
type Inventory struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Items     []Item    `gorm:"foreignKey:InventoryID" json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Inventory) TableName() string {
	return "cafe_inventory"
}

// ItemByName returns the inventory item matching name case-insensitively,
// or nil when absent.
func (inv *Inventory) ItemByName(name string) *Item {
	for i := range inv.Items {
		if strings.EqualFold(inv.Items[i].Name, name) {
			return &inv.Items[i]
		}
	}
	return nil
}

// Order is a named collection of items moving through the lifecycle
// ACTIVE -> PURCHASED -> FULFILLED -> PICKED_UP.
type Order struct {
	ID        int64       `gorm:"primaryKey" json:"id,string"`
	Name      string      `gorm:"index" json:"name" form:"name"`
	Status    OrderStatus `gorm:"size:32;index" json:"status" form:"status"`
	Items     []Item      `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "cafe_order"
}

// Cost recomputes the total order cost from its items.
func (o *Order) Cost() float64 {
	var total float64
	for i := range o.Items {
		total += float64(o.Items[i].Amount) * o.Items[i].Price
	}
	return total
}
