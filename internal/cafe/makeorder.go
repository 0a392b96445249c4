package cafe

import (
	"context"
	"errors"
	"strings"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MakeOrderService drives the order lifecycle
// ACTIVE -> PURCHASED -> FULFILLED -> PICKED_UP and mediates stock
// consumption. Transitions attempted from the wrong source state fail
// softly so callers can report a conflict instead of crashing.
type MakeOrderService struct {
	db        *gorm.DB
	orderRepo OrderRepository
}

func NewMakeOrderService(db *gorm.DB, orderRepo OrderRepository) *MakeOrderService {
	return &MakeOrderService{db: db, orderRepo: orderRepo}
}

// Purchase charges the order and consumes stock. The stock check and the
// decrement run as one transaction over a locked inventory row, so two
// concurrent purchases cannot both observe sufficient stock. Either every
// order item is decremented or none is.
func (s *MakeOrderService) Purchase(ctx context.Context, orderID int64, amountPaid float64) (float64, error) {
	var change float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != domain.OrderStatusActive {
			return ErrNotActive
		}

		cost := order.Cost()
		if amountPaid < cost {
			return ErrInsufficientPayment
		}

		inv, err := lockInventory(tx)
		if err != nil {
			return err
		}

		// all-or-nothing: verify every item before touching any amount.
		// Several order items can match the same inventory row under the
		// case-insensitive lookup, so requirements are summed per row first.
		required := make(map[*domain.Item]int)
		for i := range order.Items {
			stock := inv.ItemByName(order.Items[i].Name)
			if stock == nil {
				return ErrInsufficientStock
			}
			required[stock] += order.Items[i].Amount
		}
		for stock, amount := range required {
			if stock.Amount < amount {
				return ErrInsufficientStock
			}
		}

		for stock, amount := range required {
			stock.Amount -= amount
			if err := tx.Model(&domain.Item{}).
				Where("id = ?", stock.ID).
				Update("amount", stock.Amount).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&domain.Order{}).
			Where("id = ?", order.ID).
			Update("status", domain.OrderStatusPurchased).Error; err != nil {
			return err
		}

		change = amountPaid - cost
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.IncrCounter("cafe_orders_purchased", 1)
	zap.L().Info("order purchased",
		zap.Int64("order_id", orderID),
		zap.Float64("paid", amountPaid),
		zap.Float64("change", change))
	return change, nil
}

// Fulfill marks a purchased order as prepared. Returns false without error
// when the order is not in the PURCHASED state.
func (s *MakeOrderService) Fulfill(ctx context.Context, orderID int64) (bool, error) {
	return s.transition(ctx, orderID, domain.OrderStatusPurchased, domain.OrderStatusFulfilled)
}

// Pickup marks a fulfilled order as collected. Returns false without error
// when the order is not in the FULFILLED state.
func (s *MakeOrderService) Pickup(ctx context.Context, orderID int64) (bool, error) {
	return s.transition(ctx, orderID, domain.OrderStatusFulfilled, domain.OrderStatusPickedUp)
}

func (s *MakeOrderService) transition(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error) {
	var moved bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != from {
			return nil
		}
		if err := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Update("status", to).Error; err != nil {
			return err
		}
		moved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if moved {
		zap.L().Info("order transitioned",
			zap.Int64("order_id", orderID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		metrics.IncrCounter("cafe_orders_"+strings.ToLower(string(to)), 1)
	}
	return moved, nil
}

// OrdersToFulfill returns all purchased orders awaiting preparation.
func (s *MakeOrderService) OrdersToFulfill(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.ListByStatus(ctx, domain.OrderStatusPurchased)
}

// FulfilledOrders returns all prepared orders awaiting pickup.
func (s *MakeOrderService) FulfilledOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.ListByStatus(ctx, domain.OrderStatusFulfilled)
}
