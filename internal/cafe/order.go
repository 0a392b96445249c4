package cafe

import (
	"context"
	"strings"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/common"
	"github.com/opencampus/wolfcafe/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxOrders is the hard cap on orders in the system. It is a deployment
// constant, not a runtime setting.
const MaxOrders = 3

// OrderService enforces creation-time constraints and provides order CRUD.
type OrderService struct {
	db        *gorm.DB
	orderRepo OrderRepository
}

func NewOrderService(db *gorm.DB, orderRepo OrderRepository) *OrderService {
	return &OrderService{db: db, orderRepo: orderRepo}
}

func validateItems(items []domain.Item) error {
	if len(items) == 0 {
		return ErrInvalidOrder
	}
	for i := range items {
		if items[i].Amount <= 0 {
			return ErrInvalidOrder
		}
		if strings.TrimSpace(items[i].Name) == "" {
			return ErrInvalidOrder
		}
	}
	return nil
}

// Create validates and stores a new order. Duplicate names (exact match)
// and the system-wide order cap are conflicts. An order created as ACTIVE
// forces any previously active order out of the ACTIVE state.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := validateItems(order.Items); err != nil {
		return nil, err
	}

	dup, err := s.orderRepo.CountByName(ctx, order.Name)
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, ErrDuplicateName
	}

	total, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total >= MaxOrders {
		return nil, ErrOrderLimit
	}

	if order.Status == "" {
		order.Status = domain.OrderStatusActive
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.Status == domain.OrderStatusActive {
			if err := deactivateActive(tx); err != nil {
				return err
			}
		}
		order.ID = common.UUIDint64()
		for i := range order.Items {
			order.Items[i].ID = common.UUIDint64()
			order.Items[i].OrderID = order.ID
			order.Items[i].InventoryID = 0
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter("cafe_orders_created", 1)
	zap.L().Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("name", order.Name),
		zap.String("status", string(order.Status)))
	return order, nil
}

// deactivateActive forces any currently ACTIVE order out of the ACTIVE
// state. The replaced order goes straight to PICKED_UP, matching the
// long-standing behavior the clients rely on.
func deactivateActive(tx *gorm.DB) error {
	return tx.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusActive).
		Update("status", domain.OrderStatusPickedUp).Error
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *OrderService) GetByName(ctx context.Context, name string) (*domain.Order, error) {
	return s.orderRepo.GetByName(ctx, name)
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

// ActiveOrder returns the single ACTIVE order.
func (s *OrderService) ActiveOrder(ctx context.Context) (*domain.Order, error) {
	orders, err := s.orderRepo.ListByStatus(ctx, domain.OrderStatusActive)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// History returns all orders no longer ACTIVE, in creation order.
func (s *OrderService) History(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	history := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != domain.OrderStatusActive {
			history = append(history, o)
		}
	}
	return history, nil
}

// Update replaces the name, status and items of an existing order after the
// same item validation as Create.
func (s *OrderService) Update(ctx context.Context, id int64, update *domain.Order) (*domain.Order, error) {
	if err := validateItems(update.Items); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		items := make([]domain.Item, 0, len(update.Items))
		for _, it := range update.Items {
			it.ID = common.UUIDint64()
			it.OrderID = order.ID
			it.InventoryID = 0
			items = append(items, it)
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Name = update.Name
		if update.Status != "" {
			order.Status = update.Status
		}
		order.Items = items
		return tx.Model(&domain.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"name":   order.Name,
				"status": order.Status,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order and its items.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, order.ID).Error
	})
}

// AddItemToActiveOrder bumps the quantity of an item already present on the
// active order. Unknown item names and non-positive quantities are rejected.
func (s *OrderService) AddItemToActiveOrder(ctx context.Context, itemName string, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidAmount
	}
	order, err := s.ActiveOrder(ctx)
	if err != nil {
		return nil, err
	}
	for i := range order.Items {
		if strings.EqualFold(order.Items[i].Name, itemName) {
			order.Items[i].Amount += quantity
			if err := s.db.WithContext(ctx).Model(&domain.Item{}).
				Where("id = ?", order.Items[i].ID).
				Update("amount", order.Items[i].Amount).Error; err != nil {
				return nil, err
			}
			return order, nil
		}
	}
	return nil, ErrItemNotFound
}
