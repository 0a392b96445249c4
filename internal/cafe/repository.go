package cafe

import (
	"context"
	"errors"

	"github.com/opencampus/wolfcafe/internal/domain"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for orders.
type OrderRepository interface {
	// GetByID retrieves an order with its items
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// GetByName retrieves an order by its exact name
	GetByName(ctx context.Context, name string) (*domain.Order, error)

	// List retrieves all orders in creation order
	List(ctx context.Context) ([]*domain.Order, error)

	// ListByStatus retrieves all orders with the given status in creation order
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)

	// Count returns the number of orders in the system
	Count(ctx context.Context) (int64, error)

	// CountByName returns the number of orders with the exact name
	CountByName(ctx context.Context, name string) (int64, error)
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetByName(ctx context.Context, name string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("name = ?", name).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at ASC, id ASC").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) CountByName(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("name = ?", name).Count(&count).Error
	return count, err
}
