package cafe

import (
	"context"
	"errors"

	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryService maintains the singleton inventory row.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// lockInventory loads the singleton inventory row inside tx, holding a row
// lock where the dialect supports it. SQLite serializes writers on its own.
func lockInventory(tx *gorm.DB) (*domain.Inventory, error) {
	q := tx.Preload("Items")
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var inv domain.Inventory
	if err := q.First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// Get returns the singleton inventory, creating an empty one on first read.
func (s *InventoryService) Get(ctx context.Context) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := s.db.WithContext(ctx).Preload("Items").First(&inv).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		inv = domain.Inventory{ID: common.UUIDint64(), Items: []domain.Item{}}
		if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
			return nil, err
		}
		zap.L().Info("initialized empty inventory", zap.Int64("inventory_id", inv.ID))
		return &inv, nil
	case err != nil:
		return nil, err
	}
	return &inv, nil
}

// Update applies a bulk stock update. The whole update is rejected when any
// amount is negative. Matching names are overwritten; unknown names are
// appended only with a positive amount, zero amounts are dropped.
func (s *InventoryService) Update(ctx context.Context, items []domain.Item) (*domain.Inventory, error) {
	for i := range items {
		if items[i].Amount < 0 {
			return nil, ErrInvalidAmount
		}
	}

	// get-or-create before entering the transaction so the row exists
	if _, err := s.Get(ctx); err != nil {
		return nil, err
	}

	var result *domain.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInventory(tx)
		if err != nil {
			return err
		}
		for _, in := range items {
			var matched bool
			for j := range inv.Items {
				if inv.Items[j].Name == in.Name {
					inv.Items[j].Amount = in.Amount
					if err := tx.Model(&domain.Item{}).
						Where("id = ?", inv.Items[j].ID).
						Update("amount", in.Amount).Error; err != nil {
						return err
					}
					matched = true
					break
				}
			}
			if !matched && in.Amount > 0 {
				item := domain.Item{
					ID:          common.UUIDint64(),
					InventoryID: inv.ID,
					Name:        in.Name,
					Amount:      in.Amount,
					Description: in.Description,
					Price:       in.Price,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				inv.Items = append(inv.Items, item)
			}
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddItem appends a single new item to the inventory. Non-positive amounts
// and duplicate names are conflicts.
func (s *InventoryService) AddItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if item.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.Get(ctx); err != nil {
		return nil, err
	}

	var created domain.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInventory(tx)
		if err != nil {
			return err
		}
		for i := range inv.Items {
			if inv.Items[i].Name == item.Name {
				return ErrDuplicateItem
			}
		}
		created = domain.Item{
			ID:          common.UUIDint64(),
			InventoryID: inv.ID,
			Name:        item.Name,
			Amount:      item.Amount,
			Description: item.Description,
			Price:       item.Price,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
