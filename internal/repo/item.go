package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/models"
)

// ItemPatch holds the optional fields of an item upsert.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	StoreID     *uint
}

func (r *GormRepo) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).Preload("Tags").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Preload("Store").Preload("Tags").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetItemsByIDs(ctx context.Context, ids []uint) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}
	var items []models.Item
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := storeExists(tx, item.StoreID); err != nil {
			return err
		}
		return tx.Omit("Store", "Tags").Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpsertItem updates the item with the given id, or creates it under that id
// when it does not exist. Creation needs every field but the description.
func (r *GormRepo) UpsertItem(ctx context.Context, id uint, p ItemPatch) (*models.Item, bool, error) {
	var item models.Item
	created := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&item, id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if p.Name == nil || p.Price == nil || p.StoreID == nil {
				return ErrIncompleteItem
			}
			if err := storeExists(tx, *p.StoreID); err != nil {
				return err
			}
			item = models.Item{ID: id, Name: *p.Name, Price: *p.Price, StoreID: *p.StoreID}
			if p.Description != nil {
				item.Description = *p.Description
			}
			created = true
			return tx.Omit("Store", "Tags").Create(&item).Error
		case err != nil:
			return err
		}

		if p.StoreID != nil && *p.StoreID != item.StoreID {
			if err := storeExists(tx, *p.StoreID); err != nil {
				return err
			}
			item.StoreID = *p.StoreID
		}
		if p.Name != nil {
			item.Name = *p.Name
		}
		if p.Description != nil {
			item.Description = *p.Description
		}
		if p.Price != nil {
			item.Price = *p.Price
		}
		return tx.Omit("Store", "Tags").Save(&item).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &item, created, nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM items_tags WHERE item_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SearchItems matches q against name and description, case-insensitively.
func (r *GormRepo) SearchItems(ctx context.Context, q string, offset, limit int) (int64, []models.Item, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Where(where, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Item{}).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
