package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/models"
)

func (r *GormRepo) ListStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.DB.WithContext(ctx).Preload("Items").Preload("Tags").Order("id ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *GormRepo) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.DB.WithContext(ctx).Preload("Items").Preload("Tags").First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *GormRepo) CreateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	tx := r.DB.WithContext(ctx).Where("name = ?", store.Name).FirstOrCreate(store)
	if tx.Error != nil {
		return nil, duplicateAs(tx.Error, ErrAlreadyExist)
	}
	if tx.RowsAffected == 0 {
		return nil, ErrAlreadyExist
	}
	return store, nil
}

// DeleteStore removes the store with its items, tags and their links, and
// returns the ids of the deleted items.
func (r *GormRepo) DeleteStore(ctx context.Context, id uint) ([]uint, error) {
	var itemIDs []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := storeExists(tx, id); err != nil {
			if errors.Is(err, ErrStoreNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		if err := tx.Model(&models.Item{}).Where("store_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM items_tags WHERE item_id IN (SELECT id FROM items WHERE store_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM items_tags WHERE tag_id IN (SELECT id FROM tags WHERE store_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Store{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return itemIDs, nil
}
