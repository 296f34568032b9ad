package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/models"
)

func (r *GormRepo) ListStoreTags(ctx context.Context, storeID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := storeExists(tx, storeID); err != nil {
			return err
		}
		return tx.Where("store_id = ?", storeID).Order("id ASC").Find(&tags).Error
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormRepo) CreateTag(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := storeExists(tx, tag.StoreID); err != nil {
			return err
		}
		res := tx.Omit("Store", "Items").Where("name = ?", tag.Name).FirstOrCreate(tag)
		if res.Error != nil {
			return duplicateAs(res.Error, ErrAlreadyExist)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyExist
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *GormRepo) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Preload("Items").First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *GormRepo) DeleteTag(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		var links int64
		if err := tx.Table("items_tags").Where("tag_id = ?", id).Count(&links).Error; err != nil {
			return err
		}
		if links > 0 {
			return ErrTagInUse
		}
		return tx.Delete(&tag).Error
	})
}

func (r *GormRepo) loadPair(tx *gorm.DB, itemID, tagID uint) (*models.Item, *models.Tag, error) {
	var item models.Item
	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, nil, err
	}
	var tag models.Tag
	if err := tx.First(&tag, tagID).Error; err != nil {
		return nil, nil, err
	}
	return &item, &tag, nil
}

func (r *GormRepo) LinkTag(ctx context.Context, itemID, tagID uint) (*models.Tag, error) {
	var tag *models.Tag
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, t, err := r.loadPair(tx, itemID, tagID)
		if err != nil {
			return err
		}
		if item.StoreID != t.StoreID {
			return ErrStoreMismatch
		}
		if err := tx.Model(item).Omit("Tags.*").Association("Tags").Append(t); err != nil {
			return err
		}
		tag = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *GormRepo) UnlinkTag(ctx context.Context, itemID, tagID uint) (*models.Item, *models.Tag, error) {
	var (
		item *models.Item
		tag  *models.Tag
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		i, t, err := r.loadPair(tx, itemID, tagID)
		if err != nil {
			return err
		}
		if err := tx.Model(i).Association("Tags").Delete(t); err != nil {
			return err
		}
		item, tag = i, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return item, tag, nil
}
