package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrAlreadyExist     = errors.New("name already exist")
	ErrStoreNotFound    = errors.New("store not found")
	ErrStoreMismatch    = errors.New("item and tag belong to different stores")
	ErrTagInUse         = errors.New("tag is linked to items")
	ErrIncompleteItem   = errors.New("name, price and store_id are required to create an item")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func storeExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Table("stores").Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrStoreNotFound
	}
	return nil
}

// duplicateAs replaces a unique-index violation with sentinel. It relies on
// the connection being opened with TranslateError.
func duplicateAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return sentinel
	}
	return err
}
