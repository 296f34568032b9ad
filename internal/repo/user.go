package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/claims"
	"github.com/Skotchmaster/stores_api/internal/models"
)

// CreateUserIfNotExists inserts u unless the username is taken. A concurrent
// insert that wins the race after the lookup surfaces as ErrUserAlreadyExist too.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return duplicateAs(tx.Error, ErrUserAlreadyExist)
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UserRole backs claims.RoleLookup.
func (r *GormRepo) UserRole(ctx context.Context, id uint) (string, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", claims.ErrUnknownUser
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
