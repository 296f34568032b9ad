package revocation

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/stores_api/internal/models"
)

// Store keeps revocations in the revoked_tokens table so they survive restarts
// and are shared by every instance using the same database.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	row := models.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt.UTC(),
		RevokedAt: time.Now().UTC(),
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", jti, err)
	}
	return n > 0, nil
}

func (s *Store) Prune(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune revoked tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
