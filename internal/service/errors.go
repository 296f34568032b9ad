package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/repo"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreMismatch      = errors.New("item and tag belong to different stores")
	ErrTagInUse           = errors.New("tag is linked to items")
)

// mapRepoErr translates repository errors into service sentinels, keeping
// the original error in the chain.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, repo.ErrStoreNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repo.ErrUserAlreadyExist), errors.Is(err, repo.ErrAlreadyExist):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repo.ErrStoreMismatch):
		return fmt.Errorf("%w: %w", ErrStoreMismatch, err)
	case errors.Is(err, repo.ErrTagInUse):
		return fmt.Errorf("%w: %w", ErrTagInUse, err)
	case errors.Is(err, repo.ErrIncompleteItem):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}
