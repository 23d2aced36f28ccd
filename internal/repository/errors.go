package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"printcalc/internal/apperrors"
)

// translate maps gorm errors onto the application taxonomy. resource and key
// name the record for not-found messages.
func translate(err error, resource string, key interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(fmt.Sprintf("%s already exists", resource))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.NotFound("referenced record for "+resource, key)
	}
	return fmt.Errorf("%s: %w", resource, err)
}

// deleted turns a zero-row delete into a not-found error.
func deleted(res *gorm.DB, resource string, id uint) error {
	if res.Error != nil {
		return translate(res.Error, resource, id)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(resource, id)
	}
	return nil
}
