package repository

import (
	"errors"
	"fmt"

	"exam_portal_backend/internal/util"

	"gorm.io/gorm"
)

// translate turns gorm's not-found error into util.ErrNotFound.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, util.ErrNotFound)
	}
	return err
}
