package provider

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/httperr"
)

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return fmt.Errorf("%s: %w", code, err)
}
