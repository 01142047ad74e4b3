package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is the base error every repository not-found sentinel wraps.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the record does not exist,
// regardless of which repository produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
