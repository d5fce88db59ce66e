package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error dasar service. Controller memetakan error ini ke status HTTP.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

// notFound membungkus gorm.ErrRecordNotFound menjadi ErrNotFound.
func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
	}
	return err
}
