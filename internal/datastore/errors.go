package datastore

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, ErrDuplicateKey) {
		return true
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	return false
}
