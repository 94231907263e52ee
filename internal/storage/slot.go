// Package storage provides the key-value slots tasks are persisted in.
package storage

import (
	"errors"
	"fmt"
	"regexp"
)

// Slot is an opaque synchronous key-value string store.
// Get reports ok=false when the key has never been written.
type Slot interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// ErrInvalidKey is returned for keys that cannot be mapped to a file name.
var ErrInvalidKey = errors.New("invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// CheckKey reports whether key can name a slot.
func CheckKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}
