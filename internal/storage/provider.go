// Package storage persists whole books as snapshot files.
package storage

import (
	"errors"
	"fmt"

	"github.com/starford/kith/internal/book"
)

// Snapshot drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// ErrCorrupt is wrapped by load errors for files that exist but cannot be decoded.
var ErrCorrupt = errors.New("corrupt snapshot")

// Store saves and loads books. Loading an absent file yields an empty book;
// saving replaces the file atomically.
type Store interface {
	SaveContacts(path string, b *book.AddressBook) error
	LoadContacts(path string) (*book.AddressBook, error)
	SaveNotes(path string, b *book.NotesBook) error
	LoadNotes(path string) (*book.NotesBook, error)
}

// New returns the store for the named driver.
func New(driver string) (Store, error) {
	switch driver {
	case DriverJSON, "":
		return NewJSON(), nil
	case DriverSQLite:
		return NewSQLite(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

func corrupt(path string, err error) error {
	return fmt.Errorf("storage: %s: %w: %w", path, ErrCorrupt, err)
}
