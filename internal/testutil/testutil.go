// Package testutil provides shared test helpers for clocks, snapshot paths and books.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/models"
)

// Today is the fixed date most tests run at.
var Today = time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)

// Clock returns a clock frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SnapshotPaths returns contacts and notes paths inside a fresh temp dir.
// The files do not exist yet.
func SnapshotPaths(t *testing.T, ext string) (contacts, notes string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	return filepath.Join(dir, "contacts."+ext), filepath.Join(dir, "notes."+ext)
}

// Contact builds a record from a name and phones, failing the test on
// invalid input.
func Contact(t *testing.T, name string, phones ...string) *models.Record {
	t.Helper()
	r, err := models.NewRecord(name)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range phones {
		if err := r.AddPhone(p); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

// AddressBook returns a book holding the given records.
func AddressBook(records ...*models.Record) *book.AddressBook {
	b := book.NewAddressBook()
	for _, r := range records {
		b.Add(r)
	}
	return b
}
