// Package book holds the two in-memory collections: contacts and notes.
package book

import (
	"cmp"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kith/internal/apperr"
	"github.com/starford/kith/internal/models"
)

// DefaultUpcomingDays is the window used by upcoming birthday queries when none is given.
const DefaultUpcomingDays = 7

// AddressBook maps a contact name to its record.
type AddressBook struct {
	records map[models.Name]*models.Record
}

// NewAddressBook returns an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[models.Name]*models.Record)}
}

// Upcoming pairs a record with the date its next birthday falls on.
type Upcoming struct {
	Record *models.Record
	Date   time.Time
}

// Add inserts r under its name, replacing any record with the same name.
func (b *AddressBook) Add(r *models.Record) {
	b.records[r.Name] = r
}

// Find returns the record with exactly the given name.
func (b *AddressBook) Find(name string) (*models.Record, error) {
	n, err := models.NewName(name)
	if err != nil {
		return nil, err
	}
	r, ok := b.records[n]
	if !ok {
		return nil, apperr.NotFoundf("contact %q not found", name)
	}
	return r, nil
}

// Delete removes the record with the given name.
func (b *AddressBook) Delete(name string) error {
	r, err := b.Find(name)
	if err != nil {
		return err
	}
	delete(b.records, r.Name)
	return nil
}

// Search returns records where the query is a case-insensitive substring of
// the name, any phone, any email, the birthday or the address.
func (b *AddressBook) Search(query string) []*models.Record {
	var out []*models.Record
	for _, r := range b.records {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	sortByName(out)
	return out
}

// UpcomingBirthdays returns the records whose next birthday falls within
// [today, today+days], ordered by that date.
func (b *AddressBook) UpcomingBirthdays(today time.Time, days int) ([]Upcoming, error) {
	if err := validation.Validate(days, validation.Min(0).Error("days must not be negative")); err != nil {
		return nil, apperr.Validation(err)
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 0, days)

	var out []Upcoming
	for _, r := range b.records {
		if r.Birthday == nil {
			continue
		}
		next := r.Birthday.NextOccurrence(start)
		if next.After(end) {
			continue
		}
		out = append(out, Upcoming{Record: r, Date: next})
	}
	slices.SortFunc(out, func(a, b Upcoming) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Record.Name, b.Record.Name)
	})
	return out, nil
}

// All returns every record ordered by name.
func (b *AddressBook) All() []*models.Record {
	out := make([]*models.Record, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r)
	}
	sortByName(out)
	return out
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.records) }

func sortByName(rs []*models.Record) {
	slices.SortFunc(rs, func(a, b *models.Record) int { return cmp.Compare(a.Name, b.Name) })
}
