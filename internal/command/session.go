package command

import (
	"time"

	"github.com/starford/kith/internal/book"
)

// Session is the state every handler works against.
type Session struct {
	Contacts *book.AddressBook
	Notes    *book.NotesBook

	// Now is the clock used for note timestamps and birthday windows.
	Now func() time.Time
	// Save persists both books. Nil when persistence is disabled.
	Save func() error
	// UpcomingDays is the default window of upcoming_birthdays.
	UpcomingDays int
}

// NewSession returns a session over the given books using the wall clock.
func NewSession(contacts *book.AddressBook, notes *book.NotesBook) *Session {
	return &Session{
		Contacts:     contacts,
		Notes:        notes,
		Now:          time.Now,
		UpcomingDays: book.DefaultUpcomingDays,
	}
}
