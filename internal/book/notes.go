package book

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/starford/kith/internal/apperr"
	"github.com/starford/kith/internal/models"
)

// NotesBook maps a note id to its note. Ids come from a counter and are never reused.
type NotesBook struct {
	notes  map[int]*models.Note
	nextID int
}

// NewNotesBook returns an empty notes book.
func NewNotesBook() *NotesBook {
	return &NotesBook{notes: make(map[int]*models.Note), nextID: 1}
}

// RestoreNotesBook rebuilds a book from persisted notes. nextID is raised
// above the largest stored id if needed.
func RestoreNotesBook(notes []*models.Note, nextID int) (*NotesBook, error) {
	b := NewNotesBook()
	for _, n := range notes {
		if n.ID <= 0 {
			return nil, fmt.Errorf("book: invalid note id %d", n.ID)
		}
		if _, dup := b.notes[n.ID]; dup {
			return nil, fmt.Errorf("book: duplicate note id %d", n.ID)
		}
		b.notes[n.ID] = n
		b.nextID = max(b.nextID, n.ID+1)
	}
	b.nextID = max(b.nextID, nextID)
	return b, nil
}

// NoteUpdate lists the fields to change on Edit. Nil fields stay as they are.
type NoteUpdate struct {
	Title *string
	Text  *string
	Tags  []string
}

// Add assigns the next id to n, stores it and returns the id.
func (b *NotesBook) Add(n *models.Note) int {
	n.ID = b.nextID
	b.nextID++
	b.notes[n.ID] = n
	return n.ID
}

// Find returns the note with the given id.
func (b *NotesBook) Find(id int) (*models.Note, error) {
	n, ok := b.notes[id]
	if !ok {
		return nil, apperr.NotFoundf("note %d not found", id)
	}
	return n, nil
}

// Edit applies u to the note and refreshes its edit time. Nothing changes if
// any supplied field is invalid.
func (b *NotesBook) Edit(id int, u NoteUpdate, now time.Time) error {
	n, err := b.Find(id)
	if err != nil {
		return err
	}
	next := *n
	if u.Title != nil {
		if err := next.SetTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Text != nil {
		next.Text = *u.Text
	}
	if u.Tags != nil {
		if err := next.SetTags(u.Tags); err != nil {
			return err
		}
	}
	next.EditedAt = now
	*n = next
	return nil
}

// Delete removes the note with the given id.
func (b *NotesBook) Delete(id int) error {
	if _, ok := b.notes[id]; !ok {
		return apperr.NotFoundf("note %d not found", id)
	}
	delete(b.notes, id)
	return nil
}

// Search returns notes whose title, text or any tag contains query, ignoring case.
func (b *NotesBook) Search(query string) []*models.Note {
	var out []*models.Note
	for _, id := range b.ids() {
		if n := b.notes[id]; n.Matches(query) {
			out = append(out, n)
		}
	}
	return out
}

// All returns every note ordered by id.
func (b *NotesBook) All() []*models.Note {
	out := make([]*models.Note, 0, len(b.notes))
	for _, id := range b.ids() {
		out = append(out, b.notes[id])
	}
	return out
}

// Len returns the number of notes.
func (b *NotesBook) Len() int { return len(b.notes) }

// NextID returns the id the next added note will get.
func (b *NotesBook) NextID() int { return b.nextID }

func (b *NotesBook) ids() []int {
	return slices.Sorted(maps.Keys(b.notes))
}
