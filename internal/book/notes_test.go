package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/kith/internal/apperr"
	"github.com/starford/kith/internal/models"
)

func note(t *testing.T, title, text string, tags ...string) *models.Note {
	t.Helper()
	n, err := models.NewNote(title, text, tags, today)
	require.NoError(t, err)
	return n
}

func TestNotesBook_DistinctIDsInSuccession(t *testing.T) {
	b := NewNotesBook()
	first := b.Add(note(t, "a", "x"))
	second := b.Add(note(t, "b", "y"))

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, b.Len())
}

func TestNotesBook_IDsNotReusedAfterDelete(t *testing.T) {
	b := NewNotesBook()
	b.Add(note(t, "a", "x"))
	id := b.Add(note(t, "b", "y"))
	require.NoError(t, b.Delete(id))

	next := b.Add(note(t, "c", "z"))
	assert.Greater(t, next, id)
}

func TestNotesBook_Edit(t *testing.T) {
	b := NewNotesBook()
	id := b.Add(note(t, "Title", "Text", "one"))
	later := today.Add(time.Hour)

	text := "New text"
	require.NoError(t, b.Edit(id, NoteUpdate{Text: &text}, later))

	n, err := b.Find(id)
	require.NoError(t, err)
	assert.Equal(t, "Title", n.Title)
	assert.Equal(t, "New text", n.Text)
	assert.Equal(t, []string{"one"}, n.Tags)
	assert.Equal(t, later, n.EditedAt)
	assert.Equal(t, today, n.CreatedAt)

	require.NoError(t, b.Edit(id, NoteUpdate{Tags: []string{"two", "three"}}, later))
	assert.Equal(t, []string{"three", "two"}, n.Tags)
}

func TestNotesBook_EditInvalidLeavesNoteUnchanged(t *testing.T) {
	b := NewNotesBook()
	id := b.Add(note(t, "Title", "Text"))

	empty := ""
	text := "changed"
	err := b.Edit(id, NoteUpdate{Title: &empty, Text: &text}, today.Add(time.Hour))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	n, _ := b.Find(id)
	assert.Equal(t, "Title", n.Title)
	assert.Equal(t, "Text", n.Text)
	assert.Equal(t, today, n.EditedAt)
}

func TestNotesBook_EditMissing(t *testing.T) {
	b := NewNotesBook()
	assert.ErrorIs(t, b.Edit(42, NoteUpdate{}, today), apperr.ErrNotFound)
}

func TestNotesBook_DeleteMissing(t *testing.T) {
	b := NewNotesBook()
	b.Add(note(t, "a", "x"))
	assert.ErrorIs(t, b.Delete(99), apperr.ErrNotFound)
	assert.Equal(t, 1, b.Len())
}

func TestNotesBook_Search(t *testing.T) {
	b := NewNotesBook()
	b.Add(note(t, "Groceries", "milk", "home"))
	b.Add(note(t, "Standup", "Sprint review", "work"))
	b.Add(note(t, "Ideas", "a HOMEmade bot"))

	res := b.Search("home")
	require.Len(t, res, 2)
	assert.Equal(t, "Groceries", res[0].Title)
	assert.Equal(t, "Ideas", res[1].Title)

	assert.Len(t, b.Search("SPRINT"), 1)
	assert.Empty(t, b.Search("nothing"))
}

func TestRestoreNotesBook(t *testing.T) {
	a := note(t, "a", "x")
	a.ID = 3
	c := note(t, "c", "z")
	c.ID = 7

	b, err := RestoreNotesBook([]*models.Note{a, c}, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, b.NextID())
	assert.Equal(t, 2, b.Len())

	b, err = RestoreNotesBook([]*models.Note{a}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, b.NextID())

	dup := note(t, "d", "w")
	dup.ID = 3
	_, err = RestoreNotesBook([]*models.Note{a, dup}, 0)
	assert.Error(t, err)
}
