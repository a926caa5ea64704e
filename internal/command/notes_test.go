package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNote(t *testing.T) {
	d := newTestDispatcher(t)
	s := newTestSession()

	assert.Equal(t, "Note 1 added.", run(t, d, s, `add_note Groceries "milk and eggs" home errands home`).Output)
	assert.Equal(t, "Note 2 added.", run(t, d, s, "add_note Standup status").Output)

	n, err := s.Notes.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, "milk and eggs", n.Text)
	assert.Equal(t, []string{"errands", "home"}, n.Tags)
	assert.Equal(t, today, n.CreatedAt)

	res := d.Dispatch(s, `add_note "" text`)
	assert.True(t, res.Failed)
	assert.Equal(t, "Error: title cannot be empty", res.Output)
	assert.Equal(t, 2, s.Notes.Len())
}

func TestEditNote(t *testing.T) {
	d := newTestDispatcher(t)
	s := newTestSession()
	run(t, d, s, "add_note Groceries milk home")

	later := today.Add(time.Hour)
	s.Now = func() time.Time { return later }

	run(t, d, s, `edit_note 1 "" "milk and bread"`)
	n, _ := s.Notes.Find(1)
	assert.Equal(t, "Groceries", n.Title, "empty title keeps the old one")
	assert.Equal(t, "milk and bread", n.Text)
	assert.Equal(t, []string{"home"}, n.Tags)
	assert.Equal(t, later, n.EditedAt)
	assert.Equal(t, today, n.CreatedAt)

	run(t, d, s, `edit_note 1 Shopping "" weekly errands`)
	assert.Equal(t, "Shopping", n.Title)
	assert.Equal(t, "milk and bread", n.Text)
	assert.Equal(t, []string{"errands", "weekly"}, n.Tags)

	tests := []struct {
		line string
		want string
	}{
		{"edit_note 1", "Usage: nothing to change; edit_note <id> [title] [text] [tags...]"},
		{"edit_note abc title", `Error: invalid note id "abc"`},
		{"edit_note 0 title", `Error: invalid note id "0"`},
		{"edit_note 9 title", "Error: note 9 not found"},
		{`edit_note 1 New "" ""`, "Error: tag cannot be empty"},
	}
	for _, tt := range tests {
		res := d.Dispatch(s, tt.line)
		assert.True(t, res.Failed, tt.line)
		assert.Equal(t, tt.want, res.Output, tt.line)
	}
	assert.Equal(t, "Shopping", n.Title, "rejected edits leave the note untouched")
}

func TestDeleteNote_IDsAreNotReused(t *testing.T) {
	d := newTestDispatcher(t)
	s := newTestSession()
	run(t, d, s, "add_note a x", "add_note b y")

	assert.Equal(t, "Note 2 deleted.", run(t, d, s, "delete_note 2").Output)
	assert.Equal(t, "Note 3 added.", run(t, d, s, "add_note c z").Output)

	res := d.Dispatch(s, "delete_note 2")
	assert.True(t, res.Failed)
	assert.Equal(t, "Error: note 2 not found", res.Output)
}

func TestTags(t *testing.T) {
	d := newTestDispatcher(t)
	s := newTestSession()
	run(t, d, s, "add_note Groceries milk")

	assert.Equal(t, "Tag added to note 1.", run(t, d, s, "add_tag 1 home").Output)
	run(t, d, s, "add_tag 1 home")
	n, _ := s.Notes.Find(1)
	assert.Equal(t, []string{"home"}, n.Tags)

	assert.Equal(t, "Tag removed from note 1.", run(t, d, s, "remove_tag 1 home").Output)
	assert.Empty(t, n.Tags)

	res := d.Dispatch(s, "remove_tag 1 home")
	assert.True(t, res.Failed)
	assert.Equal(t, `Error: tag "home" not present on note 1`, res.Output)

	res = d.Dispatch(s, "add_tag 7 home")
	assert.True(t, res.Failed)
}

func TestTags_EditedAtOnlyOnChange(t *testing.T) {
	d := newTestDispatcher(t)
	s := newTestSession()
	run(t, d, s, "add_note Groceries milk")

	tagged := today.Add(time.Hour)
	s.Now = func() time.Time { return tagged }
	run(t, d, s, "add_tag 1 home")
	n, _ := s.Notes.Find(1)
	assert.Equal(t, tagged, n.EditedAt)

	s.Now = func() time.Time { return tagged.Add(time.Hour) }
	run(t, d, s, "add_tag 1 home")
	assert.Equal(t, []string{"home"}, n.Tags)
	assert.Equal(t, tagged, n.EditedAt, "duplicate tag leaves the note unchanged")

	run(t, d, s, "remove_tag 1 home")
	assert.Equal(t, tagged.Add(time.Hour), n.EditedAt)
}

func TestSearchAndListNotes(t *testing.T) {
	d := newTestDispatcher(t)
	s := newTestSession()
	assert.Equal(t, "No notes saved.", run(t, d, s, "all_notes").Output)

	run(t, d, s,
		`add_note Groceries "Milk and eggs" home`,
		`add_note Standup "status update" work`,
	)

	out := run(t, d, s, "search_notes MILK").Output
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Standup")

	out = run(t, d, s, "search_notes work").Output
	assert.Contains(t, out, "Standup")

	assert.Equal(t, "No notes found.", run(t, d, s, "search_notes zzz").Output)

	out = run(t, d, s, "all_notes").Output
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Standup")
}
