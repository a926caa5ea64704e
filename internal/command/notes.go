package command

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/starford/kith/internal/apperr"
	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/models"
)

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid note id %q", raw)
	}
	return id, nil
}

func addNote(s *Session, args []string) (string, error) {
	n, err := models.NewNote(args[0], args[1], args[2:], s.Now())
	if err != nil {
		return "", err
	}
	id := s.Notes.Add(n)
	return fmt.Sprintf("Note %d added.", id), nil
}

func editNote(s *Session, args []string) (string, error) {
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	var u book.NoteUpdate
	if len(args) > 1 && args[1] != "" {
		u.Title = &args[1]
	}
	if len(args) > 2 && args[2] != "" {
		u.Text = &args[2]
	}
	if len(args) > 3 {
		u.Tags = args[3:]
	}
	if u.Title == nil && u.Text == nil && u.Tags == nil {
		return "", apperr.Usagef("Usage: nothing to change; edit_note <id> [title] [text] [tags...]")
	}
	if err := s.Notes.Edit(id, u, s.Now()); err != nil {
		return "", err
	}
	return fmt.Sprintf("Note %d updated.", id), nil
}

func deleteNote(s *Session, args []string) (string, error) {
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	if err := s.Notes.Delete(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Note %d deleted.", id), nil
}

func searchNotes(s *Session, args []string) (string, error) {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return "", apperr.Validationf("search query cannot be empty")
	}
	ns := s.Notes.Search(query)
	if len(ns) == 0 {
		return "No notes found.", nil
	}
	return notesTable(ns), nil
}

func allNotes(s *Session, _ []string) (string, error) {
	ns := s.Notes.All()
	if len(ns) == 0 {
		return "No notes saved.", nil
	}
	return notesTable(ns), nil
}

func withNote(s *Session, raw string, fn func(n *models.Note) error) (int, error) {
	id, err := parseID(raw)
	if err != nil {
		return 0, err
	}
	n, err := s.Notes.Find(id)
	if err != nil {
		return 0, err
	}
	before := slices.Clone(n.Tags)
	if err := fn(n); err != nil {
		return 0, err
	}
	if !slices.Equal(before, n.Tags) {
		n.EditedAt = s.Now()
	}
	return id, nil
}

func addTag(s *Session, args []string) (string, error) {
	id, err := withNote(s, args[0], func(n *models.Note) error { return n.AddTag(args[1]) })
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tag added to note %d.", id), nil
}

func removeTag(s *Session, args []string) (string, error) {
	id, err := withNote(s, args[0], func(n *models.Note) error { return n.RemoveTag(args[1]) })
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tag removed from note %d.", id), nil
}
