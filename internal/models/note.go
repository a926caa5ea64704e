package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kith/internal/apperr"
)

var (
	titleRules = []validation.Rule{validation.Required.Error("title cannot be empty")}
	tagRules   = []validation.Rule{validation.Required.Error("tag cannot be empty")}
)

// Note is a titled, tagged text entry. ID is assigned by the NotesBook.
type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	EditedAt  time.Time `json:"edited_at"`
}

// NewNote creates a note with a deduplicated tag set.
func NewNote(title, text string, tags []string, now time.Time) (*Note, error) {
	if err := check(title, titleRules); err != nil {
		return nil, err
	}
	n := &Note{
		Title:     strings.TrimSpace(title),
		Text:      text,
		CreatedAt: now,
		EditedAt:  now,
	}
	if err := n.SetTags(tags); err != nil {
		return nil, err
	}
	return n, nil
}

// SetTitle validates and replaces the title.
func (n *Note) SetTitle(title string) error {
	if err := check(title, titleRules); err != nil {
		return err
	}
	n.Title = strings.TrimSpace(title)
	return nil
}

// SetTags replaces the tag set.
func (n *Note) SetTags(tags []string) error {
	set := make([]string, 0, len(tags))
	for _, raw := range tags {
		t, err := normalizeTag(raw)
		if err != nil {
			return err
		}
		if !slices.Contains(set, t) {
			set = append(set, t)
		}
	}
	slices.Sort(set)
	n.Tags = set
	return nil
}

// AddTag inserts the tag unless already present.
func (n *Note) AddTag(raw string) error {
	t, err := normalizeTag(raw)
	if err != nil {
		return err
	}
	if n.HasTag(t) {
		return nil
	}
	n.Tags = append(n.Tags, t)
	slices.Sort(n.Tags)
	return nil
}

// RemoveTag removes the tag, failing if the note does not carry it.
func (n *Note) RemoveTag(raw string) error {
	t := strings.TrimSpace(raw)
	if !n.HasTag(t) {
		return apperr.NotFoundf("tag %q not present on note %d", t, n.ID)
	}
	n.Tags = slices.DeleteFunc(n.Tags, func(s string) bool { return s == t })
	return nil
}

// HasTag reports whether the note carries tag.
func (n *Note) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// Matches reports whether query is a case-insensitive substring of title, text or a tag.
func (n *Note) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Text), q) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), q)
	})
}

func (n *Note) String() string {
	tags := strings.Join(n.Tags, ", ")
	if tags == "" {
		tags = "No tags"
	}
	return fmt.Sprintf("ID: %d\nTitle: %s\nText: %s\nTags: %s\nCreated: %s\nEdited: %s",
		n.ID, n.Title, n.Text, tags,
		n.CreatedAt.Format("02.01.2006 15:04:05"), n.EditedAt.Format("02.01.2006 15:04:05"))
}

func normalizeTag(raw string) (string, error) {
	if err := check(raw, tagRules); err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}
