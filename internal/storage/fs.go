package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/models"
)

const (
	kindContacts = "contacts"
	kindNotes    = "notes"
)

type contactsDoc struct {
	Kind    string           `json:"kind"`
	SavedAt time.Time        `json:"saved_at"`
	Records []*models.Record `json:"records"`
}

type notesDoc struct {
	Kind    string         `json:"kind"`
	SavedAt time.Time      `json:"saved_at"`
	NextID  int            `json:"next_id"`
	Notes   []*models.Note `json:"notes"`
}

// JSON implements Store with one JSON document per book.
type JSON struct{}

// NewJSON creates a JSON snapshot store.
func NewJSON() *JSON { return &JSON{} }

// SaveContacts writes every record of b to path.
func (JSON) SaveContacts(path string, b *book.AddressBook) error {
	return writeJSON(path, contactsDoc{Kind: kindContacts, SavedAt: time.Now(), Records: b.All()})
}

// LoadContacts reads an address book from path.
func (JSON) LoadContacts(path string) (*book.AddressBook, error) {
	b := book.NewAddressBook()
	var doc contactsDoc
	found, err := readJSON(path, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return b, nil
	}
	if doc.Kind != kindContacts {
		return nil, corrupt(path, fmt.Errorf("kind is %q, want %q", doc.Kind, kindContacts))
	}
	for _, r := range doc.Records {
		if r == nil || r.Name == "" {
			return nil, corrupt(path, errors.New("record without name"))
		}
		if _, err := b.Find(string(r.Name)); err == nil {
			return nil, corrupt(path, fmt.Errorf("duplicate contact %q", r.Name))
		}
		b.Add(r)
	}
	return b, nil
}

// SaveNotes writes every note of b to path.
func (JSON) SaveNotes(path string, b *book.NotesBook) error {
	return writeJSON(path, notesDoc{Kind: kindNotes, SavedAt: time.Now(), NextID: b.NextID(), Notes: b.All()})
}

// LoadNotes reads a notes book from path.
func (JSON) LoadNotes(path string) (*book.NotesBook, error) {
	var doc notesDoc
	found, err := readJSON(path, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return book.NewNotesBook(), nil
	}
	if doc.Kind != kindNotes {
		return nil, corrupt(path, fmt.Errorf("kind is %q, want %q", doc.Kind, kindNotes))
	}
	for _, n := range doc.Notes {
		if n == nil {
			return nil, corrupt(path, errors.New("null note"))
		}
		if err := n.SetTitle(n.Title); err != nil {
			return nil, corrupt(path, err)
		}
		if err := n.SetTags(n.Tags); err != nil {
			return nil, corrupt(path, err)
		}
	}
	b, err := book.RestoreNotesBook(doc.Notes, doc.NextID)
	if err != nil {
		return nil, corrupt(path, err)
	}
	return b, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", path, err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// readJSON decodes path into v. found is false when the file does not exist.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, corrupt(path, err)
	}
	return true, nil
}

// writeAtomic writes content next to path, fsyncs it and renames it into place.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".kith-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
