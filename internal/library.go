package internal

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/command"
	"github.com/starford/kith/internal/storage"
	"github.com/starford/kith/internal/watch"
)

// library owns both books and their snapshot files.
type library struct {
	store   storage.Store
	cfg     StorageConfig
	watcher *watch.Watcher
	logger  *slog.Logger

	mu       sync.Mutex
	contacts *book.AddressBook
	notes    *book.NotesBook
}

// openLibrary loads both books. Missing snapshots give empty books; corrupt
// ones are an error so that nothing gets silently overwritten.
func openLibrary(store storage.Store, cfg StorageConfig, watcher *watch.Watcher, logger *slog.Logger) (*library, error) {
	contacts, err := store.LoadContacts(cfg.ContactsPath)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	notes, err := store.LoadNotes(cfg.NotesPath)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	l := &library{
		store:    store,
		cfg:      cfg,
		watcher:  watcher,
		logger:   logger,
		contacts: contacts,
		notes:    notes,
	}
	if err := l.track(); err != nil {
		return nil, err
	}

	logger.Info("Snapshots loaded",
		slog.Int("contacts", contacts.Len()),
		slog.Int("notes", notes.Len()),
		slog.String("contacts_path", cfg.ContactsPath),
		slog.String("notes_path", cfg.NotesPath))
	return l, nil
}

// Save writes both books. Each file is re-tracked as soon as it is written
// so the watcher never compares a fresh file against a stale checksum.
func (l *library) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.SaveContacts(l.cfg.ContactsPath, l.contacts); err != nil {
		return fmt.Errorf("save contacts: %w", err)
	}
	l.retrack(l.cfg.ContactsPath)
	if err := l.store.SaveNotes(l.cfg.NotesPath, l.notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	l.retrack(l.cfg.NotesPath)
	l.logger.Debug("Snapshots saved",
		slog.Int("contacts", l.contacts.Len()),
		slog.Int("notes", l.notes.Len()))
	return nil
}

func (l *library) retrack(path string) {
	if l.watcher == nil {
		return
	}
	if err := l.watcher.Track(path); err != nil {
		l.logger.Warn("checksum after save failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func (l *library) track() error {
	if l.watcher == nil {
		return nil
	}
	if err := l.watcher.Track(l.cfg.ContactsPath); err != nil {
		return err
	}
	return l.watcher.Track(l.cfg.NotesPath)
}

// session returns a command session bound to the library.
func (l *library) session(days int) *command.Session {
	s := command.NewSession(l.contacts, l.notes)
	s.Save = l.Save
	s.UpcomingDays = days
	return s
}
