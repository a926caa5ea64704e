package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/models"
)

const metaSchemaSQL = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const contactsSchemaSQL = metaSchemaSQL + `
CREATE TABLE contacts (
	name     TEXT PRIMARY KEY,
	birthday TEXT NOT NULL DEFAULT '',
	address  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE phones (
	contact TEXT    NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
	pos     INTEGER NOT NULL,
	value   TEXT    NOT NULL,
	PRIMARY KEY (contact, pos)
);

CREATE TABLE emails (
	contact TEXT    NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
	pos     INTEGER NOT NULL,
	value   TEXT    NOT NULL,
	PRIMARY KEY (contact, pos)
);
`

const notesSchemaSQL = metaSchemaSQL + `
CREATE TABLE notes (
	id         INTEGER PRIMARY KEY,
	title      TEXT NOT NULL,
	text       TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	edited_at  TEXT NOT NULL
);

CREATE TABLE note_tags (
	note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	tag     TEXT    NOT NULL,
	UNIQUE (note_id, tag)
);

CREATE INDEX idx_note_tags_note ON note_tags(note_id);
`

// SQLite implements Store with one SQLite database file per book.
type SQLite struct{}

// NewSQLite creates a SQLite snapshot store.
func NewSQLite() *SQLite { return &SQLite{} }

// SaveContacts writes every record of b into a fresh database at path.
func (SQLite) SaveContacts(path string, b *book.AddressBook) error {
	return writeDB(path, contactsSchemaSQL, kindContacts, func(tx *sql.Tx) error {
		contact, err := tx.Prepare(`INSERT INTO contacts (name, birthday, address) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare contact insert: %w", err)
		}
		defer contact.Close()
		phone, err := tx.Prepare(`INSERT INTO phones (contact, pos, value) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare phone insert: %w", err)
		}
		defer phone.Close()
		email, err := tx.Prepare(`INSERT INTO emails (contact, pos, value) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare email insert: %w", err)
		}
		defer email.Close()

		for _, r := range b.All() {
			if _, err := contact.Exec(string(r.Name), r.BirthdayString(), r.AddressString()); err != nil {
				return fmt.Errorf("insert contact: %w", err)
			}
			for i, p := range r.Phones {
				if _, err := phone.Exec(string(r.Name), i, string(p)); err != nil {
					return fmt.Errorf("insert phone: %w", err)
				}
			}
			for i, e := range r.Emails {
				if _, err := email.Exec(string(r.Name), i, string(e)); err != nil {
					return fmt.Errorf("insert email: %w", err)
				}
			}
		}
		return nil
	})
}

// LoadContacts reads an address book from the database at path.
func (SQLite) LoadContacts(path string) (*book.AddressBook, error) {
	b := book.NewAddressBook()
	found, err := readDB(path, kindContacts, func(conn *sql.DB) error {
		rows, err := conn.Query(`SELECT name, birthday, address FROM contacts ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name, birthday, address string
			if err := rows.Scan(&name, &birthday, &address); err != nil {
				return err
			}
			r, err := models.NewRecord(name)
			if err != nil {
				return err
			}
			if birthday != "" {
				if err := r.AddBirthday(birthday); err != nil {
					return err
				}
			}
			if address != "" {
				if err := r.AddAddress(address); err != nil {
					return err
				}
			}
			b.Add(r)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if err := loadValues(conn, b, `SELECT contact, value FROM phones ORDER BY contact, pos`, (*models.Record).AddPhone); err != nil {
			return err
		}
		return loadValues(conn, b, `SELECT contact, value FROM emails ORDER BY contact, pos`, (*models.Record).AddEmail)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return book.NewAddressBook(), nil
	}
	return b, nil
}

func loadValues(conn *sql.DB, b *book.AddressBook, query string, add func(*models.Record, string) error) error {
	rows, err := conn.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return err
		}
		r, err := b.Find(name)
		if err != nil {
			return err
		}
		if err := add(r, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SaveNotes writes every note of b into a fresh database at path.
func (SQLite) SaveNotes(path string, b *book.NotesBook) error {
	return writeDB(path, notesSchemaSQL, kindNotes, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('next_id', ?)`, fmt.Sprint(b.NextID())); err != nil {
			return fmt.Errorf("insert next id: %w", err)
		}
		note, err := tx.Prepare(`INSERT INTO notes (id, title, text, created_at, edited_at) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare note insert: %w", err)
		}
		defer note.Close()
		tag, err := tx.Prepare(`INSERT OR IGNORE INTO note_tags (note_id, tag) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare tag insert: %w", err)
		}
		defer tag.Close()

		for _, n := range b.All() {
			_, err := note.Exec(n.ID, n.Title, n.Text,
				n.CreatedAt.Format(time.RFC3339Nano), n.EditedAt.Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert note: %w", err)
			}
			for _, t := range n.Tags {
				if _, err := tag.Exec(n.ID, t); err != nil {
					return fmt.Errorf("insert tag: %w", err)
				}
			}
		}
		return nil
	})
}

// LoadNotes reads a notes book from the database at path.
func (SQLite) LoadNotes(path string) (*book.NotesBook, error) {
	var (
		notes  []*models.Note
		nextID int
	)
	found, err := readDB(path, kindNotes, func(conn *sql.DB) error {
		if err := conn.QueryRow(`SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'next_id'`).Scan(&nextID); err != nil {
			return fmt.Errorf("next id: %w", err)
		}

		rows, err := conn.Query(`SELECT id, title, text, created_at, edited_at FROM notes ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		byID := make(map[int]*models.Note)
		for rows.Next() {
			var id int
			var title, text, createdAt, editedAt string
			if err := rows.Scan(&id, &title, &text, &createdAt, &editedAt); err != nil {
				return err
			}
			created, err := time.Parse(time.RFC3339Nano, createdAt)
			if err != nil {
				return err
			}
			edited, err := time.Parse(time.RFC3339Nano, editedAt)
			if err != nil {
				return err
			}
			n, err := models.NewNote(title, text, nil, created)
			if err != nil {
				return err
			}
			n.ID = id
			n.EditedAt = edited
			notes = append(notes, n)
			byID[id] = n
		}
		if err := rows.Err(); err != nil {
			return err
		}

		tagRows, err := conn.Query(`SELECT note_id, tag FROM note_tags ORDER BY note_id, tag`)
		if err != nil {
			return err
		}
		defer tagRows.Close()
		for tagRows.Next() {
			var id int
			var tag string
			if err := tagRows.Scan(&id, &tag); err != nil {
				return err
			}
			n, ok := byID[id]
			if !ok {
				return fmt.Errorf("tag %q for unknown note %d", tag, id)
			}
			if err := n.AddTag(tag); err != nil {
				return err
			}
		}
		return tagRows.Err()
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return book.NewNotesBook(), nil
	}
	b, err := book.RestoreNotesBook(notes, nextID)
	if err != nil {
		return nil, corrupt(path, err)
	}
	return b, nil
}

func openDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	return conn, nil
}

// writeDB builds a new database in a temp file next to path and renames it into place.
func writeDB(path, schema, kind string, fill func(tx *sql.Tx) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".kith-tmp-*.db")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Close()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	conn, err := openDB(tmpName)
	if err != nil {
		return err
	}
	if err := fillDB(conn, schema, kind, fill); err != nil {
		conn.Close()
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("storage: close db: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

func fillDB(conn *sql.DB, schema, kind string, fill func(tx *sql.Tx) error) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('kind', ?)`, kind); err != nil {
		return fmt.Errorf("insert kind: %w", err)
	}
	if err := fill(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// readDB opens the database at path and runs fn against it after checking its
// kind. found is false when the file does not exist.
func readDB(path, kind string, fn func(conn *sql.DB) error) (found bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	conn, err := openDB(path)
	if err != nil {
		return false, corrupt(path, err)
	}
	defer conn.Close()

	var got string
	if err := conn.QueryRow(`SELECT value FROM meta WHERE key = 'kind'`).Scan(&got); err != nil {
		return false, corrupt(path, err)
	}
	if got != kind {
		return false, corrupt(path, fmt.Errorf("kind is %q, want %q", got, kind))
	}
	if err := fn(conn); err != nil {
		return false, corrupt(path, err)
	}
	return true, nil
}
