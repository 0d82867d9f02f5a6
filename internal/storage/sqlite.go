package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/addrbook/contacts/internal/contact"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding a contacts snapshot.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS contacts (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			birthday TEXT
		);

		CREATE TABLE IF NOT EXISTS phones (
			contact TEXT NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS emails (
			contact TEXT NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_phones_contact ON phones(contact);
		CREATE INDEX IF NOT EXISTS idx_emails_contact ON emails(contact);
	`

	_, err := db.Exec(schema)
	return err
}

// WriteBook replaces the stored contacts with book's records. The rewrite
// happens in one transaction, so a failure leaves the previous snapshot.
func (d *DB) WriteBook(book *contact.AddressBook) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); !errors.Is(rbErr, sql.ErrTxDone) {
			err = multierr.Append(err, rbErr)
		}
	}()

	for _, table := range []string{"phones", "emails", "contacts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	contactStmt, err := tx.Prepare(`INSERT INTO contacts (name, position, birthday) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing contacts insert: %w", err)
	}
	defer contactStmt.Close()

	phoneStmt, err := tx.Prepare(`INSERT INTO phones (contact, position, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing phones insert: %w", err)
	}
	defer phoneStmt.Close()

	emailStmt, err := tx.Prepare(`INSERT INTO emails (contact, position, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing emails insert: %w", err)
	}
	defer emailStmt.Close()

	for i, e := range book.Entries() {
		if _, err := contactStmt.Exec(e.Name, i, nullableStringValue(e.Birthday)); err != nil {
			return fmt.Errorf("inserting contact %s: %w", e.Name, err)
		}
		for j, p := range e.Phones {
			if _, err := phoneStmt.Exec(e.Name, j, p); err != nil {
				return fmt.Errorf("inserting phone for %s: %w", e.Name, err)
			}
		}
		for j, m := range e.Emails {
			if _, err := emailStmt.Exec(e.Name, j, m); err != nil {
				return fmt.Errorf("inserting email for %s: %w", e.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing contacts: %w", err)
	}
	return nil
}

// ReadBook rebuilds an AddressBook from the stored snapshot, preserving the
// saved record order.
func (d *DB) ReadBook() (*contact.AddressBook, error) {
	rows, err := d.db.Query(`SELECT name, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var entries []contact.Entry
	index := make(map[string]int)
	for rows.Next() {
		var name string
		var birthday sql.NullString
		if err := rows.Scan(&name, &birthday); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		index[name] = len(entries)
		entries = append(entries, contact.Entry{Name: name, Birthday: birthday.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}

	if err := d.readValues("phones", entries, index, func(e *contact.Entry, v string) {
		e.Phones = append(e.Phones, v)
	}); err != nil {
		return nil, err
	}
	if err := d.readValues("emails", entries, index, func(e *contact.Entry, v string) {
		e.Emails = append(e.Emails, v)
	}); err != nil {
		return nil, err
	}

	book, err := contact.BookFromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("rebuilding contacts: %w", err)
	}
	return book, nil
}

// readValues loads a phones or emails table into the matching entries.
func (d *DB) readValues(table string, entries []contact.Entry, index map[string]int, add func(*contact.Entry, string)) error {
	rows, err := d.db.Query(`SELECT contact, value FROM ` + table + ` ORDER BY contact, position`)
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("scanning %s: %w", table, err)
		}
		i, ok := index[name]
		if !ok {
			return fmt.Errorf("%s row references unknown contact %q", table, name)
		}
		add(&entries[i], value)
	}
	return rows.Err()
}

// Count returns the number of stored contacts.
func (d *DB) Count() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting contacts: %w", err)
	}
	return count, nil
}

// nullableStringValue returns nil for empty strings.
func nullableStringValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
