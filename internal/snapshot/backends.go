package snapshot

import (
	"os"

	"github.com/addrbook/contacts/internal/contact"
	"github.com/addrbook/contacts/internal/storage"
	"go.uber.org/multierr"
)

// SQLite stores the book in a SQLite database file.
type SQLite struct{}

// Save implements Codec. The database is built in a fresh file and moved
// into place, so an existing file at path is replaced rather than merged.
func (SQLite) Save(book *contact.AddressBook, path string) error {
	err := replaceFile(path, func(tmp string) (err error) {
		db, err := storage.OpenDB(tmp)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, db.Close())
		}()
		return db.WriteBook(book)
	})
	return classify("write", path, err)
}

// Load implements Codec.
func (SQLite) Load(path string) (book *contact.AddressBook, err error) {
	// OpenDB would create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, classify("read", path, err)
	}

	db, err := storage.OpenDB(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	defer func() {
		err = multierr.Append(err, classify("read", path, db.Close()))
	}()

	book, err = db.ReadBook()
	if err != nil {
		return nil, classify("read", path, err)
	}
	return book, nil
}

// JSONL stores one JSON object per record.
type JSONL struct{}

// Save implements Codec.
func (JSONL) Save(book *contact.AddressBook, path string) error {
	err := replaceFile(path, func(tmp string) error {
		return storage.WriteJSONL(tmp, book)
	})
	return classify("write", path, err)
}

// Load implements Codec.
func (JSONL) Load(path string) (*contact.AddressBook, error) {
	book, err := storage.ReadJSONL(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	return book, nil
}
