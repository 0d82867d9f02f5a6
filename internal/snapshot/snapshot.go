// Package snapshot saves and restores an AddressBook. The format is chosen
// from the file extension: SQLite for .db and .sqlite, JSON lines for .jsonl,
// and a protobuf blob for everything else.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/addrbook/contacts/internal/contact"
)

// ErrNotFound is returned by Load when the source file does not exist.
// Callers usually fall back to an empty book.
var ErrNotFound = errors.New("snapshot not found")

// IOError reports a failure to read or write a snapshot file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Codec persists a whole AddressBook to a path.
type Codec interface {
	// Save writes every record, replacing whatever is at path.
	Save(book *contact.AddressBook, path string) error
	// Load rebuilds a book from path. A missing path yields ErrNotFound.
	Load(path string) (*contact.AddressBook, error)
}

// Format names a snapshot encoding.
type Format string

const (
	FormatBlob   Format = "blob"
	FormatSQLite Format = "sqlite"
	FormatJSONL  Format = "jsonl"
)

// FormatFor picks the format for a file name by its extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	case ".jsonl":
		return FormatJSONL
	default:
		return FormatBlob
	}
}

// ForPath returns the codec for path.
func ForPath(path string) Codec {
	switch FormatFor(path) {
	case FormatSQLite:
		return SQLite{}
	case FormatJSONL:
		return JSONL{}
	default:
		return Blob{}
	}
}

// Save writes book to path using the codec chosen by ForPath.
func Save(book *contact.AddressBook, path string) error {
	return ForPath(path).Save(book, path)
}

// Load reads the book at path using the codec chosen by ForPath.
func Load(path string) (*contact.AddressBook, error) {
	return ForPath(path).Load(path)
}

// classify turns a backend error into the package's taxonomy: a missing file
// on read becomes ErrNotFound, validation failures pass through, and other
// errors are wrapped in an IOError.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if op == "read" && errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if errors.Is(err, contact.ErrValidation) {
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
	return &IOError{Op: op, Path: path, Err: err}
}
