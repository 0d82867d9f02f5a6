// Package storage handles contact persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/addrbook/contacts/internal/contact"
	"go.uber.org/multierr"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadJSONL reads one contact per line. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func ReadJSONL(path string) (*contact.AddressBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening contacts file: %w", err)
	}
	defer f.Close()

	var entries []contact.Entry
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e contact.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading contacts file: %w", err)
	}

	book, err := contact.BookFromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("rebuilding contacts: %w", err)
	}
	return book, nil
}

// WriteJSONL writes every record of book to path, replacing existing content.
func WriteJSONL(path string, book *contact.AddressBook) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating contacts file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	for i, e := range book.Entries() {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding contact %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing contact %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing contacts file: %w", err)
	}
	return nil
}
