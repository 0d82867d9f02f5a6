package snapshot

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/addrbook/contacts/internal/contact"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrCorrupt is returned when a blob decodes but does not have the expected
// shape.
var ErrCorrupt = errors.New("corrupt snapshot")

// Blob stores the book as a serialized google.protobuf.Struct of the form
//
//	{"contacts": {name: {"name", "phones", "emails", "birthday"}}, "order": [name...]}
//
// The well-known Struct type carries its own field names, so no schema is
// needed to read a file back. "order" restores iteration order; a blob without
// it loads in name order.
type Blob struct{}

// Save implements Codec.
func (Blob) Save(book *contact.AddressBook, path string) error {
	data, err := Encode(book)
	if err != nil {
		return err
	}
	return classify("write", path, writeFileAtomic(path, data))
}

// Load implements Codec.
func (Blob) Load(path string) (*contact.AddressBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	book, err := Decode(data)
	if err != nil {
		return nil, classify("decode", path, err)
	}
	return book, nil
}

// Encode serializes book. Output is deterministic for a given book.
func Encode(book *contact.AddressBook) ([]byte, error) {
	entries := book.Entries()
	contacts := make(map[string]any, len(entries))
	order := make([]any, 0, len(entries))
	for _, e := range entries {
		var birthday any
		if e.Birthday != "" {
			birthday = e.Birthday
		}
		contacts[e.Name] = map[string]any{
			"name":     e.Name,
			"phones":   anyList(e.Phones),
			"emails":   anyList(e.Emails),
			"birthday": birthday,
		}
		order = append(order, e.Name)
	}

	s, err := structpb.NewStruct(map[string]any{
		"contacts": contacts,
		"order":    order,
	})
	if err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode rebuilds a book from Encode's output. Every value goes back through
// the validating constructors.
func Decode(data []byte) (*contact.AddressBook, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	root := s.AsMap()
	contacts, ok := root["contacts"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: no contacts mapping", ErrCorrupt)
	}

	names := orderedNames(root["order"], contacts)
	entries := make([]contact.Entry, 0, len(names))
	for _, name := range names {
		e, err := decodeEntry(name, contacts[name])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return contact.BookFromEntries(entries)
}

// orderedNames lists the names from order that exist in contacts, followed by
// any remaining names sorted.
func orderedNames(order any, contacts map[string]any) []string {
	names := make([]string, 0, len(contacts))
	seen := make(map[string]bool, len(contacts))

	list, _ := order.([]any)
	for _, v := range list {
		name, ok := v.(string)
		if !ok || seen[name] {
			continue
		}
		if _, exists := contacts[name]; exists {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range contacts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func decodeEntry(key string, v any) (contact.Entry, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return contact.Entry{}, fmt.Errorf("%w: contact %q is not a mapping", ErrCorrupt, key)
	}

	e := contact.Entry{Name: key}
	if name, present := m["name"]; present && name != key {
		return contact.Entry{}, fmt.Errorf("%w: contact %q stored under key %q", ErrCorrupt, name, key)
	}

	var err error
	if e.Phones, err = stringList(key, "phones", m["phones"]); err != nil {
		return contact.Entry{}, err
	}
	if e.Emails, err = stringList(key, "emails", m["emails"]); err != nil {
		return contact.Entry{}, err
	}

	switch b := m["birthday"].(type) {
	case nil:
	case string:
		e.Birthday = b
	default:
		return contact.Entry{}, fmt.Errorf("%w: contact %q birthday is %T", ErrCorrupt, key, b)
	}
	return e, nil
}

func stringList(key, field string, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: contact %q %s is %T", ErrCorrupt, key, field, v)
	}
	var out []string
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: contact %q %s holds %T", ErrCorrupt, key, field, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func anyList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
