package contact

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// DefaultPageSize is the number of records per page for a new AddressBook.
const DefaultPageSize = 10

// AddressBook stores records keyed by name. Iteration order is the order in
// which names were first added; overwriting a record keeps its position.
//
// An AddressBook is not safe for concurrent use. Hosts that share one across
// goroutines must guard it themselves.
type AddressBook struct {
	records  map[string]*Record
	order    []string
	pageSize int
}

// NewAddressBook returns an empty book with the default page size.
func NewAddressBook() *AddressBook {
	return &AddressBook{
		records:  make(map[string]*Record),
		pageSize: DefaultPageSize,
	}
}

// PageSize returns the maximum number of records per page.
func (b *AddressBook) PageSize() int { return b.pageSize }

// SetPageSize changes the page size used by Paginate.
func (b *AddressBook) SetPageSize(n int) error {
	if n < 1 {
		return fmt.Errorf("page size must be positive, got %d", n)
	}
	b.pageSize = n
	return nil
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.order) }

// AddRecord stores r under its name, replacing any record with that name.
func (b *AddressBook) AddRecord(r *Record) {
	name := r.Name()
	if _, exists := b.records[name]; !exists {
		b.order = append(b.order, name)
	}
	b.records[name] = r
}

// Find returns the record with the given name, or nil.
func (b *AddressBook) Find(name string) *Record {
	return b.records[name]
}

// Delete removes the named record. Deleting an absent name is a no-op.
func (b *AddressBook) Delete(name string) {
	if _, exists := b.records[name]; !exists {
		return
	}
	delete(b.records, name)
	if i := slices.Index(b.order, name); i >= 0 {
		b.order = slices.Delete(b.order, i, i+1)
	}
}

// Names returns the record names in iteration order.
func (b *AddressBook) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Records returns every record in iteration order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, len(b.order))
	for i, name := range b.order {
		out[i] = b.records[name]
	}
	return out
}

// Replace discards the book's records and takes over other's. The page size
// is left unchanged.
func (b *AddressBook) Replace(other *AddressBook) {
	b.records = make(map[string]*Record, len(other.order))
	b.order = make([]string, 0, len(other.order))
	for _, name := range other.order {
		b.records[name] = other.records[name]
		b.order = append(b.order, name)
	}
}

// Search returns the records whose name, or any of whose phones, contains
// query. Matching is case-sensitive.
func (b *AddressBook) Search(query string) []*Record {
	var matches []*Record
	for _, name := range b.order {
		r := b.records[name]
		if strings.Contains(name, query) || phoneContains(r, query) {
			matches = append(matches, r)
		}
	}
	return matches
}

func phoneContains(r *Record, query string) bool {
	for _, p := range r.phones {
		if strings.Contains(p.value, query) {
			return true
		}
	}
	return false
}

// Paginate yields successive pages of at most PageSize records until every
// record has been produced. Each page is read from the book as it stands when
// the page is produced, so callers must not mutate the book mid-iteration.
func (b *AddressBook) Paginate() iter.Seq[[]*Record] {
	return func(yield func([]*Record) bool) {
		for start := 0; start < len(b.order); start += b.pageSize {
			end := min(start+b.pageSize, len(b.order))
			page := make([]*Record, 0, end-start)
			for _, name := range b.order[start:end] {
				page = append(page, b.records[name])
			}
			if !yield(page) {
				return
			}
		}
	}
}
