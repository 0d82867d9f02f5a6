package contact

// Entry is the plain-data form of a Record, used by the persistence backends
// and for JSON output.
type Entry struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones,omitempty"`
	Emails   []string `json:"emails,omitempty"`
	Birthday string   `json:"birthday,omitempty"`
}

// Entry returns the record's values.
func (r *Record) Entry() Entry {
	e := Entry{Name: r.Name()}
	if len(r.phones) > 0 {
		e.Phones = r.Phones()
	}
	if len(r.emails) > 0 {
		e.Emails = r.Emails()
	}
	e.Birthday, _ = r.Birthday()
	return e
}

// Record rebuilds a Record through the validating constructors, so an entry
// read from an untrusted source cannot produce a record that breaks a field
// invariant.
func (e Entry) Record() (*Record, error) {
	r, err := NewRecord(e.Name, e.Birthday)
	if err != nil {
		return nil, err
	}
	for _, p := range e.Phones {
		if err := r.AddPhone(p); err != nil {
			return nil, err
		}
	}
	for _, m := range e.Emails {
		if err := r.AddEmail(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// BookFromEntries builds an AddressBook from entries in order. Later entries
// with a repeated name replace earlier ones.
func BookFromEntries(entries []Entry) (*AddressBook, error) {
	b := NewAddressBook()
	for _, e := range entries {
		r, err := e.Record()
		if err != nil {
			return nil, err
		}
		b.AddRecord(r)
	}
	return b, nil
}

// Entries returns the book's records as entries in iteration order.
func (b *AddressBook) Entries() []Entry {
	entries := make([]Entry, 0, len(b.order))
	for _, name := range b.order {
		entries = append(entries, b.records[name].Entry())
	}
	return entries
}
