package contact

import (
	"fmt"
	"time"
)

// DateLayout is the stored birthday layout.
const DateLayout = "2006-01-02"

// Record is one contact. The name is the record's key in an AddressBook and
// never changes after construction.
type Record struct {
	name     *Field
	phones   []*Field
	emails   []*Field
	birthday *Field
}

// NewRecord creates a record. An empty birthday means none is set.
func NewRecord(name, birthday string) (*Record, error) {
	n, err := NewField(KindName, name)
	if err != nil {
		return nil, err
	}
	r := &Record{name: n}
	if birthday != "" {
		b, err := NewField(KindBirthday, birthday)
		if err != nil {
			return nil, err
		}
		r.birthday = b
	}
	return r, nil
}

// Name returns the record's key.
func (r *Record) Name() string { return r.name.value }

// Phones returns the phone values in insertion order.
func (r *Record) Phones() []string { return values(r.phones) }

// Emails returns the email values in insertion order.
func (r *Record) Emails() []string { return values(r.emails) }

// Birthday returns the stored birthday and whether one is set.
func (r *Record) Birthday() (string, bool) {
	if r.birthday == nil {
		return "", false
	}
	return r.birthday.value, true
}

func values(fields []*Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.value
	}
	return out
}

// AddPhone appends a phone number.
func (r *Record) AddPhone(v string) error {
	f, err := NewField(KindPhone, v)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, f)
	return nil
}

// AddEmail appends an email address.
func (r *Record) AddEmail(v string) error {
	f, err := NewField(KindEmail, v)
	if err != nil {
		return err
	}
	r.emails = append(r.emails, f)
	return nil
}

// EditPhone replaces every phone equal to from with to.
// to is validated before the search; a *NotFoundError is returned when no
// phone equals from.
func (r *Record) EditPhone(from, to string) error {
	return edit(r.phones, KindPhone, from, to)
}

// EditEmail replaces every email equal to from with to.
func (r *Record) EditEmail(from, to string) error {
	return edit(r.emails, KindEmail, from, to)
}

func edit(fields []*Field, kind Kind, from, to string) error {
	if err := kind.Validate(to); err != nil {
		return err
	}

	var matched []*Field
	for _, f := range fields {
		if f.value == from {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return &NotFoundError{Kind: kind, Value: from}
	}

	for _, f := range matched {
		f.value = to
	}
	return nil
}

// RemovePhone drops every phone equal to v. Removing an absent phone is a
// no-op.
func (r *Record) RemovePhone(v string) {
	r.phones = without(r.phones, v)
}

// RemoveEmail drops every email equal to v.
func (r *Record) RemoveEmail(v string) {
	r.emails = without(r.emails, v)
}

func without(fields []*Field, v string) []*Field {
	kept := fields[:0:0]
	for _, f := range fields {
		if f.value != v {
			kept = append(kept, f)
		}
	}
	return kept
}

// FindPhone returns the first phone equal to v, or nil.
func (r *Record) FindPhone(v string) *Field {
	return find(r.phones, v)
}

// FindEmail returns the first email equal to v, or nil.
func (r *Record) FindEmail(v string) *Field {
	return find(r.emails, v)
}

func find(fields []*Field, v string) *Field {
	for _, f := range fields {
		if f.value == v {
			return f
		}
	}
	return nil
}

// SetBirthday sets or replaces the birthday.
func (r *Record) SetBirthday(v string) error {
	if r.birthday == nil {
		b, err := NewField(KindBirthday, v)
		if err != nil {
			return err
		}
		r.birthday = b
		return nil
	}
	return r.birthday.Set(v)
}

// ClearBirthday removes the birthday.
func (r *Record) ClearBirthday() {
	r.birthday = nil
}

// DaysUntilBirthday returns the number of whole days from now's calendar date
// to the next occurrence of the birthday. A birthday falling today is 0 days
// away. ok is false when no birthday is set.
//
// A Feb 29 birthday is observed on Mar 1 in non-leap years.
func (r *Record) DaysUntilBirthday(now time.Time) (days int, ok bool, err error) {
	if r.birthday == nil {
		return 0, false, nil
	}

	born, err := time.Parse(DateLayout, r.birthday.value)
	if err != nil {
		return 0, true, fmt.Errorf("%w: birthday %q", ErrInvalidDate, r.birthday.value)
	}

	// Compare calendar dates in UTC so neither time of day nor DST shifts
	// the count.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(today.Year(), born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	}

	return int(next.Sub(today).Hours() / 24), true, nil
}

// DaysToBirthday renders DaysUntilBirthday as a sentence. It returns an empty
// string when no birthday is set.
func (r *Record) DaysToBirthday(now time.Time) (string, error) {
	days, ok, err := r.DaysUntilBirthday(now)
	if err != nil || !ok {
		return "", err
	}
	return fmt.Sprintf("There are %d days to next birthday.", days), nil
}
