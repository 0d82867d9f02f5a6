// Package contact defines the contact directory domain: validated fields,
// records and the name-keyed address book.
package contact

import (
	"regexp"
)

// Kind identifies which format invariant a Field carries.
type Kind int

const (
	KindName Kind = iota
	KindPhone
	KindEmail
	KindBirthday
)

// PhoneLength is the exact number of digits in a phone number.
const PhoneLength = 10

// EmailPattern finds an address anywhere in the value; a match is enough.
// Word characters after the leading letters include any Unicode letter or
// digit, so "josé@example.com" and "anna@exämple.com" are accepted.
var EmailPattern = regexp.MustCompile(`[A-Za-z]+[.\p{L}\p{N}_]+@[\p{L}\p{N}_]+\.[\p{L}\p{N}_]{2,}`)

// BirthdayPattern is checked against the whole value. It does not check that
// the date exists on the calendar.
var BirthdayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindPhone:
		return "phone"
	case KindEmail:
		return "email"
	case KindBirthday:
		return "birthday"
	default:
		return "unknown"
	}
}

// Validate reports whether raw satisfies the invariant of kind k.
// It returns a *ValidationError on failure.
func (k Kind) Validate(raw string) error {
	var ok bool
	switch k {
	case KindName:
		ok = raw != ""
	case KindPhone:
		ok = isPhone(raw)
	case KindEmail:
		ok = EmailPattern.MatchString(raw)
	case KindBirthday:
		ok = BirthdayPattern.MatchString(raw)
	}
	if !ok {
		return &ValidationError{Kind: k, Value: raw}
	}
	return nil
}

func isPhone(s string) bool {
	if len(s) != PhoneLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Field is a single string value that always satisfies its kind's invariant.
type Field struct {
	kind  Kind
	value string
}

// NewField validates raw against kind and wraps it.
func NewField(kind Kind, raw string) (*Field, error) {
	if err := kind.Validate(raw); err != nil {
		return nil, err
	}
	return &Field{kind: kind, value: raw}, nil
}

// Kind returns the field's kind.
func (f *Field) Kind() Kind { return f.kind }

// Value returns the current value.
func (f *Field) Value() string { return f.value }

func (f *Field) String() string { return f.value }

// Set replaces the value. The old value is kept if v is invalid.
func (f *Field) Set(v string) error {
	if err := f.kind.Validate(v); err != nil {
		return err
	}
	f.value = v
	return nil
}
