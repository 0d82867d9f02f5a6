package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/addrbook/contacts/internal/contact"
	"github.com/addrbook/contacts/internal/snapshot"
	"go.uber.org/zap"
)

type command struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(s *Session, args []string) (string, error)
}

var commands = map[string]command{
	"hello":    {usage: "hello", run: (*Session).hello},
	"add":      {usage: "add <name> <phone>", minArgs: 2, maxArgs: 2, run: (*Session).add},
	"change":   {usage: "change <name> [<old phone>] <new phone>", minArgs: 2, maxArgs: 3, run: (*Session).change},
	"phone":    {usage: "phone <name>", minArgs: 1, maxArgs: 1, run: (*Session).phone},
	"show all": {usage: "show all", run: (*Session).showAll},
	"search":   {usage: "search <query>", minArgs: 1, maxArgs: 1, run: (*Session).search},
	"delete":   {usage: "delete <name>", minArgs: 1, maxArgs: 1, run: (*Session).remove},
	"email":    {usage: "email <name> <address>", minArgs: 2, maxArgs: 2, run: (*Session).email},
	"birthday": {usage: "birthday <name> [YYYY-MM-DD]", minArgs: 1, maxArgs: 2, run: (*Session).birthday},
	"save":     {usage: "save <filename>", minArgs: 1, maxArgs: 1, run: (*Session).save},
	"load":     {usage: "load <filename>", minArgs: 1, maxArgs: 1, run: (*Session).load},
}

// errUnknownContact is returned for commands naming a contact that is not in
// the book.
type errUnknownContact string

func (e errUnknownContact) Error() string { return fmt.Sprintf("contact %s not found", string(e)) }

func (s *Session) lookup(name string) (*contact.Record, error) {
	r := s.book.Find(name)
	if r == nil {
		return nil, errUnknownContact(name)
	}
	return r, nil
}

func (s *Session) hello([]string) (string, error) {
	return "How can I help you?", nil
}

// add appends a phone to an existing contact or creates the contact.
func (s *Session) add(args []string) (string, error) {
	name, number := args[0], args[1]

	if r := s.book.Find(name); r != nil {
		if err := r.AddPhone(number); err != nil {
			return "", err
		}
		return fmt.Sprintf("Added phone %s to %s", number, name), nil
	}

	r, err := contact.NewRecord(name, "")
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(number); err != nil {
		return "", err
	}
	s.book.AddRecord(r)
	return fmt.Sprintf("Added %s with phone %s", name, number), nil
}

// change replaces a phone. With only the new number, the contact's first
// phone is replaced, or the number is added if the contact has none.
func (s *Session) change(args []string) (string, error) {
	r, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}

	var from, to string
	if len(args) == 3 {
		from, to = args[1], args[2]
	} else {
		to = args[1]
		phones := r.Phones()
		if len(phones) == 0 {
			if err := r.AddPhone(to); err != nil {
				return "", err
			}
			return fmt.Sprintf("Changed phone for %s to %s", r.Name(), to), nil
		}
		from = phones[0]
	}

	if err := r.EditPhone(from, to); err != nil {
		return "", err
	}
	return fmt.Sprintf("Changed phone for %s to %s", r.Name(), to), nil
}

func (s *Session) phone(args []string) (string, error) {
	r, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}
	phones := r.Phones()
	if len(phones) == 0 {
		return fmt.Sprintf("%s has no phone numbers", r.Name()), nil
	}
	return fmt.Sprintf("The phone for %s is %s", r.Name(), strings.Join(phones, ", ")), nil
}

func (s *Session) showAll([]string) (string, error) {
	if s.book.Len() == 0 {
		return "Phone book is empty", nil
	}

	var sb strings.Builder
	n := 0
	for page := range s.book.Paginate() {
		n++
		if n > 1 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "-- page %d --\n", n)
		for _, r := range page {
			sb.WriteString(formatRecord(r))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func (s *Session) search(args []string) (string, error) {
	matches := s.book.Search(args[0])
	if len(matches) == 0 {
		return "No matching contacts found.", nil
	}
	lines := make([]string, len(matches))
	for i, r := range matches {
		lines[i] = formatRecord(r)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Session) remove(args []string) (string, error) {
	if _, err := s.lookup(args[0]); err != nil {
		return "", err
	}
	s.book.Delete(args[0])
	return fmt.Sprintf("Deleted %s", args[0]), nil
}

func (s *Session) email(args []string) (string, error) {
	r, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}
	if err := r.AddEmail(args[1]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added email %s to %s", args[1], r.Name()), nil
}

func (s *Session) birthday(args []string) (string, error) {
	r, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}

	if len(args) == 2 {
		if err := r.SetBirthday(args[1]); err != nil {
			return "", err
		}
	}

	msg, err := r.DaysToBirthday(s.now())
	if errors.Is(err, contact.ErrInvalidDate) && len(args) == 2 {
		// The birthday is stored; only the countdown is unavailable.
		return fmt.Sprintf("Birthday for %s set to %s, which is not a real calendar date", r.Name(), args[1]), nil
	}
	if err != nil {
		return "", err
	}
	if msg == "" {
		return fmt.Sprintf("%s has no birthday set", r.Name()), nil
	}
	return msg, nil
}

func (s *Session) save(args []string) (string, error) {
	path := args[0]
	if err := snapshot.Save(s.book, path); err != nil {
		return "", err
	}
	s.log.Info("saved contacts", zap.String("path", path), zap.Int("records", s.book.Len()))
	return fmt.Sprintf("Phone book saved to %s", path), nil
}

// load replaces the book's contents with the file's. A missing file leaves
// the book as it was.
func (s *Session) load(args []string) (string, error) {
	path := args[0]
	loaded, err := snapshot.Load(path)
	if err != nil {
		return "", err
	}
	s.book.Replace(loaded)
	s.log.Info("loaded contacts", zap.String("path", path), zap.Int("records", s.book.Len()))
	return fmt.Sprintf("Phone book loaded from %s", path), nil
}

// formatRecord renders one contact on a line.
func formatRecord(r *contact.Record) string {
	var sb strings.Builder
	sb.WriteString(r.Name())
	sb.WriteString(": ")
	if phones := r.Phones(); len(phones) > 0 {
		sb.WriteString(strings.Join(phones, ", "))
	} else {
		sb.WriteString("no phones")
	}
	if emails := r.Emails(); len(emails) > 0 {
		sb.WriteString("; ")
		sb.WriteString(strings.Join(emails, ", "))
	}
	if b, ok := r.Birthday(); ok {
		sb.WriteString("; born ")
		sb.WriteString(b)
	}
	return sb.String()
}

// describe turns an error from the store into a one-line message.
func describe(err error) string {
	var (
		verr    *contact.ValidationError
		nf      *contact.NotFoundError
		unknown errUnknownContact
		ioErr   *snapshot.IOError
	)
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s format: %q", verr.Kind, verr.Value)
	case errors.As(err, &nf):
		return fmt.Sprintf("No %s %s in the record", nf.Kind, nf.Value)
	case errors.As(err, &unknown):
		return fmt.Sprintf("Contact %s not found", string(unknown))
	case errors.Is(err, snapshot.ErrNotFound):
		return "File not found"
	case errors.Is(err, contact.ErrInvalidDate):
		return "Birthday is not a real calendar date"
	case errors.As(err, &ioErr):
		return fmt.Sprintf("Could not %s %s: %v", ioErr.Op, ioErr.Path, ioErr.Err)
	default:
		return "Error: " + err.Error()
	}
}
