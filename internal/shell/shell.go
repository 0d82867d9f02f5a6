// Package shell implements the interactive contacts loop: each input line is
// parsed into a call against an AddressBook and answered with a short
// message. Store errors become messages; they never end the loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/addrbook/contacts/internal/contact"
	"go.uber.org/zap"
)

// Prompt is written before each line is read.
const Prompt = "Enter command: "

// MaxLineLength is the longest command line Run accepts (1MB).
const MaxLineLength = 1024 * 1024

// Session holds the book being edited and the loop's collaborators.
type Session struct {
	book *contact.AddressBook
	out  io.Writer
	log  *zap.Logger
	now  func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock sets the clock used for birthday countdowns.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session editing book and writing replies to out.
func New(book *contact.AddressBook, out io.Writer, opts ...Option) *Session {
	s := &Session{
		book: book,
		out:  out,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book returns the book being edited.
func (s *Session) Book() *contact.AddressBook { return s.book }

// Run reads commands from in until a quit command, end of input, or ctx is
// cancelled. Cancellation is noticed between lines. A line longer than
// MaxLineLength ends the session with bufio.ErrTooLong; edits made before it
// stay in Book.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		reply, done := s.Execute(scanner.Text())
		if reply != "" {
			fmt.Fprintln(s.out, reply)
		}
		if done {
			return nil
		}
	}
}

// Execute runs a single command line and returns the reply. done reports
// whether the line ends the session.
func (s *Session) Execute(line string) (reply string, done bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	name, args := resolve(fields)
	s.log.Debug("command", zap.String("name", name), zap.Int("args", len(args)))

	switch name {
	case "back":
		return "", true
	case "exit", "close", "good bye":
		return "Good bye!", true
	}

	cmd, ok := commands[name]
	if !ok {
		return "Invalid command", false
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return "Usage: " + cmd.usage, false
	}

	reply, err := cmd.run(s, args)
	if err != nil {
		s.log.Debug("command failed", zap.String("name", name), zap.Error(err))
		return describe(err), false
	}
	return reply, false
}

// resolve splits fields into a command name and its arguments. Command words
// are matched case-insensitively; arguments are kept as typed.
func resolve(fields []string) (string, []string) {
	first := strings.ToLower(fields[0])
	if len(fields) >= 2 {
		two := first + " " + strings.ToLower(fields[1])
		if two == "show all" || two == "good bye" {
			return two, fields[2:]
		}
	}
	return first, fields[1:]
}
