package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/addrbook/contacts/internal/contact"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that change the book.
type StatusResponse struct {
	Status  string         `json:"status"`
	Contact *contact.Entry `json:"contact,omitempty"`
}

// ContactResult is a contact with its birthday countdown, if any.
type ContactResult struct {
	contact.Entry
	DaysToBirthday *int `json:"days_to_birthday,omitempty"`
}

// PageResult is one page of the show command.
type PageResult struct {
	Page     int             `json:"page"`
	Contacts []ContactResult `json:"contacts"`
}

// FileResponse is the response for save and load.
type FileResponse struct {
	Status   string `json:"status"`
	Path     string `json:"path"`
	Format   string `json:"format"`
	Contacts int    `json:"contacts"`
	Bytes    int64  `json:"bytes,omitempty"`
}

// newContactResult builds a result for r. An unparseable birthday leaves the
// countdown empty.
func newContactResult(r *contact.Record, now time.Time) ContactResult {
	res := ContactResult{Entry: r.Entry()}
	if n, ok, err := r.DaysUntilBirthday(now); ok && err == nil {
		res.DaysToBirthday = &n
	}
	return res
}

// formatContactHuman formats a contact as a multi-line block.
func formatContactHuman(c ContactResult) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString("\n")
	if len(c.Phones) > 0 {
		sb.WriteString(fmt.Sprintf("  Phones: %s\n", strings.Join(c.Phones, ", ")))
	}
	if len(c.Emails) > 0 {
		sb.WriteString(fmt.Sprintf("  Emails: %s\n", strings.Join(c.Emails, ", ")))
	}
	if c.Birthday != "" {
		sb.WriteString(fmt.Sprintf("  Birthday: %s", c.Birthday))
		if c.DaysToBirthday != nil {
			sb.WriteString(fmt.Sprintf(" (in %d days)", *c.DaysToBirthday))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
