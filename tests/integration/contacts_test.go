// Package integration provides integration tests for the contacts command.
package integration

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	contactsBinary     string
	contactsBinaryOnce sync.Once
	contactsBinaryErr  error
)

// getContactsBinary builds the contacts binary once and returns its path.
func getContactsBinary(t *testing.T) string {
	t.Helper()
	contactsBinaryOnce.Do(func() {
		// Get module root directory
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			contactsBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "contacts-test-*")
		if err != nil {
			contactsBinaryErr = err
			return
		}
		contactsBinary = filepath.Join(tmpDir, "contacts")

		cmd := exec.Command("go", "build", "-o", contactsBinary, "./cmd/contacts")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			contactsBinaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if contactsBinaryErr != nil {
		t.Fatalf("failed to build contacts: %v", contactsBinaryErr)
	}
	return contactsBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// testEnv is an isolated home for one test: config and data live under dir.
type testEnv struct {
	dir   string
	extra []string
}

func newTestEnv(t *testing.T, extra ...string) *testEnv {
	t.Helper()
	return &testEnv{dir: t.TempDir(), extra: extra}
}

// bookPath is where the binary keeps the book by default.
func (e *testEnv) bookPath() string {
	return filepath.Join(e.dir, "data", "contacts", "contacts.bin")
}

// run executes contacts with args and stdin, returning stdout and the exit code.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(getContactsBinary(t), args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(e.dir, "config"),
		"XDG_DATA_HOME="+filepath.Join(e.dir, "data"),
		"CONTACTS_BOOK=",
		"CONTACTS_PAGE_SIZE=",
	)
	cmd.Env = append(cmd.Env, e.extra...)
	cmd.Stdin = strings.NewReader(stdin)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode()
		}
		t.Fatalf("running contacts %v: %v", args, err)
	}
	return string(out), 0
}

// mustRun runs contacts and fails the test on a non-zero exit.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, code := e.run(t, "", args...)
	if code != 0 {
		t.Fatalf("contacts %v exited %d\nOutput: %s", args, code, out)
	}
	return out
}

type contactJSON struct {
	Name           string   `json:"name"`
	Phones         []string `json:"phones"`
	Emails         []string `json:"emails"`
	Birthday       string   `json:"birthday"`
	DaysToBirthday *int     `json:"days_to_birthday"`
}

type statusJSON struct {
	Status  string      `json:"status"`
	Contact contactJSON `json:"contact"`
}

type pageJSON struct {
	Page     int           `json:"page"`
	Contacts []contactJSON `json:"contacts"`
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
	}
	return v
}

func TestAddAndShow(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "alice", "5551234567",
		"--email", "alice@example.com", "--birthday", "1990-05-17")
	added := decode[statusJSON](t, out)
	if added.Status != "created" {
		t.Errorf("status = %q, want created", added.Status)
	}
	if added.Contact.Birthday != "1990-05-17" {
		t.Errorf("birthday = %q, want 1990-05-17", added.Contact.Birthday)
	}

	env.mustRun(t, "add", "alice", "5550000000")
	env.mustRun(t, "add", "bob", "4440000000")

	if _, err := os.Stat(env.bookPath()); err != nil {
		t.Fatalf("book not written to default path: %v", err)
	}

	pages := decode[[]pageJSON](t, env.mustRun(t, "show"))
	if len(pages) != 1 || len(pages[0].Contacts) != 2 {
		t.Fatalf("show = %+v, want one page with two contacts", pages)
	}
	alice := pages[0].Contacts[0]
	if alice.Name != "alice" || len(alice.Phones) != 2 {
		t.Errorf("first contact = %+v, want alice with two phones", alice)
	}
	if alice.DaysToBirthday == nil {
		t.Error("alice has no days_to_birthday")
	}
}

func TestAddInvalidLeavesBookUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "alice", "5551234567")

	tests := []struct {
		name string
		args []string
	}{
		{"short phone", []string{"add", "alice", "555"}},
		{"bad email", []string{"add", "alice", "5550000000", "--email", "nope"}},
		{"bad birthday", []string{"add", "bob", "4440000000", "--birthday", "17-05-1990"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := env.run(t, "", tt.args...)
			if code != 3 {
				t.Errorf("exit code = %d, want 3\nOutput: %s", code, out)
			}
		})
	}

	pages := decode[[]pageJSON](t, env.mustRun(t, "show"))
	if len(pages) != 1 || len(pages[0].Contacts) != 1 {
		t.Fatalf("show = %+v, want only alice", pages)
	}
	if got := pages[0].Contacts[0].Phones; len(got) != 1 || got[0] != "5551234567" {
		t.Errorf("alice phones = %v, want [5551234567]", got)
	}
}

func TestShowPagination(t *testing.T) {
	env := newTestEnv(t, "CONTACTS_PAGE_SIZE=2")
	for _, args := range [][]string{
		{"add", "a", "1110000000"},
		{"add", "b", "2220000000"},
		{"add", "c", "3330000000"},
		{"add", "d", "4440000000"},
		{"add", "e", "5550000000"},
	} {
		env.mustRun(t, args...)
	}

	pages := decode[[]pageJSON](t, env.mustRun(t, "show"))
	var sizes []int
	for _, p := range pages {
		sizes = append(sizes, len(p.Contacts))
	}
	if len(sizes) != 3 || sizes[0] != 2 || sizes[1] != 2 || sizes[2] != 1 {
		t.Errorf("page sizes = %v, want [2 2 1]", sizes)
	}

	third := decode[[]pageJSON](t, env.mustRun(t, "show", "--page", "3"))
	if len(third) != 1 || third[0].Page != 3 || third[0].Contacts[0].Name != "e" {
		t.Errorf("show --page 3 = %+v", third)
	}

	if _, code := env.run(t, "", "show", "--page", "4"); code != 4 {
		t.Errorf("show --page 4 exit code = %d, want 4", code)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "alice", "5551234567")
	env.mustRun(t, "add", "bob", "4440000000")
	env.mustRun(t, "add", "alicia", "3330000000")

	tests := []struct {
		query string
		want  []string
	}{
		{"555", []string{"alice"}},
		{"ali", []string{"alice", "alicia"}},
		{"Ali", nil},
		{"999", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := decode[[]contactJSON](t, env.mustRun(t, "search", tt.query))
			var names []string
			for _, c := range got {
				names = append(names, c.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("search %q = %v, want %v", tt.query, names, tt.want)
			}
		})
	}
}

func TestChangeAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "alice", "5551234567", "5550000000", "--email", "alice@example.com")

	env.mustRun(t, "change", "alice", "5551234567", "5559999999")
	env.mustRun(t, "change", "--email", "alice", "alice@example.com", "alice@work.org")

	if _, code := env.run(t, "", "change", "alice", "1112223333", "5558888888"); code != 4 {
		t.Errorf("change of absent phone exit code = %d, want 4", code)
	}
	if _, code := env.run(t, "", "change", "bob", "1112223333", "5558888888"); code != 4 {
		t.Errorf("change of unknown contact exit code = %d, want 4", code)
	}

	c := decode[contactJSON](t, env.mustRun(t, "phone", "alice"))
	if strings.Join(c.Phones, ",") != "5559999999,5550000000" {
		t.Errorf("phones = %v", c.Phones)
	}
	if strings.Join(c.Emails, ",") != "alice@work.org" {
		t.Errorf("emails = %v", c.Emails)
	}

	env.mustRun(t, "delete", "alice", "--phone", "5550000000")
	c = decode[contactJSON](t, env.mustRun(t, "phone", "alice"))
	if len(c.Phones) != 1 {
		t.Errorf("phones after delete --phone = %v", c.Phones)
	}

	env.mustRun(t, "delete", "alice")
	env.mustRun(t, "delete", "alice")
	if _, code := env.run(t, "", "phone", "alice"); code != 4 {
		t.Errorf("phone after delete exit code = %d, want 4", code)
	}
}

func TestSaveLoadReplaces(t *testing.T) {
	for _, name := range []string{"export.bin", "export.db", "export.jsonl"} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mustRun(t, "add", "alice", "5551234567", "--birthday", "2023-02-30")
			env.mustRun(t, "add", "bob", "4440000000")

			path := filepath.Join(env.dir, name)
			saved := decode[struct {
				Status   string `json:"status"`
				Contacts int    `json:"contacts"`
				Bytes    int64  `json:"bytes"`
			}](t, env.mustRun(t, "save", path))
			if saved.Contacts != 2 || saved.Bytes == 0 {
				t.Errorf("save = %+v", saved)
			}

			env.mustRun(t, "delete", "alice")
			env.mustRun(t, "add", "zoe", "1112223333")
			env.mustRun(t, "load", path)

			pages := decode[[]pageJSON](t, env.mustRun(t, "show"))
			var names []string
			for _, c := range pages[0].Contacts {
				names = append(names, c.Name)
			}
			if strings.Join(names, ",") != "alice,bob" {
				t.Errorf("after load names = %v, want [alice bob]", names)
			}
			if pages[0].Contacts[0].Birthday != "2023-02-30" {
				t.Errorf("alice birthday = %q, want 2023-02-30", pages[0].Contacts[0].Birthday)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "alice", "5551234567")

	if _, code := env.run(t, "", "load", filepath.Join(env.dir, "missing.bin")); code != 4 {
		t.Errorf("load missing exit code = %d, want 4", code)
	}
	c := decode[contactJSON](t, env.mustRun(t, "phone", "alice"))
	if c.Name != "alice" {
		t.Errorf("book changed after failed load: %+v", c)
	}
}

func TestBookFlagAndConfig(t *testing.T) {
	env := newTestEnv(t)
	book := filepath.Join(env.dir, "people.db")

	env.mustRun(t, "config", "book-path", book)
	env.mustRun(t, "add", "alice", "5551234567")
	if _, err := os.Stat(book); err != nil {
		t.Fatalf("configured book not written: %v", err)
	}

	other := filepath.Join(env.dir, "other.jsonl")
	env.mustRun(t, "--book", other, "add", "bob", "4440000000")
	data, err := os.ReadFile(other)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"bob"`) {
		t.Errorf("--book file = %s, want bob", data)
	}

	shown := decode[struct {
		BookPath string `json:"book_path"`
		PageSize int    `json:"page_size"`
	}](t, env.mustRun(t, "config"))
	if shown.BookPath != book || shown.PageSize != 10 {
		t.Errorf("config = %+v", shown)
	}
}

func TestShellSession(t *testing.T) {
	env := newTestEnv(t)
	input := strings.Join([]string{
		"hello",
		"add alice 5551234567",
		"add bob 12",
		"email alice alice@example.com",
		"show all",
		"frobnicate",
		"exit",
	}, "\n") + "\n"

	out, code := env.run(t, input, "shell")
	if code != 0 {
		t.Fatalf("shell exited %d\nOutput: %s", code, out)
	}
	for _, want := range []string{
		"How can I help you?",
		"Added alice with phone 5551234567",
		`Invalid phone format: "12"`,
		"-- page 1 --",
		"alice: 5551234567; alice@example.com",
		"Invalid command",
		"Good bye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("shell output missing %q:\n%s", want, out)
		}
	}

	c := decode[contactJSON](t, env.mustRun(t, "phone", "alice"))
	if len(c.Emails) != 1 {
		t.Errorf("shell changes not saved: %+v", c)
	}
}

func TestExportVCard(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "alice", "5551234567", "--birthday", "1990-05-17")
	env.mustRun(t, "add", "bob", "4440000000")

	out := env.mustRun(t, "export", "--vcard", "--names", "alice")
	if !strings.Contains(out, "FN:alice") || strings.Contains(out, "FN:bob") {
		t.Errorf("export --names alice =\n%s", out)
	}
	if !strings.Contains(out, "BDAY:1990-05-17") {
		t.Errorf("export missing birthday:\n%s", out)
	}

	path := filepath.Join(env.dir, "phone.vcf")
	first := decode[struct {
		Exported int `json:"exported"`
		Skipped  int `json:"skipped"`
	}](t, env.mustRun(t, "export", "--vcard", "--append", path))
	if first.Exported != 2 || first.Skipped != 0 {
		t.Errorf("first append = %+v, want 2 exported", first)
	}

	second := decode[struct {
		Exported int `json:"exported"`
		Skipped  int `json:"skipped"`
	}](t, env.mustRun(t, "export", "--vcard", "--append", path))
	if second.Exported != 0 || second.Skipped != 2 {
		t.Errorf("second append = %+v, want 2 skipped", second)
	}
}

func TestBirthdayImpossibleDateIsStored(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "alice", "5551234567")

	out, code := env.run(t, "", "birthday", "alice", "2023-02-30")
	if code != 0 {
		t.Fatalf("birthday exit code = %d, want 0\nOutput: %s", code, out)
	}
	res := decode[struct {
		Birthday       string `json:"birthday"`
		DaysToBirthday *int   `json:"days_to_birthday"`
		Note           string `json:"note"`
	}](t, out)
	if res.Birthday != "2023-02-30" || res.DaysToBirthday != nil || res.Note == "" {
		t.Errorf("birthday = %+v, want stored date without countdown", res)
	}

	c := decode[contactJSON](t, env.mustRun(t, "phone", "alice"))
	if c.Birthday != "2023-02-30" {
		t.Errorf("stored birthday = %q, want 2023-02-30", c.Birthday)
	}
}

func TestShellLongLines(t *testing.T) {
	env := newTestEnv(t)

	input := "add alice 5551234567\nsearch " + strings.Repeat("x", 70000) + "\nadd bob 4440000000\nexit\n"
	if out, code := env.run(t, input, "shell"); code != 0 {
		t.Fatalf("shell exited %d\nOutput: %.300s", code, out)
	}
	if c := decode[contactJSON](t, env.mustRun(t, "phone", "bob")); c.Name != "bob" {
		t.Errorf("command after long line not saved: %+v", c)
	}

	// A line past the limit ends the session, but earlier edits are saved.
	input = "add carol 3330000000\nsearch " + strings.Repeat("x", 2*1024*1024) + "\n"
	if _, code := env.run(t, input, "shell"); code == 0 {
		t.Error("shell exit code = 0 for an oversized line, want failure")
	}
	if c := decode[contactJSON](t, env.mustRun(t, "phone", "carol")); c.Name != "carol" {
		t.Errorf("edit before oversized line not saved: %+v", c)
	}
}
