// Package main provides the contacts CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/addrbook/contacts/internal/config"
	"github.com/addrbook/contacts/internal/contact"
	"github.com/addrbook/contacts/internal/snapshot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// bookFlag overrides the configured book path
	bookFlag string
	verbose  bool

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Personal contact directory",
	Long: `contacts keeps a personal address book: names, phone numbers,
email addresses and birthdays.

The book is stored in a single file. The format follows the extension:
  .db / .sqlite  SQLite database
  .jsonl         one JSON object per contact
  anything else  compact binary snapshot

All commands output JSON by default; use --human for text.
Run 'contacts shell' for an interactive session.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&bookFlag, "book", "", "Path to the contacts book (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.Version = Version
}

// setup loads configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
	}

	loaded, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if bookFlag != "" {
		loaded.BookPath = config.ExpandPath(bookFlag)
	}
	cfg = loaded

	logger.Debug("configuration loaded",
		zap.String("book", cfg.BookPath),
		zap.Int("page_size", cfg.PageSize))
	return nil
}

// openBook loads the book at path. A missing file gives an empty book.
func openBook(path string, pageSize int) (*contact.AddressBook, error) {
	book, err := snapshot.Load(path)
	if errors.Is(err, snapshot.ErrNotFound) {
		book = contact.NewAddressBook()
	} else if err != nil {
		return nil, err
	}
	if err := book.SetPageSize(pageSize); err != nil {
		return nil, err
	}
	return book, nil
}

// mustOpenBook loads the configured book, exits on error.
func mustOpenBook() *contact.AddressBook {
	book, err := openBook(cfg.BookPath, cfg.PageSize)
	if err != nil {
		exitWithError(exitCodeFor(err), "opening book: %v", err)
	}
	logger.Debug("book opened", zap.String("path", cfg.BookPath), zap.Int("records", book.Len()))
	return book
}

// mustSaveBook writes the book back to the configured path, exits on error.
func mustSaveBook(book *contact.AddressBook) {
	if err := config.EnsureDir(cfg.BookPath); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := snapshot.Save(book, cfg.BookPath); err != nil {
		exitWithError(exitCodeFor(err), "saving book: %v", err)
	}
	logger.Debug("book saved", zap.String("path", cfg.BookPath), zap.Int("records", book.Len()))
}

// mustFindRecord returns the named record, exits if it is absent.
func mustFindRecord(book *contact.AddressBook, name string) *contact.Record {
	r := book.Find(name)
	if r == nil {
		exitWithError(ExitNotFound, "contact %q not found", name)
	}
	return r
}

// exitCodeFor maps an error from the store to an exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, contact.ErrValidation), errors.Is(err, contact.ErrInvalidDate):
		return ExitDataError
	case errors.Is(err, contact.ErrNotFound), errors.Is(err, snapshot.ErrNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}
