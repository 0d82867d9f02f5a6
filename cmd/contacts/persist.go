package main

import (
	"errors"
	"os"

	"github.com/addrbook/contacts/internal/config"
	"github.com/addrbook/contacts/internal/snapshot"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
}

var saveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write the book to another file",
	Long: `Write every contact to <file>, replacing it if it exists.

The format follows the extension: .db and .sqlite give a SQLite database,
.jsonl gives JSON lines, anything else a binary snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])
	book := mustOpenBook()

	if err := config.EnsureDir(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := snapshot.Save(book, path); err != nil {
		exitWithError(exitCodeFor(err), "saving to %s: %v", path, err)
	}
	logger.Info("book exported", zap.String("path", path), zap.Int("records", book.Len()))

	return reportFile("saved", path, book.Len())
}

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the book with the contents of a file",
	Long: `Read <file> and make it the current book. Contacts that are not in
<file> are dropped; nothing is merged. A missing or unreadable file leaves
the book unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])

	book, err := snapshot.Load(path)
	if errors.Is(err, snapshot.ErrNotFound) {
		exitWithError(ExitNotFound, "file not found: %s", path)
	} else if err != nil {
		exitWithError(exitCodeFor(err), "loading %s: %v", path, err)
	}
	if err := book.SetPageSize(cfg.PageSize); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	mustSaveBook(book)
	logger.Info("book imported", zap.String("path", path), zap.Int("records", book.Len()))

	return reportFile("loaded", path, book.Len())
}

// reportFile prints the outcome of a save or load.
func reportFile(status, path string, n int) error {
	resp := FileResponse{
		Status:   status,
		Path:     path,
		Format:   string(snapshot.FormatFor(path)),
		Contacts: n,
	}
	if info, err := os.Stat(path); err == nil {
		resp.Bytes = info.Size()
	}

	if humanOutput {
		outputHuman("%s %d contacts (%s, %s) %s\n",
			status, n, resp.Format, humanize.Bytes(uint64(resp.Bytes)), path)
		return nil
	}
	return outputJSON(resp)
}
