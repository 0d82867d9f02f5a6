package main

import (
	"fmt"
	"os"

	"github.com/addrbook/contacts/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	shellCmd.Flags().Bool("save", true, "Write the book back when the session ends")
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Read commands from standard input until exit, close, good bye or end of input.

Commands:
  hello                               greeting
  add <name> <phone>                  add a contact or another phone
  change <name> [<old>] <new>         replace a phone
  phone <name>                        show a contact's phones
  email <name> <address>              add an email
  birthday <name> [YYYY-MM-DD]        set or show days to next birthday
  search <query>                      match names and phones
  show all                            list every contact, page by page
  delete <name>                       remove a contact
  save <file> / load <file>           write or replace the book
  back                                leave without a message`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	persist, _ := cmd.Flags().GetBool("save")

	book := mustOpenBook()
	s := shell.New(book, os.Stdout, shell.WithLogger(logger.Named("shell")))
	runErr := s.Run(cmd.Context(), os.Stdin)

	// Edits made before a read failure are still saved.
	if persist {
		mustSaveBook(s.Book())
		logger.Debug("session saved", zap.Int("records", s.Book().Len()), zap.Error(runErr))
	}
	if runErr != nil {
		return fmt.Errorf("reading commands: %w", runErr)
	}
	return nil
}
