package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/addrbook/contacts/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResponse is the response for the config command with no arguments.
type ConfigResponse struct {
	ConfigPath string `json:"config_path"`
	BookPath   string `json:"book_path"`
	PageSize   int    `json:"page_size"`
}

// UpdateResponse is the response for a config change.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  contacts config                        # Show effective config
  contacts config book-path              # Get specific value
  contacts config book-path ~/people.db  # Set value
  contacts config page-size 20

Keys:
  book-path  File holding the contacts (format follows the extension)
  page-size  Contacts per page for show`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	// No args: show the effective config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("book-path: %s\n", cfg.BookPath)
			fmt.Printf("page-size: %d\n", cfg.PageSize)
			fmt.Println()
			fmt.Println(config.HelpfulConfigMessage())
			return nil
		}
		return outputJSON(ConfigResponse{
			ConfigPath: config.ConfigPath(),
			BookPath:   cfg.BookPath,
			PageSize:   cfg.PageSize,
		})
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		switch key {
		case "book-path":
			if humanOutput {
				fmt.Println(cfg.BookPath)
				return nil
			}
			return outputJSON(map[string]string{"book_path": cfg.BookPath})
		case "page-size":
			if humanOutput {
				fmt.Println(cfg.PageSize)
				return nil
			}
			return outputJSON(map[string]int{"page_size": cfg.PageSize})
		default:
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
	}

	// Two args: set the value in the config file only, not env overrides
	path := config.ConfigPath()
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	value := args[1]
	switch key {
	case "book-path":
		fileCfg.BookPath = config.ExpandPath(value)
	case "page-size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			exitWithError(ExitConfigError, "%v: got %q", config.ErrInvalidPageSize, value)
		}
		fileCfg.PageSize = n
	default:
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	if err := fileCfg.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}

// normalizeKey converts key formats (book-path, book_path, Book-Path) to one form.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", "-")
}
