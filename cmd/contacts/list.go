package main

import (
	"fmt"
	"time"

	"github.com/addrbook/contacts/internal/contact"
	"github.com/spf13/cobra"
)

func init() {
	showCmd.Flags().IntP("page", "p", 0, "Show only this page (1-based)")
	showCmd.Flags().Int("page-size", 0, "Contacts per page (default from config)")
	rootCmd.AddCommand(showCmd)

	rootCmd.AddCommand(searchCmd)
}

var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "List contacts page by page",
	Long: `List every contact in insertion order, grouped into pages.

Use --page to print a single page.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	book := mustOpenBook()
	if pageSize != 0 {
		if err := book.SetPageSize(pageSize); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}
	if page < 0 {
		exitWithError(ExitError, "page must be positive, got %d", page)
	}

	pages := collectPages(book, time.Now())
	if page > 0 {
		if page > len(pages) {
			exitWithError(ExitNotFound, "page %d out of range (%d pages)", page, len(pages))
		}
		pages = pages[page-1 : page]
	}

	if humanOutput {
		if len(pages) == 0 {
			outputHuman("Phone book is empty\n")
			return nil
		}
		for i, p := range pages {
			if i > 0 {
				fmt.Println()
			}
			outputHuman("-- page %d --\n", p.Page)
			for _, c := range p.Contacts {
				outputHuman("%s", formatContactHuman(c))
			}
		}
		return nil
	}

	if pages == nil {
		pages = []PageResult{}
	}
	return outputJSON(pages)
}

// collectPages drains the book's paginator into numbered results.
func collectPages(book *contact.AddressBook, now time.Time) []PageResult {
	var pages []PageResult
	for records := range book.Paginate() {
		p := PageResult{Page: len(pages) + 1, Contacts: make([]ContactResult, len(records))}
		for i, r := range records {
			p.Contacts[i] = newContactResult(r, now)
		}
		pages = append(pages, p)
	}
	return pages
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find contacts by name or phone fragment",
	Long: `List contacts whose name or any phone number contains <query>.
Matching is case-sensitive.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	book := mustOpenBook()
	matches := book.Search(args[0])

	now := time.Now()
	results := make([]ContactResult, len(matches))
	for i, r := range matches {
		results[i] = newContactResult(r, now)
	}

	if humanOutput {
		if len(results) == 0 {
			outputHuman("No matching contacts found.\n")
			return nil
		}
		for _, c := range results {
			outputHuman("%s", formatContactHuman(c))
		}
		return nil
	}
	return outputJSON(results)
}
