package main

import (
	"fmt"
	"strings"

	"github.com/addrbook/contacts/internal/config"
	"github.com/addrbook/contacts/internal/contact"
	"github.com/addrbook/contacts/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportVCard  bool
	exportNames  string
	exportAppend string
)

func init() {
	exportCmd.Flags().BoolVar(&exportVCard, "vcard", false, "Export to vCard format")
	exportCmd.Flags().StringVar(&exportNames, "names", "", "Export only these contacts (comma-separated)")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append to a .vcf file, skipping contacts already in it")
	rootCmd.AddCommand(exportCmd)
}

// ExportResponse is the response for export --append.
type ExportResponse struct {
	Path     string `json:"path"`
	Exported int    `json:"exported"`
	Skipped  int    `json:"skipped"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export contacts to vCard format",
	Long: `Export contacts to vCard 3.0 format.

Examples:
  contacts export --vcard
  contacts export --vcard --names alice,bob
  contacts export --vcard > contacts.vcf
  contacts export --vcard --append ~/phone.vcf`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportVCard {
		exitWithError(ExitError, "--vcard flag is required")
	}

	book := mustOpenBook()

	var entries []contact.Entry
	if exportNames != "" {
		for _, name := range strings.Split(exportNames, ",") {
			r := mustFindRecord(book, strings.TrimSpace(name))
			entries = append(entries, r.Entry())
		}
	} else {
		entries = book.Entries()
	}

	if exportAppend == "" {
		// vCard is always text output, never JSON
		fmt.Print(export.ToVCardList(entries))
		return nil
	}

	path := config.ExpandPath(exportAppend)
	idx, err := export.ParseVCardFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	var fresh []contact.Entry
	for _, e := range entries {
		if !idx.HasEntry(e.Name, e.Phones) {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) > 0 {
		if err := export.AppendToVCardFile(path, export.ToVCardList(fresh)); err != nil {
			exitWithError(ExitError, "writing %s: %v", path, err)
		}
	}

	resp := ExportResponse{Path: path, Exported: len(fresh), Skipped: len(entries) - len(fresh)}
	if humanOutput {
		outputHuman("exported %d contacts to %s (%d already present)\n", resp.Exported, path, resp.Skipped)
		return nil
	}
	return outputJSON(resp)
}
