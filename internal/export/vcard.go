// Package export renders contacts in interchange formats.
package export

import (
	"fmt"
	"strings"

	"github.com/addrbook/contacts/internal/contact"
)

// ToVCard converts a contact to a vCard 3.0 card.
func ToVCard(e contact.Entry) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")

	name := escapeVCard(e.Name)
	b.WriteString(fmt.Sprintf("FN:%s\r\n", name))
	// N is required in 3.0; the whole name goes in the family component
	b.WriteString(fmt.Sprintf("N:%s;;;;\r\n", name))

	for _, p := range e.Phones {
		b.WriteString(fmt.Sprintf("TEL;TYPE=VOICE:%s\r\n", p))
	}
	for _, m := range e.Emails {
		b.WriteString(fmt.Sprintf("EMAIL;TYPE=INTERNET:%s\r\n", escapeVCard(m)))
	}
	if e.Birthday != "" {
		b.WriteString(fmt.Sprintf("BDAY:%s\r\n", e.Birthday))
	}

	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// ToVCardList converts multiple contacts to concatenated vCards.
func ToVCardList(entries []contact.Entry) string {
	var cards []string
	for _, e := range entries {
		cards = append(cards, ToVCard(e))
	}
	return strings.Join(cards, "")
}

// escapeVCard escapes text value characters.
func escapeVCard(s string) string {
	// Backslash first so the escapes added below are not doubled
	replacer := strings.NewReplacer(
		`\`, `\\`,
		",", `\,`,
		";", `\;`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return replacer.Replace(s)
}

// unescapeVCard reverses escapeVCard.
func unescapeVCard(s string) string {
	replacer := strings.NewReplacer(
		`\\`, `\`,
		`\,`, ",",
		`\;`, ";",
		`\n`, "\n",
		`\N`, "\n",
	)
	return replacer.Replace(s)
}
