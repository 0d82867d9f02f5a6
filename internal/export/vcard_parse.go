package export

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// VCardIndex indexes the cards already in a .vcf file for deduplication.
type VCardIndex struct {
	// Names maps formatted names to true for existence check
	Names map[string]bool
	// Phones maps phone numbers to the name of the card holding them
	Phones map[string]string
}

// NewVCardIndex creates an empty index.
func NewVCardIndex() *VCardIndex {
	return &VCardIndex{
		Names:  make(map[string]bool),
		Phones: make(map[string]string),
	}
}

// HasEntry reports whether a card for this contact already exists.
// Any shared phone number is a match; the name is the fallback.
func (idx *VCardIndex) HasEntry(name string, phones []string) bool {
	for _, p := range phones {
		if _, exists := idx.Phones[p]; exists {
			return true
		}
	}
	return idx.Names[name]
}

// ParseVCardFile builds an index from an existing .vcf file.
// Returns an empty index if the file doesn't exist or is empty.
func ParseVCardFile(path string) (*VCardIndex, error) {
	idx := NewVCardIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentName string
	var pending []string

	for scanner.Scan() {
		prop, value, ok := strings.Cut(strings.TrimRight(scanner.Text(), "\r"), ":")
		if !ok {
			continue
		}
		// Drop parameters: TEL;TYPE=VOICE -> TEL
		prop, _, _ = strings.Cut(strings.ToUpper(prop), ";")

		switch prop {
		case "BEGIN":
			currentName, pending = "", nil
		case "FN":
			currentName = unescapeVCard(value)
			idx.Names[currentName] = true
		case "TEL":
			pending = append(pending, strings.TrimSpace(value))
		case "END":
			for _, p := range pending {
				idx.Phones[p] = currentName
			}
			currentName, pending = "", nil
		}
	}

	return idx, scanner.Err()
}

// AppendToVCardFile appends vCard content to a file.
func AppendToVCardFile(path, content string) (err error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, file.Close()) }()

	_, err = file.WriteString(content)
	return err
}
