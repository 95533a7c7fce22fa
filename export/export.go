// Package export serializes the sorted contact list into its output
// artifacts. Every artifact is a full rewrite; nothing is merged with
// previous runs.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

// WriteContacts writes the contacts-with-names artifact: an ordered JSON
// array of {email, names} objects.
func WriteContacts(path string, contacts []model.Contact) error {
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return writeJSON(path, contacts)
}

// WriteEmails writes the emails-only artifact: an ordered JSON array of
// bare addresses, in the same order as the contacts artifact.
func WriteEmails(path string, contacts []model.Contact) error {
	emails := make([]string, 0, len(contacts))
	for _, c := range contacts {
		emails = append(emails, c.Email)
	}
	return writeJSON(path, emails)
}

// EmailsOnlyPath derives the emails-only file name from the main output
// path: "contacts.json" becomes "emails only - contacts.json".
func EmailsOnlyPath(outPath string) string {
	dir := filepath.Dir(outPath)
	base := filepath.Base(outPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "emails only - "+stem+ext)
}

// VCardPath derives the vCard file path: contacts.vcf next to the main
// output.
func VCardPath(outPath string) string {
	return filepath.Join(filepath.Dir(outPath), "contacts.vcf")
}

// vCard property values cannot carry these without escaping headaches, so
// names containing them are left out of the card (they remain in the JSON
// artifacts).
var invalidVCardChars = regexp.MustCompile("[.;:\n\r]")

// WriteVCards writes one vCard per contact. The first usable display name
// becomes the formatted name ("No name" when none survive); every usable
// name is preserved in the NOTE property.
func WriteVCards(path string, contacts []model.Contact) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vcf file: %w", err)
	}
	defer file.Close()

	enc := vcard.NewEncoder(file)
	for _, c := range contacts {
		names := usableNames(c.Names)

		fn := "No name"
		if len(names) > 0 && names[0] != "" {
			fn = names[0]
		}

		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, fn)
		card.SetValue(vcard.FieldEmail, strings.Trim(c.Email, `'"`))
		if note := strings.Join(names, ", "); note != "" {
			card.SetValue(vcard.FieldNote, note)
		}
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("encode vcard for %s: %w", c.Email, err)
		}
	}

	return nil
}

func usableNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if invalidVCardChars.MatchString(name) {
			continue
		}
		out = append(out, strings.Trim(name, `'"`))
	}
	return out
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
