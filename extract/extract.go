// Package extract pulls display-name/address pairs out of decoded header
// field values.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

// entryPattern matches one address entry inside a field value: an optional
// display name followed by an RFC 5322-shaped address, with or without angle
// brackets. The name part is either a quoted string (which may contain
// commas) or a run of text free of angle brackets and commas. The address
// grammar admits quoted local parts and domain literals; its atom classes
// exclude '@', so a match always contains exactly one '@'.
var entryPattern = regexp.MustCompile(
	`(?P<name>"[^"]*"\s*|[^<>,]*?)<?` +
		`(?P<email>([-!#-'*+/-9=?A-Z^-~]+(\.[-!#-'*+/-9=?A-Z^-~]+)*|"([\]!#-\[^-~ \t]|(\\[\t -~]))+")` +
		`@([-!#-'*+/-9=?A-Z^-~]+(\.[-!#-'*+/-9=?A-Z^-~]+)*|\[[\t -Z^-~]*\]))`,
)

var (
	nameIdx  = entryPattern.SubexpIndex("name")
	emailIdx = entryPattern.SubexpIndex("email")
)

// Entries extracts every name/address pair from a decoded field value.
// A field that yields no address at all is reported with a warning and
// dropped; a malformed entry next to valid ones costs only itself. Empty
// display names are preserved as "" - an address-only contact is still a
// contact.
func Entries(field string, logger *slog.Logger) []model.Entry {
	matches := entryPattern.FindAllStringSubmatch(field, -1)
	if len(matches) == 0 {
		if logger != nil {
			logger.Warn("skipping - no email found in field", "field", field)
		}
		return nil
	}

	entries := make([]model.Entry, 0, len(matches))
	for _, m := range matches {
		email := strings.ToLower(strings.TrimSpace(m[emailIdx]))
		if !validEmail(email) {
			if logger != nil {
				logger.Warn("dropping entry - invalid email", "email", email, "field", field)
			}
			continue
		}

		name := strings.TrimSpace(m[nameIdx])
		name = strings.Trim(name, `"'`)
		name = strings.TrimSpace(name)

		entries = append(entries, model.Entry{Email: email, Name: name})
	}

	return entries
}

// All extracts entries from every field in order.
func All(fields []string, logger *slog.Logger) []model.Entry {
	var entries []model.Entry
	for _, field := range fields {
		entries = append(entries, Entries(field, logger)...)
	}
	return entries
}

func validEmail(email string) bool {
	at := strings.Count(email, "@")
	if at != 1 {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	return local != "" && domain != ""
}
