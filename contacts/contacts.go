// Package contacts folds extracted entries into a deduplicated index and
// orders it with a domain-aware sort key.
package contacts

import (
	"regexp"
	"slices"
	"strings"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

// Index maps each email address to the set of display names observed for it.
// Keys are lowercased by the extractor; the fold is commutative, so the
// order entries are added in never changes the resulting content.
type Index map[string]map[string]struct{}

// NewIndex returns an empty index.
func NewIndex() Index {
	return make(Index)
}

// Add folds one entry into the index. An empty name still registers the
// address; duplicate names are absorbed by the set.
func (ix Index) Add(e model.Entry) {
	names, ok := ix[e.Email]
	if !ok {
		names = make(map[string]struct{})
		ix[e.Email] = names
	}
	if e.Name != "" {
		names[e.Name] = struct{}{}
	}
}

// AddAll folds a batch of entries.
func (ix Index) AddAll(entries []model.Entry) {
	for _, e := range entries {
		ix.Add(e)
	}
}

// Contacts flattens the index into the export order: emails sorted by the
// domain-aware key, names sorted alphabetically within each contact so the
// output is byte-stable across runs.
func (ix Index) Contacts() []model.Contact {
	out := make([]model.Contact, 0, len(ix))
	for email, nameSet := range ix {
		names := make([]string, 0, len(nameSet))
		for name := range nameSet {
			names = append(names, name)
		}
		slices.Sort(names)
		out = append(out, model.Contact{Email: email, Names: names})
	}

	slices.SortFunc(out, func(a, b model.Contact) int {
		return slices.Compare(SortKey(a.Email), SortKey(b.Email))
	})

	return out
}

var nonWord = regexp.MustCompile(`\W+`)

// SortKey builds the domain-aware sort key for an email address: the domain
// split on non-word runs and reversed, followed by the full address. Sorting
// on this key clusters addresses of the same provider regardless of
// subdomain ordering ("mail.google.com" and "google.com" both lead with
// "com", "google").
func SortKey(email string) []string {
	email = strings.ToLower(strings.TrimSpace(email))
	domain := email
	if _, d, ok := strings.Cut(email, "@"); ok {
		domain = d
	}

	parts := nonWord.Split(domain, -1)
	slices.Reverse(parts)

	return append(parts, email)
}
