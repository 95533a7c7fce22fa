package model

// FieldKind identifies which message header a field value came from.
type FieldKind string

const (
	FieldFrom FieldKind = "From"
	FieldTo   FieldKind = "To"
)

// Field is one raw header value lifted from an archive record, before any
// character-set decoding.
type Field struct {
	Kind   FieldKind
	Record int    // zero-based record index in the archive
	Value  string // raw header text, possibly RFC 2047 encoded
}

// Entry is a single display-name/address pair extracted from a decoded field.
// Email always holds exactly one @ and is lowercased; Name may be empty.
type Entry struct {
	Email string
	Name  string
}

// Contact is one exported address together with every display name observed
// for it across the archive.
type Contact struct {
	Email string   `json:"email"`
	Names []string `json:"names"`
}
