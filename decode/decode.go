// Package decode normalizes raw header field values into readable text.
// RFC 2047 encoded-words are decoded with the charset table from
// emersion/go-message, which covers the legacy encodings (ISO-8859-*,
// windows-125*, GB18030, ...) that mailbox exports still carry.
package decode

import (
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/emersion/go-message/charset"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

var wordDecoder = mime.WordDecoder{CharsetReader: charset.Reader}

// Header decodes a single raw header value: folded continuation lines are
// flattened and every encoded-word is decoded with its declared charset.
// A value may mix several charsets across its words.
func Header(raw string) (string, error) {
	decoded, err := wordDecoder.DecodeHeader(unfold(raw))
	if err != nil {
		return "", fmt.Errorf("decode header: %w", err)
	}
	return strings.TrimSpace(decoded), nil
}

// Fields decodes every collected field value, preserving archive order.
// A field that cannot be decoded is dropped with a warning carrying enough
// context (record index, raw snippet) to recover the contact by hand; the
// rest of the record's fields are unaffected.
func Fields(raw []model.Field, logger *slog.Logger) []string {
	decoded := make([]string, 0, len(raw))

	for _, field := range raw {
		text, err := Header(field.Value)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping field - decode failed",
					"header", string(field.Kind),
					"record", field.Record,
					"raw", snippet(field.Value),
					"err", err,
				)
			}
			continue
		}
		decoded = append(decoded, text)
	}

	return decoded
}

// unfold collapses header folding (CRLF or LF followed by whitespace) into
// single spaces. net/mail already unfolds on read, but cached or hand-fed
// values may still contain folds.
func unfold(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			for i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '\t') {
				i++
			}
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

const snippetLen = 120

func snippet(s string) string {
	if len(s) <= snippetLen {
		return s
	}
	return s[:snippetLen] + "..."
}
