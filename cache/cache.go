// Package cache persists decoded field values so later runs can skip
// archive parsing and header decoding entirely.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

// Write stores the ordered decoded fields as a JSON array, overwriting any
// previous cache at path.
func Write(path string, fields []string) error {
	if fields == nil {
		fields = []string{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fields cache: %w", err)
	}
	return nil
}

// Read loads a fields cache written by Write. The returned values feed the
// extractor directly and produce output identical to a full archive parse.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields cache: %w", err)
	}

	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse fields cache %s: %w", path, err)
	}
	return fields, nil
}

// PathFor derives the cache file path for an archive: the archive's stem
// plus the collected header kinds, e.g. "All mail - From To fields.json".
func PathFor(mboxPath string, kinds ...model.FieldKind) string {
	stem := filepath.Base(mboxPath)
	stem = strings.TrimSuffix(stem, ".gz")
	stem = strings.TrimSuffix(stem, ".mbox")

	labels := make([]string, 0, len(kinds))
	for _, k := range kinds {
		labels = append(labels, string(k))
	}

	name := fmt.Sprintf("%s - %s fields.json", stem, strings.Join(labels, " "))
	return filepath.Join(filepath.Dir(mboxPath), name)
}
