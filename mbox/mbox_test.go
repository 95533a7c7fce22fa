package mbox

import (
	"bytes"
	_ "embed"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

//go:embed test_data/sample.mbox
var sampleMboxData []byte

func TestReadFrom(t *testing.T) {
	var records []Record
	err := ReadFrom(bytes.NewReader(sampleMboxData), nil, func(r Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	if got := records[0].Header.Get("From"); got != `"Jane Doe" <Jane@Example.com>` {
		t.Errorf("record 0 From = %q", got)
	}
	if got := records[1].Header.Get("To"); got != "" {
		t.Errorf("record 1 To = %q, want empty", got)
	}
	if records[2].Index != 2 {
		t.Errorf("record 2 index = %d", records[2].Index)
	}
}

func TestCollectFields(t *testing.T) {
	path := writeTempArchive(t, sampleMboxData, "sample.mbox")

	tests := []struct {
		name       string
		opts       Options
		wantFields int
		wantKinds  []model.FieldKind
	}{
		{
			name:       "from and to",
			opts:       Options{Path: path, WantFrom: true, WantTo: true},
			wantFields: 5,
			wantKinds: []model.FieldKind{
				model.FieldFrom, model.FieldTo,
				model.FieldFrom,
				model.FieldFrom, model.FieldTo,
			},
		},
		{
			name:       "from only",
			opts:       Options{Path: path, WantFrom: true},
			wantFields: 3,
			wantKinds:  []model.FieldKind{model.FieldFrom, model.FieldFrom, model.FieldFrom},
		},
		{
			name:       "to only",
			opts:       Options{Path: path, WantTo: true},
			wantFields: 2,
			wantKinds:  []model.FieldKind{model.FieldTo, model.FieldTo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := CollectFields(tt.opts, nil, nil)
			if err != nil {
				t.Fatalf("CollectFields() error = %v", err)
			}
			if len(fields) != tt.wantFields {
				t.Fatalf("Expected %d fields, got %d: %+v", tt.wantFields, len(fields), fields)
			}
			for i, want := range tt.wantKinds {
				if fields[i].Kind != want {
					t.Errorf("field %d kind = %s, want %s", i, fields[i].Kind, want)
				}
			}
		})
	}
}

func TestCollectFieldsWarnsOnMissingHeader(t *testing.T) {
	path := writeTempArchive(t, sampleMboxData, "sample.mbox")

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	fields, err := CollectFields(Options{Path: path, WantFrom: true, WantTo: true}, logger, nil)
	if err != nil {
		t.Fatalf("CollectFields() error = %v", err)
	}

	// Record 1 has no To header: one warning, no field for it.
	logged := logBuf.String()
	if !strings.Contains(logged, "header absent") {
		t.Errorf("Expected missing-header warning, log output: %s", logged)
	}
	if !strings.Contains(logged, "No recipient header") {
		t.Errorf("Expected warning to identify the record by subject, log output: %s", logged)
	}
	for _, f := range fields {
		if f.Record == 1 && f.Kind == model.FieldTo {
			t.Errorf("Record 1 should not contribute a To field")
		}
	}
}

func TestCountMessages(t *testing.T) {
	path := writeTempArchive(t, sampleMboxData, "sample.mbox")

	count, err := CountMessages(path)
	if err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountMessages() = %d, want 3", count)
	}
}

func TestGzipArchive(t *testing.T) {
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(sampleMboxData); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	path := writeTempArchive(t, compressed.Bytes(), "sample.mbox.gz")

	count, err := CountMessages(path)
	if err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountMessages() = %d, want 3", count)
	}

	fields, err := CollectFields(Options{Path: path, WantFrom: true}, nil, nil)
	if err != nil {
		t.Fatalf("CollectFields() error = %v", err)
	}
	if len(fields) != 3 {
		t.Errorf("Expected 3 From fields from gzip archive, got %d", len(fields))
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mbox")); err == nil {
		t.Error("Expected error for missing archive")
	}
}

func TestOnRecordCallback(t *testing.T) {
	path := writeTempArchive(t, sampleMboxData, "sample.mbox")

	ticks := 0
	_, err := CollectFields(Options{Path: path, WantFrom: true, WantTo: true}, nil, func() { ticks++ })
	if err != nil {
		t.Fatalf("CollectFields() error = %v", err)
	}
	if ticks != 3 {
		t.Errorf("Expected 3 progress ticks, got %d", ticks)
	}
}

func writeTempArchive(t *testing.T, data []byte, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp archive: %v", err)
	}
	return path
}

var _ io.ReadCloser = (*archiveReader)(nil)
