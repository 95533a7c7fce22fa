package mbox

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"os"
	"strings"

	mboxlib "github.com/emersion/go-mbox"
	"github.com/klauspost/compress/gzip"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

// Options configures which header fields are collected from the archive.
type Options struct {
	Path     string
	WantFrom bool
	WantTo   bool
}

// Record is one message as seen by the reader. Body content is never
// retained; only the parsed header survives.
type Record struct {
	Index  int
	Header mail.Header
}

var gzipMagic = []byte{0x1f, 0x8b}

// Open returns a reader over the archive at path, transparently
// decompressing gzip archives. Compression is detected by magic bytes, not
// by file extension, so renamed Takeout downloads still work.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mbox: %w", err)
	}

	buffered := bufio.NewReader(file)
	magic, err := buffered.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, fmt.Errorf("read mbox: %w", err)
	}

	if len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open gzip mbox: %w", err)
		}
		return &archiveReader{Reader: gz, closers: []io.Closer{gz, file}}, nil
	}

	return &archiveReader{Reader: buffered, closers: []io.Closer{file}}, nil
}

type archiveReader struct {
	io.Reader
	closers []io.Closer
}

func (a *archiveReader) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Read opens an mbox archive and iterates through its messages, calling the
// provided callback for each message. Records whose headers cannot be parsed
// are skipped with a warning; a single bad record never aborts the run.
func Read(path string, logger *slog.Logger, callback func(r Record) error) error {
	archive, err := Open(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	return ReadFrom(archive, logger, callback)
}

// ReadFrom iterates the messages of an mbox stream. See Read.
func ReadFrom(r io.Reader, logger *slog.Logger, callback func(r Record) error) error {
	reader := mboxlib.NewReader(r)

	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("message %d: %w", idx, err)
		}

		msg, err := mail.ReadMessage(msgReader)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping record with unparsable headers", "record", idx, "err", err)
			}
			continue
		}

		if err := callback(Record{Index: idx, Header: msg.Header}); err != nil {
			return err
		}
	}
}

// CollectFields iterates the archive and returns the raw From/To header
// values of every record, in archive order. A record lacking a requested
// header is reported with a warning and contributes nothing for that kind.
// onRecord, if non-nil, is invoked once per record for progress reporting.
func CollectFields(opts Options, logger *slog.Logger, onRecord func()) ([]model.Field, error) {
	var fields []model.Field

	err := Read(opts.Path, logger, func(r Record) error {
		if onRecord != nil {
			onRecord()
		}

		if opts.WantFrom {
			if value := r.Header.Get("From"); value != "" {
				fields = append(fields, model.Field{Kind: model.FieldFrom, Record: r.Index, Value: value})
			} else {
				warnMissingHeader(logger, r, model.FieldFrom)
			}
		}

		if opts.WantTo {
			if value := r.Header.Get("To"); value != "" {
				fields = append(fields, model.Field{Kind: model.FieldTo, Record: r.Index, Value: value})
			} else {
				warnMissingHeader(logger, r, model.FieldTo)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return fields, nil
}

func warnMissingHeader(logger *slog.Logger, r Record, kind model.FieldKind) {
	if logger == nil {
		return
	}
	logger.Warn("skipping record field - header absent",
		"header", string(kind),
		"record", r.Index,
		"subject", strings.TrimSpace(r.Header.Get("Subject")),
		"date", strings.TrimSpace(r.Header.Get("Date")),
	)
}

// CountMessages counts the total number of messages in an mbox archive.
func CountMessages(path string) (int, error) {
	archive, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer archive.Close()

	reader := mboxlib.NewReader(archive)

	count := 0
	for {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return 0, err
		}

		count++
		if _, err := io.Copy(io.Discard, msgReader); err != nil {
			// Keep counting; a truncated message still occupies a slot.
			continue
		}
	}
}
