// Package runner drives the extraction pipeline end to end: resolve the
// input variant, produce decoded fields, extract entries, fold them into the
// contact index, and write the artifacts. The pipeline is a single pass with
// no retries; per-record and per-field problems are logged and skipped,
// only unusable input aborts the run.
package runner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JamesTLiu/mbox-to-contacts/cache"
	"github.com/JamesTLiu/mbox-to-contacts/config"
	"github.com/JamesTLiu/mbox-to-contacts/contacts"
	"github.com/JamesTLiu/mbox-to-contacts/decode"
	"github.com/JamesTLiu/mbox-to-contacts/export"
	"github.com/JamesTLiu/mbox-to-contacts/extract"
	"github.com/JamesTLiu/mbox-to-contacts/mbox"
	"github.com/JamesTLiu/mbox-to-contacts/model"
	"github.com/JamesTLiu/mbox-to-contacts/progress"
)

type Runner struct {
	cfg    config.Config
	logger *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the pipeline and returns the sorted contact list that was
// written to the artifacts.
func (r *Runner) Run() ([]model.Contact, error) {
	fields, err := r.collectFields()
	if err != nil {
		return nil, err
	}

	entries := extract.All(fields, r.logger)

	index := contacts.NewIndex()
	index.AddAll(entries)
	list := index.Contacts()

	r.logger.Info("contacts aggregated", "fields", len(fields), "entries", len(entries), "contacts", len(list))

	if err := r.writeArtifacts(list); err != nil {
		return nil, err
	}

	return list, nil
}

// collectFields resolves the input variant and produces the decoded field
// values, in archive order.
func (r *Runner) collectFields() ([]string, error) {
	in := r.cfg.Input()

	if in.CachePath != "" {
		if err := ensureExistingFile(in.CachePath, ".json"); err != nil {
			return nil, err
		}
		fields, err := cache.Read(in.CachePath)
		if err != nil {
			return nil, err
		}
		r.logger.Info("fields loaded from cache", "path", in.CachePath, "fields", len(fields))
		return fields, nil
	}

	if err := ensureExistingFile(in.ArchivePath, ".mbox", ".gz"); err != nil {
		return nil, err
	}

	total, err := mbox.CountMessages(in.ArchivePath)
	if err != nil {
		return nil, err
	}
	r.logger.Info("archive opened", "path", in.ArchivePath, "records", total)

	bar := progress.New(total, r.cfg.LogLevel)
	raw, err := mbox.CollectFields(mbox.Options{
		Path:     in.ArchivePath,
		WantFrom: r.cfg.WantFrom(),
		WantTo:   r.cfg.WantTo(),
	}, r.logger, bar.Increment)
	bar.Finish()
	if err != nil {
		return nil, err
	}

	fields := decode.Fields(raw, r.logger)

	if r.cfg.DumpFields {
		path := cache.PathFor(in.ArchivePath, collectedKinds(r.cfg)...)
		if err := cache.Write(path, fields); err != nil {
			return nil, err
		}
		r.logger.Info("fields written", "path", absPath(path))
	}

	return fields, nil
}

func (r *Runner) writeArtifacts(list []model.Contact) error {
	if err := export.WriteContacts(r.cfg.OutPath, list); err != nil {
		return err
	}
	r.logger.Info("contact email addresses with their names written", "path", absPath(r.cfg.OutPath))

	emailsPath := export.EmailsOnlyPath(r.cfg.OutPath)
	if err := export.WriteEmails(emailsPath, list); err != nil {
		return err
	}
	r.logger.Info("contact email addresses written", "path", absPath(emailsPath))

	vcfPath := export.VCardPath(r.cfg.OutPath)
	if err := export.WriteVCards(vcfPath, list); err != nil {
		return err
	}
	r.logger.Info("contact vCards written", "path", absPath(vcfPath))

	return nil
}

func collectedKinds(cfg config.Config) []model.FieldKind {
	var kinds []model.FieldKind
	if cfg.WantFrom() {
		kinds = append(kinds, model.FieldFrom)
	}
	if cfg.WantTo() {
		kinds = append(kinds, model.FieldTo)
	}
	return kinds
}

// ensureExistingFile verifies that path names an existing regular file with
// one of the given extensions. These are the fatal input errors: nothing
// downstream can recover from a missing or mistyped archive.
func ensureExistingFile(path string, exts ...string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input file %s: %w", absPath(path), err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory, not a file: %s", absPath(path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	return fmt.Errorf("input file %s does not have a %s extension", absPath(path), strings.Join(exts, "/"))
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
