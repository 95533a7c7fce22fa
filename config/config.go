package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Config captures all command-line options required to run the extractor.
type Config struct {
	MboxPath   string
	FieldsPath string
	OutPath    string
	OmitFrom   bool
	OmitTo     bool
	DumpFields bool
	LogLevel   string
}

// Input is the resolved input variant: either a mailbox archive that still
// needs parsing and decoding, or a fields cache produced by an earlier run.
// Exactly one path is set.
type Input struct {
	ArchivePath string
	CachePath   string
}

// Input returns the tagged input variant for this configuration.
func (c Config) Input() Input {
	if c.FieldsPath != "" {
		return Input{CachePath: c.FieldsPath}
	}
	return Input{ArchivePath: c.MboxPath}
}

// WantFrom reports whether "From" headers are collected.
func (c Config) WantFrom() bool { return !c.OmitFrom }

// WantTo reports whether "To" headers are collected.
func (c Config) WantTo() bool { return !c.OmitTo }

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	flags.String("mbox", "", "Path to the .mbox (or .mbox.gz) archive to parse")
	flags.String("fields-json", "", "Path to a fields cache produced by a previous --dump-fields run (skips archive parsing)")
	flags.String("out", "contacts.json", "Path for the contacts-with-names JSON output")
	flags.Bool("omit-from", false, "Ignore 'From' headers")
	flags.Bool("omit-to", false, "Ignore 'To' headers")
	flags.Bool("dump-fields", false, "Write the decoded header fields to a JSON cache next to the archive")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")

	cmd.MarkFlagsMutuallyExclusive("mbox", "fields-json")
	cmd.MarkFlagsOneRequired("mbox", "fields-json")

	return nil
}

// LoadConfig converts the parsed Cobra flags into a Config struct with
// validation. Validation happens before any file is touched.
func LoadConfig(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()

	mboxPath, err := flags.GetString("mbox")
	if err != nil {
		return Config{}, err
	}
	fieldsPath, err := flags.GetString("fields-json")
	if err != nil {
		return Config{}, err
	}
	outPath, err := flags.GetString("out")
	if err != nil {
		return Config{}, err
	}
	omitFrom, err := flags.GetBool("omit-from")
	if err != nil {
		return Config{}, err
	}
	omitTo, err := flags.GetBool("omit-to")
	if err != nil {
		return Config{}, err
	}
	dumpFields, err := flags.GetBool("dump-fields")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}

	logLevel = strings.ToLower(logLevel)
	if logLevel == "warning" {
		logLevel = "warn"
	}

	cfg := Config{
		MboxPath:   mboxPath,
		FieldsPath: fieldsPath,
		OutPath:    outPath,
		OmitFrom:   omitFrom,
		OmitTo:     omitTo,
		DumpFields: dumpFields,
		LogLevel:   logLevel,
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.MboxPath == "" && cfg.FieldsPath == "" {
		return fmt.Errorf("either --mbox or --fields-json is required")
	}
	if cfg.MboxPath != "" && cfg.FieldsPath != "" {
		return fmt.Errorf("--mbox and --fields-json are mutually exclusive")
	}
	if cfg.OmitFrom && cfg.OmitTo {
		return fmt.Errorf("--omit-from and --omit-to cannot both be set; nothing would be extracted")
	}
	if cfg.FieldsPath != "" && (cfg.OmitFrom || cfg.OmitTo) {
		return fmt.Errorf("--omit-from/--omit-to only apply to --mbox; the fields cache already fixes the header kinds")
	}
	if cfg.FieldsPath != "" && cfg.DumpFields {
		return fmt.Errorf("--dump-fields only applies to --mbox")
	}
	if cfg.OutPath == "" {
		return fmt.Errorf("--out must not be empty")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}
