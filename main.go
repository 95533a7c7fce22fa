package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JamesTLiu/mbox-to-contacts/cmd"
	"github.com/JamesTLiu/mbox-to-contacts/config"
	"github.com/JamesTLiu/mbox-to-contacts/runner"
	"github.com/JamesTLiu/mbox-to-contacts/stats"
)

const logFileName = "log.txt"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mbox-to-contacts",
		Short: "Extract contact email addresses and names from an mbox archive",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(c)
			if err != nil {
				return err
			}

			logger, counting, cleanup, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			slog.SetDefault(logger)
			logger.Info("starting mbox-to-contacts",
				"mbox", cfg.MboxPath, "fieldsJSON", cfg.FieldsPath, "out", cfg.OutPath,
				"omitFrom", cfg.OmitFrom, "omitTo", cfg.OmitTo, "dumpFields", cfg.DumpFields)

			_, runErr := runner.New(cfg, logger).Run()

			if n := counting.Warnings(); n > 0 {
				logPath, _ := filepath.Abs(logFileName)
				logger.Info(fmt.Sprintf(
					"%d warnings found! Please check the log file to avoid missing potential contacts: %s", n, logPath))
			}

			return runErr
		},
	}

	if err := config.RegisterFlags(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register CLI flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(cmd.NewMboxStatsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger builds a logger that mirrors everything to the console and to
// log.txt, so skipped records can be audited after the run. The log file is
// rewritten on every run. The returned counting handler reports how many
// warnings were emitted.
func setupLogger(cfg config.Config) (*slog.Logger, *stats.CountingHandler, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	opts := &slog.HandlerOptions{Level: level}

	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := stats.NewCountingHandler(slog.NewTextHandler(io.MultiWriter(os.Stdout, file), opts))
	cleanup := func() error {
		return file.Close()
	}

	return slog.New(handler), handler, cleanup, nil
}
