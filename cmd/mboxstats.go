package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesTLiu/mbox-to-contacts/mbox"
	"github.com/JamesTLiu/mbox-to-contacts/stats"
)

var trackedHeaders = []string{"Delivered-To", "Subject", "From", "To"}

const csvReportLimit = 1000

// NewMboxStatsCommand builds the mbox-stats subcommand: a quick survey of an
// archive's most frequent header values, useful for eyeballing which
// correspondents dominate a mailbox before extracting contacts.
func NewMboxStatsCommand() *cobra.Command {
	var (
		reportDir string
		topN      int
	)

	statsCmd := &cobra.Command{
		Use:   "mbox-stats [mbox file]",
		Short: "Analyse the mbox file and show header statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			mboxPath := args[0]

			fmt.Println("Analyzing mbox file:", mboxPath)

			counter := stats.NewCounter(trackedHeaders...)
			messageCount := 0

			printStats := func() {
				// ANSI escape code to clear screen and move cursor to top-left
				fmt.Print("\033[H\033[2J")
				fmt.Printf("Processed %d messages...\n\n", messageCount)

				for _, header := range trackedHeaders {
					fmt.Printf("Top %d %s:\n", topN, header)
					stats.PrettyPrintTop(counter[header], topN)
					fmt.Println()
				}
			}

			err := mbox.Read(mboxPath, nil, func(r mbox.Record) error {
				messageCount++
				for _, header := range trackedHeaders {
					counter.Observe(header, r.Header.Get(header))
				}

				if messageCount%250 == 0 {
					printStats()
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("error reading mbox file: %w", err)
			}

			printStats()

			if err := saveCSVReports(counter, reportDir); err != nil {
				return fmt.Errorf("error saving CSV reports: %w", err)
			}

			fmt.Printf("\nReports saved to directory: %s\n", reportDir)

			return nil
		},
	}

	statsCmd.Flags().StringVarP(&reportDir, "output", "o", ".", "Output directory for CSV reports")
	statsCmd.Flags().IntVarP(&topN, "top", "t", 10, "Number of top items to display in statistics")

	return statsCmd
}

func saveCSVReports(counter stats.Counter, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, header := range trackedHeaders {
		filename := fmt.Sprintf("report_%s.csv", normalizeHeaderName(header))
		filePath := filepath.Join(dir, filename)

		if err := writeCSVReport(filePath, counter.Top(header, csvReportLimit)); err != nil {
			return err
		}
	}

	return nil
}

func writeCSVReport(path string, pairs []stats.Pair) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Value", "Count"}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := writer.Write([]string{p.Key, strconv.Itoa(p.Count)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func normalizeHeaderName(header string) string {
	name := strings.ToLower(header)
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
