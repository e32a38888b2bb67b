// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocab-deck/internal/deck"
	"github.com/pdiddy/vocab-deck/internal/sheet"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input-csv>",
	Short: "Show the topics and card counts a CSV would produce",
	Long: `Inspect parses the CSV and prints one line per topic with the columns it
was read from and the number of cards it yields, followed by any warnings
about ignored data. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output the parsed sheet as JSON")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	table, err := sheet.ReadFile(args[0])
	if err != nil {
		return err
	}
	s, err := deck.Parse(table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintln(out, renderSheet(s))
	writeWarnings(out, s.Warnings, shouldColorize(out))
	return nil
}

// renderSheet tabulates the topics of s.
func renderSheet(s *deck.Sheet) string {
	rows := make([][]string, 0, len(s.Topics))
	for i, t := range s.Topics {
		cols := make([]string, len(t.Blocks))
		for j, b := range t.Blocks {
			cols[j] = deck.ColumnRange(b)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			t.Label,
			strings.Join(cols, ", "),
			strconv.Itoa(len(t.Entries)),
		})
	}
	footer := []string{"", "Total", "", strconv.Itoa(s.EntryCount())}
	return renderTable(
		[]string{"#", "Topic", "Columns", "Cards"},
		rows,
		footer,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	)
}

func writeWarnings(w io.Writer, warnings []string, colorize bool) {
	for _, msg := range warnings {
		fmt.Fprintln(w, paint("warning: "+msg, ansiYellow, colorize))
	}
}
