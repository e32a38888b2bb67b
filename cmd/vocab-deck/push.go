// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocab-deck/internal/ankiconnect"
	"github.com/pdiddy/vocab-deck/internal/secrets"
)

var pushCmd = &cobra.Command{
	Use:   "push <input-csv> <deck-name>",
	Short: "Add the deck's cards to a running Anki through AnkiConnect",
	Long: `Push builds the deck and adds every card to Anki through the AnkiConnect
add-on. The top-level deck and one sub-deck per topic are created first.
Cards are always added, even when an identical card already exists.

A per-topic summary of added, duplicate, and failed cards is printed. The
command exits non-zero when any card failed.

The AnkiConnect API key, if one is configured in Anki, is read from
--api-key, VOCAB_DECK_ANKICONNECT_API_KEY, the config file, or
.secrets/ankiconnect-api-key.`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

func init() {
	addCardFlags(pushCmd)
	pushCmd.Flags().String("url", "", "AnkiConnect endpoint (default http://localhost:8765)")
	pushCmd.Flags().String("api-key", "", "AnkiConnect API key")
	pushCmd.Flags().Duration("timeout", 0, "overall time limit for the push (default 30s)")

	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	ac := cfg.AnkiConnect
	if cmd.Flags().Changed("timeout") {
		ac.Timeout, _ = cmd.Flags().GetDuration("timeout")
		if ac.Timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %s", ac.Timeout)
		}
	}
	if cmd.Flags().Changed("url") {
		ac.URL, _ = cmd.Flags().GetString("url")
	}

	res, err := loadDeck(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	flagKey, _ := cmd.Flags().GetString("api-key")
	if flagKey == "" {
		flagKey = ac.APIKey
	}
	apiKey, err := secrets.Resolve(secrets.DefaultDir, secrets.AnkiConnectAPIKey, flagKey)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, ac.Timeout)
	defer cancel()

	client := &ankiconnect.Client{
		BaseURL:    ac.URL,
		HTTPClient: &http.Client{},
		APIKey:     apiKey,
		UserAgent:  ac.UserAgent,
		MaxRetries: ac.MaxRetries,
	}
	results, err := ankiconnect.NewImporter(client, ac).Push(ctx, res.Deck)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderPushSummary(results))

	failed := 0
	for _, r := range results {
		failed += r.Errors
		for _, msg := range r.Messages {
			fmt.Fprintln(out, paint(r.Deck+": "+msg, ansiRed, shouldColorize(out)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d card(s) could not be added", failed)
	}
	return nil
}

// renderPushSummary tabulates per-topic push results with a totals footer.
func renderPushSummary(results []ankiconnect.ImportResult) string {
	var total ankiconnect.ImportResult
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Deck,
			strconv.Itoa(r.Added),
			strconv.Itoa(r.Duplicates),
			strconv.Itoa(r.Errors),
			strconv.Itoa(r.Total()),
		})
		total.Added += r.Added
		total.Duplicates += r.Duplicates
		total.Errors += r.Errors
	}
	footer := []string{
		"Total",
		strconv.Itoa(total.Added),
		strconv.Itoa(total.Duplicates),
		strconv.Itoa(total.Errors),
		strconv.Itoa(total.Total()),
	}
	return renderTable(
		[]string{"Deck", "Added", "Duplicates", "Errors", "Total"},
		rows,
		footer,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}
