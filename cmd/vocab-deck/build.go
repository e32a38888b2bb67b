// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocab-deck/internal/apkg"
	"github.com/pdiddy/vocab-deck/internal/deck"
	"github.com/pdiddy/vocab-deck/internal/export"
	"github.com/pdiddy/vocab-deck/internal/fileutil"
	"github.com/pdiddy/vocab-deck/internal/sheet"
	"github.com/pdiddy/vocab-deck/pkg/types"
)

func runBuild(cmd *cobra.Command, args []string) error {
	input, deckName := args[0], args[1]

	res, err := loadDeck(cmd, input, deckName)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	out := cfg.Output.Path
	if out == "" {
		out = defaultOutputPath(input, res.Deck.Name, format)
	}
	if samePath(out, input) {
		return fmt.Errorf("output %s would overwrite the input file", out)
	}

	data, err := export.Render(res.Deck, format, apkg.Options{Created: inputModTime(input)})
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(out, data, 0o644); err != nil {
		return err
	}

	slog.Debug("wrote deck", "path", out, "format", format, "bytes", len(data))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d card(s) in %d topic(s) to %s\n",
		res.Deck.CardCount(), len(res.Deck.SubDecks), out)
	return nil
}

// loadDeck reads input and builds the deck, logging parse warnings.
func loadDeck(cmd *cobra.Command, input, deckName string) (*deck.Result, error) {
	layout, tags, err := cardOptions(cmd)
	if err != nil {
		return nil, err
	}

	table, err := sheet.ReadFile(input)
	if err != nil {
		return nil, err
	}
	res, err := deck.Build(table, deckName, deck.Options{Layout: layout, Tags: tags})
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings() {
		slog.Warn(w, "input", input)
	}
	slog.Debug("built deck",
		"deck", res.Deck.Name,
		"topics", len(res.Deck.SubDecks),
		"cards", res.Deck.CardCount(),
		"layout", layout,
	)
	return res, nil
}

// defaultOutputPath places "<slug>.<ext>" in the input file's directory.
func defaultOutputPath(input, deckName string, format types.OutputFormat) string {
	return filepath.Join(filepath.Dir(input), slug(deckName)+"."+format.Extension())
}

// slug turns a deck name into a file name: runs of characters other than
// letters, digits, '-', '_' and '.' become a single '-'.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.Trim(b.String(), "-.")
	if s == "" {
		return "deck"
	}
	return s
}

// inputModTime stamps packages with the input's modification time so
// rebuilding an unchanged file gives the same package.
func inputModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
