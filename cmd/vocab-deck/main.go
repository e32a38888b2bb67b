// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vocab-deck CLI, which turns a
// topic-grouped vocabulary CSV into an Anki deck.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vocab-deck/internal/config"
	"github.com/pdiddy/vocab-deck/internal/logging"
	"github.com/pdiddy/vocab-deck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitFormat = 2
)

// cfg holds the configuration loaded before each command runs.
var cfg types.Config

// rootCmd builds a deck file when invoked with an input CSV and a deck name.
var rootCmd = &cobra.Command{
	Use:   "vocab-deck <input-csv> <deck-name>",
	Short: "Convert a topic-grouped vocabulary CSV into an Anki deck",
	Long: `vocab-deck reads a CSV laid out as repeating three-column groups
(word, translation, script-form) with a topic label above each group, and
writes an Anki deck with one sub-deck per topic and one card per word.

Expected layout:
  Row 1: Greetings,,,Numbers,,
  Row 2: word,translation,kanji,word,translation,kanji
  Row 3: hello,konnichiwa,こんにちは,one,ichi,一

The deck is written as an Anki package (.apkg) by default. Use push to send
it straight to a running Anki through AnkiConnect, or inspect to preview the
topics without writing anything.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		if f := viper.ConfigFileUsed(); f != "" {
			slog.Debug("using config file", "path", f)
		}
		return nil
	},
	RunE: runBuild,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./vocab-deck.yaml or ~/.config/vocab-deck/vocab-deck.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	viper.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))

	addCardFlags(rootCmd)
	f := rootCmd.Flags()
	f.StringP("output", "o", "", "output file (default: <deck-name>.<format> next to the input)")
	f.String("format", "", "output format: apkg, txt, json, yaml (default apkg)")
	viper.BindPFlag(config.KeyOutputPath, f.Lookup("output"))
	viper.BindPFlag(config.KeyOutputFormat, f.Lookup("format"))
}

// addCardFlags registers the flags that shape cards on cmd. They override
// the config only when set.
func addCardFlags(cmd *cobra.Command) {
	cmd.Flags().String("layout", "", "card layout: plain, annotated, script-first (default plain)")
	cmd.Flags().StringSlice("tag", nil, "tag added to every card (repeatable; default vocabulary)")
}

// cardOptions returns the card layout and tags, preferring flags set on cmd.
func cardOptions(cmd *cobra.Command) (types.CardLayout, []string, error) {
	layout := cfg.Cards.Layout
	if cmd.Flags().Changed("layout") {
		s, _ := cmd.Flags().GetString("layout")
		l, err := types.ParseCardLayout(s)
		if err != nil {
			return "", nil, err
		}
		layout = l
	}
	tags := cfg.Cards.Tags
	if cmd.Flags().Changed("tag") {
		tags, _ = cmd.Flags().GetStringSlice("tag")
	}
	if tags == nil {
		tags = []string{}
	}
	return layout, tags, nil
}

func initConfig() {
	config.Configure(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.Name)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", config.Name))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var fe *types.FormatError
	if errors.As(err, &fe) {
		return exitFormat
	}
	return exitFailed
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}
