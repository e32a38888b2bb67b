// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the CLI configuration from defaults, the config
// file, VOCAB_DECK_* environment variables, and bound command flags.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/vocab-deck/internal/ankiconnect"
	"github.com/pdiddy/vocab-deck/internal/logging"
	"github.com/pdiddy/vocab-deck/pkg/types"
)

const (
	// Name is the config file base name, searched as vocab-deck.yaml.
	Name = "vocab-deck"

	// EnvPrefix prefixes environment overrides, e.g. VOCAB_DECK_OUTPUT_FORMAT.
	EnvPrefix = "VOCAB_DECK"
)

// Config keys.
const (
	KeyOutputFormat = "output.format"
	KeyOutputPath   = "output.path"
	KeyCardLayout   = "cards.layout"
	KeyCardTags     = "cards.tags"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"

	KeyAnkiURL         = "ankiconnect.url"
	KeyAnkiAPIKey      = "ankiconnect.api_key"
	KeyAnkiModel       = "ankiconnect.model"
	KeyAnkiFrontField  = "ankiconnect.front_field"
	KeyAnkiBackField   = "ankiconnect.back_field"
	KeyAnkiScriptField = "ankiconnect.script_field"
	KeyAnkiTimeout     = "ankiconnect.timeout"
	KeyAnkiUserAgent   = "ankiconnect.user_agent"
	KeyAnkiMaxRetries  = "ankiconnect.max_retries"
)

// DefaultUserAgent is sent to AnkiConnect unless configured otherwise.
const DefaultUserAgent = "vocab-deck/0.1"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutputFormat, string(types.FormatAPKG))
	v.SetDefault(KeyOutputPath, "")
	v.SetDefault(KeyCardLayout, string(types.LayoutPlain))
	v.SetDefault(KeyCardTags, []string{"vocabulary"})
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetDefault(KeyAnkiURL, ankiconnect.DefaultURL)
	v.SetDefault(KeyAnkiAPIKey, "")
	v.SetDefault(KeyAnkiModel, ankiconnect.DefaultModel)
	v.SetDefault(KeyAnkiFrontField, ankiconnect.DefaultFrontField)
	v.SetDefault(KeyAnkiBackField, ankiconnect.DefaultBackField)
	v.SetDefault(KeyAnkiScriptField, "")
	v.SetDefault(KeyAnkiTimeout, 30*time.Second)
	v.SetDefault(KeyAnkiUserAgent, DefaultUserAgent)
	v.SetDefault(KeyAnkiMaxRetries, 3)
}

// Configure registers defaults and environment overrides on v.
func Configure(v *viper.Viper) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it. Format and layout names
// are normalised (e.g. "yml" becomes "yaml").
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cfg and normalises its enumerated values in place.
func Validate(cfg *types.Config) error {
	format, err := types.ParseOutputFormat(string(cfg.Output.Format))
	if err != nil {
		return fmt.Errorf("%s: %w", KeyOutputFormat, err)
	}
	cfg.Output.Format = format

	layout, err := types.ParseCardLayout(string(cfg.Cards.Layout))
	if err != nil {
		return fmt.Errorf("%s: %w", KeyCardLayout, err)
	}
	cfg.Cards.Layout = layout

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%s: unknown log format %q: use text or json", KeyLogFormat, cfg.Log.Format)
	}

	ac := cfg.AnkiConnect
	u, err := url.Parse(ac.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s: %q is not an absolute URL", KeyAnkiURL, ac.URL)
	}
	if ac.Timeout <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", KeyAnkiTimeout, ac.Timeout)
	}
	if ac.MaxRetries < 0 {
		return fmt.Errorf("%s: must not be negative, got %d", KeyAnkiMaxRetries, ac.MaxRetries)
	}
	return nil
}
