package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout bounds a whole command's network work.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "vocab-deck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 3);
	// 0 disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputConfig holds settings for writing a built deck to disk.
type OutputConfig struct {
	// Format selects apkg, txt, json, or yaml.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Path is the output file. Empty derives "<deck>.<ext>" next to the input.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// CardConfig holds settings for laying out cards.
type CardConfig struct {
	// Layout selects plain, annotated, or script-first.
	Layout CardLayout `json:"layout" yaml:"layout" mapstructure:"layout"`

	// Tags are attached to every card in addition to the topic tag.
	Tags []string `json:"tags" yaml:"tags" mapstructure:"tags"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AnkiConnectConfig holds settings for pushing decks to a running Anki.
type AnkiConnectConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the AnkiConnect endpoint (default http://localhost:8765).
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// APIKey is the optional AnkiConnect "key" value.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Model is the note type used for added notes (default "Basic").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// FrontField and BackField name the note type's fields.
	FrontField string `json:"front_field" yaml:"front_field" mapstructure:"front_field"`
	BackField  string `json:"back_field" yaml:"back_field" mapstructure:"back_field"`

	// ScriptField names a note type field that receives the script-form.
	// Empty folds the script-form onto the front instead.
	ScriptField string `json:"script_field,omitempty" yaml:"script_field,omitempty" mapstructure:"script_field"`
}

// Config groups every setting the CLI reads from flags, environment, and
// the config file.
type Config struct {
	Output      OutputConfig      `json:"output" yaml:"output" mapstructure:"output"`
	Cards       CardConfig        `json:"cards" yaml:"cards" mapstructure:"cards"`
	Log         LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
	AnkiConnect AnkiConnectConfig `json:"ankiconnect" yaml:"ankiconnect" mapstructure:"ankiconnect"`
}
