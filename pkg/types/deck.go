// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// DeckSeparator joins parent and child deck names. Anki reads
// "JP101::Numbers" as the Numbers sub-deck of JP101.
const DeckSeparator = "::"

// TopicBlock is one three-column group of the table together with the
// topic label read from row 0 at its first column.
type TopicBlock struct {
	// Index is the zero-based group number, counted left to right.
	Index int `json:"index" yaml:"index"`

	// Column is the zero-based column of the group's word cell.
	Column int `json:"column" yaml:"column"`

	// Label is the trimmed topic label. Empty for skipped groups.
	Label string `json:"label" yaml:"label"`
}

// VocabEntry is one word/translation/script-form triple.
type VocabEntry struct {
	Word        string `json:"word" yaml:"word"`
	Translation string `json:"translation" yaml:"translation"`
	Script      string `json:"script,omitempty" yaml:"script,omitempty"`

	// Row is the zero-based table row the entry was read from.
	Row int `json:"row" yaml:"row"`
}

// Topic groups the entries of every block that shares one label, in the
// order they were encountered.
type Topic struct {
	Label   string       `json:"label" yaml:"label"`
	Blocks  []TopicBlock `json:"blocks" yaml:"blocks"`
	Entries []VocabEntry `json:"entries" yaml:"entries"`
}

// CardLayout selects how a vocabulary entry is laid out on a card.
type CardLayout string

const (
	// LayoutPlain puts the word on the front and the translation on the back.
	LayoutPlain CardLayout = "plain"

	// LayoutAnnotated appends the script-form to the word on the front.
	LayoutAnnotated CardLayout = "annotated"

	// LayoutScriptFirst shows the script-form on the front when present and
	// moves the word to the back next to the translation.
	LayoutScriptFirst CardLayout = "script-first"
)

// ParseCardLayout validates a layout name. The empty string selects LayoutPlain.
func ParseCardLayout(s string) (CardLayout, error) {
	switch CardLayout(s) {
	case "", LayoutPlain:
		return LayoutPlain, nil
	case LayoutAnnotated, LayoutScriptFirst:
		return CardLayout(s), nil
	default:
		return "", fmt.Errorf("unknown card layout %q: use plain, annotated, or script-first", s)
	}
}

// Flashcard is one front/back study unit. Cards have no identity beyond
// their position in a sub-deck.
type Flashcard struct {
	Front  string   `json:"front" yaml:"front"`
	Back   string   `json:"back" yaml:"back"`
	Script string   `json:"script,omitempty" yaml:"script,omitempty"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// WithScriptOnFront returns the card for targets that have no Script field:
// when the script-form is not already shown on the front or back, it is
// appended to the front as "front (script)".
func (c Flashcard) WithScriptOnFront() Flashcard {
	if c.Script == "" || strings.Contains(c.Front, c.Script) || strings.Contains(c.Back, c.Script) {
		return c
	}
	c.Front = c.Front + " (" + c.Script + ")"
	return c
}

// SubDeck holds the cards of one topic.
type SubDeck struct {
	// Name is the full hierarchical deck name, e.g. "JP101::Numbers".
	Name string `json:"name" yaml:"name"`

	// Topic is the topic label the sub-deck was built from.
	Topic string `json:"topic" yaml:"topic"`

	Cards []Flashcard `json:"cards" yaml:"cards"`
}

// Deck is the conversion output: a user-named top-level deck containing
// one sub-deck per topic in order of first appearance.
type Deck struct {
	Name     string    `json:"name" yaml:"name"`
	SubDecks []SubDeck `json:"sub_decks" yaml:"sub_decks"`
}

// CardCount returns the number of cards across all sub-decks.
func (d Deck) CardCount() int {
	n := 0
	for _, s := range d.SubDecks {
		n += len(s.Cards)
	}
	return n
}

// SubDeckName returns the hierarchical name of topic under deckName.
func SubDeckName(deckName, topic string) string {
	return deckName + DeckSeparator + topic
}

// OutputFormat selects the serialisation of a built deck.
type OutputFormat string

const (
	FormatAPKG OutputFormat = "apkg"
	FormatText OutputFormat = "txt"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a format name. The empty string selects FormatAPKG.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatAPKG:
		return FormatAPKG, nil
	case FormatText, FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use apkg, txt, json, or yaml", s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f OutputFormat) Extension() string {
	return string(f)
}
