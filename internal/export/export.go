// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a built deck in the supported output formats:
// Anki packages, Anki's text import format, JSON, and YAML.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vocab-deck/internal/apkg"
	"github.com/pdiddy/vocab-deck/pkg/types"
)

// Document is the JSON and YAML form of a deck.
type Document struct {
	Deck      string          `json:"deck" yaml:"deck"`
	CardCount int             `json:"card_count" yaml:"card_count"`
	Topics    []DocumentTopic `json:"topics" yaml:"topics"`
}

// DocumentTopic holds one sub-deck of a Document.
type DocumentTopic struct {
	Topic     string            `json:"topic" yaml:"topic"`
	Deck      string            `json:"deck" yaml:"deck"`
	CardCount int               `json:"card_count" yaml:"card_count"`
	Cards     []types.Flashcard `json:"cards" yaml:"cards"`
}

// NewDocument converts d to its document form.
func NewDocument(d types.Deck) Document {
	doc := Document{
		Deck:      d.Name,
		CardCount: d.CardCount(),
		Topics:    make([]DocumentTopic, len(d.SubDecks)),
	}
	for i, s := range d.SubDecks {
		cards := s.Cards
		if cards == nil {
			cards = []types.Flashcard{}
		}
		doc.Topics[i] = DocumentTopic{
			Topic:     s.Topic,
			Deck:      s.Name,
			CardCount: len(s.Cards),
			Cards:     cards,
		}
	}
	return doc
}

// Render serialises d in format. opts is used only for FormatAPKG.
func Render(d types.Deck, format types.OutputFormat, opts apkg.Options) ([]byte, error) {
	switch format {
	case types.FormatAPKG, "":
		return apkg.Build(d, opts)
	case types.FormatText:
		return Text(d)
	case types.FormatJSON:
		return JSON(d)
	case types.FormatYAML:
		return YAML(d)
	default:
		return nil, fmt.Errorf("unsupported format %q: use apkg, txt, json, or yaml", format)
	}
}

// JSON renders d as indented JSON.
func JSON(d types.Deck) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(d), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// YAML renders d as YAML.
func YAML(d types.Deck) ([]byte, error) {
	doc := NewDocument(d)
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return data, nil
}

// textHeaders are Anki's file headers for text import. They tell the
// importer which column names the deck and which the tags, so one file
// can fill every sub-deck.
var textHeaders = []string{
	"#separator:tab",
	"#html:false",
	"#notetype:Basic",
	"#deck column:1",
	"#tags column:4",
}

// Text renders d in Anki's tab-separated import format with columns
// deck, front, back, tags. The Basic note type has no script field, so a
// card's script-form is folded onto its front.
func Text(d types.Deck) ([]byte, error) {
	var buf bytes.Buffer
	for _, h := range textHeaders {
		buf.WriteString(h)
		buf.WriteByte('\n')
	}

	w := csv.NewWriter(&buf)
	w.Comma = '\t'
	for _, s := range d.SubDecks {
		for _, c := range s.Cards {
			c = c.WithScriptOnFront()
			record := []string{s.Name, c.Front, c.Back, strings.Join(c.Tags, " ")}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("writing text row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing text rows: %w", err)
	}
	return buf.Bytes(), nil
}
