// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ankiconnect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

// Default note type and field names.
const (
	DefaultModel      = "Basic"
	DefaultFrontField = "Front"
	DefaultBackField  = "Back"
)

// ImportResult counts the outcome of pushing one topic's cards.
type ImportResult struct {
	Topic      string `json:"topic" yaml:"topic"`
	Deck       string `json:"deck" yaml:"deck"`
	Added      int    `json:"added" yaml:"added"`
	Duplicates int    `json:"duplicates" yaml:"duplicates"`
	Errors     int    `json:"errors" yaml:"errors"`

	// Messages holds the error text of each failed note.
	Messages []string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Total returns the number of cards the topic contributed.
func (r ImportResult) Total() int {
	return r.Added + r.Duplicates + r.Errors
}

// Importer pushes decks into Anki.
type Importer struct {
	Client *Client

	// Model is the note type for added notes. Empty selects DefaultModel.
	Model string

	// FrontField and BackField name the note type's fields. Empty selects
	// DefaultFrontField and DefaultBackField.
	FrontField string
	BackField  string

	// ScriptField receives the card's script-form when set. When empty the
	// script-form is folded onto the front so it is never dropped.
	ScriptField string
}

// NewImporter returns an importer configured from cfg.
func NewImporter(client *Client, cfg types.AnkiConnectConfig) *Importer {
	return &Importer{
		Client:     client,
		Model:      cfg.Model,
		FrontField: cfg.FrontField,
		BackField:  cfg.BackField,

		ScriptField: cfg.ScriptField,
	}
}

// Push checks that AnkiConnect is reachable, creates the top-level deck and
// any missing sub-decks, then adds each sub-deck's cards. It returns one
// result per sub-deck. Notes rejected by Anki are counted, not returned as
// errors; Push fails only when Anki cannot be reached or a deck cannot be
// created.
func (im *Importer) Push(ctx context.Context, d types.Deck) ([]ImportResult, error) {
	v, err := im.Client.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to Anki (is Anki running with AnkiConnect installed?): %w", err)
	}
	slog.Debug("connected to AnkiConnect", "version", v)

	existing, err := im.Client.DeckNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	names := []string{d.Name}
	for _, sub := range d.SubDecks {
		names = append(names, sub.Name)
	}
	for _, name := range names {
		if have[name] {
			slog.Debug("deck exists", "deck", name)
			continue
		}
		id, err := im.Client.CreateDeck(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("creating deck %q: %w", name, err)
		}
		have[name] = true
		slog.Debug("created deck", "deck", name, "id", id)
	}

	results := make([]ImportResult, 0, len(d.SubDecks))
	for _, sub := range d.SubDecks {
		r, err := im.pushSubDeck(ctx, sub)
		if err != nil {
			return results, err
		}
		slog.Info("pushed topic",
			"deck", sub.Name,
			"added", r.Added,
			"duplicates", r.Duplicates,
			"errors", r.Errors,
		)
		results = append(results, r)
	}
	return results, nil
}

func (im *Importer) pushSubDeck(ctx context.Context, sub types.SubDeck) (ImportResult, error) {
	r := ImportResult{Topic: sub.Topic, Deck: sub.Name}

	notes := make([]Note, len(sub.Cards))
	for i, c := range sub.Cards {
		notes[i] = im.note(sub.Name, c)
	}

	added, err := im.Client.AddNotes(ctx, notes)
	if err != nil {
		return r, fmt.Errorf("adding notes to %q: %w", sub.Name, err)
	}
	for _, a := range added {
		switch {
		case a.Err == nil:
			r.Added++
		case IsDuplicate(a.Err):
			r.Duplicates++
		default:
			r.Errors++
			r.Messages = append(r.Messages, a.Err.Error())
		}
	}
	return r, nil
}

// note converts a card to an AnkiConnect note. Duplicates are allowed so
// repeated pushes add every card again.
func (im *Importer) note(deckName string, c types.Flashcard) Note {
	fields := make(map[string]string, 3)
	if im.ScriptField != "" {
		if c.Script != "" {
			fields[im.ScriptField] = c.Script
		}
	} else {
		c = c.WithScriptOnFront()
	}
	fields[orDefault(im.FrontField, DefaultFrontField)] = c.Front
	fields[orDefault(im.BackField, DefaultBackField)] = c.Back

	return Note{
		DeckName:  deckName,
		ModelName: orDefault(im.Model, DefaultModel),
		Fields:    fields,
		Tags:      c.Tags,
		Options: &NoteOptions{
			AllowDuplicate: true,
			DuplicateScope: "deck",
			DuplicateScopeOptions: &DuplicateScopeOptions{
				DeckName: deckName,
			},
		},
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
