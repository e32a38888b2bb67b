// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"strings"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

// DefaultTags are attached to every card when Options.Tags is nil.
var DefaultTags = []string{"vocabulary"}

// Options controls card construction.
type Options struct {
	Layout types.CardLayout

	// Tags are added to every card after the topic tag. A nil slice selects
	// DefaultTags; an empty non-nil slice adds none.
	Tags []string
}

// Result is the outcome of Build.
type Result struct {
	Deck  types.Deck
	Sheet *Sheet
}

// Warnings returns the parse warnings for the built deck.
func (r *Result) Warnings() []string {
	return r.Sheet.Warnings
}

// Build parses table and produces a deck named deckName with one sub-deck
// per topic, named "<deckName>::<topic>", and one card per entry.
func Build(table types.RawTable, deckName string, opts Options) (*Result, error) {
	deckName = strings.TrimSpace(deckName)
	if deckName == "" {
		return nil, types.Formatf("deck name is empty")
	}
	layout, err := types.ParseCardLayout(string(opts.Layout))
	if err != nil {
		return nil, err
	}

	sheet, err := Parse(table)
	if err != nil {
		return nil, err
	}

	extra := opts.Tags
	if extra == nil {
		extra = DefaultTags
	}

	d := types.Deck{Name: deckName, SubDecks: make([]types.SubDeck, 0, len(sheet.Topics))}
	for _, topic := range sheet.Topics {
		tags := cardTags(topic.Label, extra)
		sub := types.SubDeck{
			Name:  types.SubDeckName(deckName, topic.Label),
			Topic: topic.Label,
			Cards: make([]types.Flashcard, 0, len(topic.Entries)),
		}
		for _, e := range topic.Entries {
			card := Layout(e, layout)
			card.Tags = tags
			sub.Cards = append(sub.Cards, card)
		}
		d.SubDecks = append(d.SubDecks, sub)
	}

	return &Result{Deck: d, Sheet: sheet}, nil
}

// Layout builds the front and back of a card from e.
func Layout(e types.VocabEntry, layout types.CardLayout) types.Flashcard {
	card := types.Flashcard{Front: e.Word, Back: e.Translation, Script: e.Script}
	if e.Script == "" {
		return card
	}
	switch layout {
	case types.LayoutAnnotated:
		card.Front = e.Word + " (" + e.Script + ")"
	case types.LayoutScriptFirst:
		card.Front = e.Script
		card.Back = e.Word + " | " + e.Translation
	}
	return card
}

// cardTags returns the topic tag followed by extra, with whitespace inside
// each tag replaced by underscores and empty or repeated tags dropped.
// Anki separates tags by spaces.
func cardTags(topic string, extra []string) []string {
	tags := make([]string, 0, len(extra)+1)
	seen := make(map[string]bool)
	for _, t := range append([]string{topic}, extra...) {
		t = strings.Join(strings.Fields(t), "_")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// Merge returns a deck holding the sub-decks of a followed by those of b.
// Sub-decks with the same name are joined, b's cards after a's. Cards are
// never deduplicated: merging a deck with itself doubles every sub-deck.
func Merge(a, b types.Deck) types.Deck {
	out := types.Deck{Name: a.Name}
	index := make(map[string]int)
	for _, src := range [][]types.SubDeck{a.SubDecks, b.SubDecks} {
		for _, sub := range src {
			i, ok := index[sub.Name]
			if !ok {
				index[sub.Name] = len(out.SubDecks)
				out.SubDecks = append(out.SubDecks, types.SubDeck{Name: sub.Name, Topic: sub.Topic})
				i = len(out.SubDecks) - 1
			}
			out.SubDecks[i].Cards = append(out.SubDecks[i].Cards, sub.Cards...)
		}
	}
	return out
}
