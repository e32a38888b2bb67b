package deck

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

// --- test helpers ---

// tableFromLines splits each line on commas, as the CSV reader would for
// unquoted input.
func tableFromLines(lines ...string) types.RawTable {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = strings.Split(l, ",")
	}
	return types.NewRawTable(rows...)
}

func jp101() types.RawTable {
	return tableFromLines(
		"Greetings,,,Numbers,,",
		"word,translation,kanji,word,translation,kanji",
		"hello,konnichiwa,こんにちは,one,ichi,一",
		",,,two,ni,二",
	)
}

func requireFormatError(t *testing.T, err error) *types.FormatError {
	t.Helper()
	require.Error(t, err)
	var fe *types.FormatError
	require.True(t, errors.As(err, &fe), "want *types.FormatError, got %T: %v", err, err)
	return fe
}

// --- build tests ---

func TestBuildExample(t *testing.T) {
	res, err := Build(jp101(), "JP101", Options{})
	require.NoError(t, err)

	d := res.Deck
	assert.Equal(t, "JP101", d.Name)
	require.Len(t, d.SubDecks, 2)

	greetings := d.SubDecks[0]
	assert.Equal(t, "JP101::Greetings", greetings.Name)
	assert.Equal(t, "Greetings", greetings.Topic)
	require.Len(t, greetings.Cards, 1)
	assert.Equal(t, "hello", greetings.Cards[0].Front)
	assert.Equal(t, "konnichiwa", greetings.Cards[0].Back)
	assert.Equal(t, "こんにちは", greetings.Cards[0].Script)

	numbers := d.SubDecks[1]
	assert.Equal(t, "JP101::Numbers", numbers.Name)
	require.Len(t, numbers.Cards, 2)
	assert.Equal(t, "one", numbers.Cards[0].Front)
	assert.Equal(t, "ichi", numbers.Cards[0].Back)
	assert.Equal(t, "two", numbers.Cards[1].Front)
	assert.Equal(t, "ni", numbers.Cards[1].Back)

	assert.Equal(t, 3, d.CardCount())
	assert.Empty(t, res.Warnings())
}

func TestBuildCounts(t *testing.T) {
	tests := []struct {
		name       string
		table      types.RawTable
		wantTopics []string
		wantCards  []int
	}{
		{
			name:       "header rows only",
			table:      tableFromLines("A,,,B,,", "word,translation,kanji,word,translation,kanji"),
			wantTopics: []string{"A", "B"},
			wantCards:  []int{0, 0},
		},
		{
			name: "unequal list lengths",
			table: tableFromLines(
				"A,,,B,,,C,,",
				"w,t,k,w,t,k,w,t,k",
				"a1,x,,b1,x,,c1,x,",
				"a2,x,,,,,c2,x,",
				",,,,,,c3,x,",
			),
			wantTopics: []string{"A", "B", "C"},
			wantCards:  []int{2, 1, 3},
		},
		{
			name: "gap rows do not end a topic",
			table: tableFromLines(
				"A,,",
				"w,t,k",
				"a1,x,",
				",,",
				"a3,x,",
			),
			wantTopics: []string{"A"},
			wantCards:  []int{2},
		},
		{
			name: "short rows read as empty",
			table: tableFromLines(
				"A,,,B,,",
				"w,t,k,w,t,k",
				"a1",
				"a2,x,y,b1",
			),
			wantTopics: []string{"A", "B"},
			wantCards:  []int{2, 1},
		},
		{
			name: "row zero narrower than data",
			table: tableFromLines(
				"A",
				"w,t,k",
				"a1,x,y",
			),
			wantTopics: []string{"A"},
			wantCards:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(tt.table, "Deck", Options{})
			require.NoError(t, err)

			var topics []string
			var cards []int
			total := 0
			for _, s := range res.Deck.SubDecks {
				topics = append(topics, s.Topic)
				cards = append(cards, len(s.Cards))
				total += len(s.Cards)
			}
			assert.Equal(t, tt.wantTopics, topics)
			assert.Equal(t, tt.wantCards, cards)
			assert.Equal(t, total, res.Deck.CardCount())
			assert.Equal(t, total, res.Sheet.EntryCount())
		})
	}
}

func TestBuildEmptyWordSkipsRowForTopic(t *testing.T) {
	table := tableFromLines(
		"A,,,B,,",
		"w,t,k,w,t,k",
		",orphan,孤,b1,x,",
		"a2,x,,,also orphan,",
	)
	res, err := Build(table, "D", Options{})
	require.NoError(t, err)

	require.Len(t, res.Deck.SubDecks, 2)
	require.Len(t, res.Deck.SubDecks[0].Cards, 1)
	assert.Equal(t, "a2", res.Deck.SubDecks[0].Cards[0].Front)
	require.Len(t, res.Deck.SubDecks[1].Cards, 1)
	assert.Equal(t, "b1", res.Deck.SubDecks[1].Cards[0].Front)

	require.Len(t, res.Warnings(), 2)
	assert.Contains(t, res.Warnings()[0], `row 3, topic "A"`)
	assert.Contains(t, res.Warnings()[1], `row 4, topic "B"`)
}

func TestBuildSkipsEmptyTopicLabel(t *testing.T) {
	table := tableFromLines(
		"A,,,,,,C,,",
		"w,t,k,w,t,k,w,t,k",
		"a1,x,,lost,x,,c1,x,",
	)
	res, err := Build(table, "D", Options{})
	require.NoError(t, err)

	require.Len(t, res.Deck.SubDecks, 2)
	assert.Equal(t, "D::A", res.Deck.SubDecks[0].Name)
	assert.Equal(t, "D::C", res.Deck.SubDecks[1].Name)

	require.Len(t, res.Sheet.Blocks, 3)
	assert.Equal(t, "", res.Sheet.Blocks[1].Label)
	assert.Equal(t, 3, res.Sheet.Blocks[1].Column)

	require.Len(t, res.Warnings(), 1)
	assert.Contains(t, res.Warnings()[0], "columns D-F")
}

func TestBuildRepeatedLabelMergesInOrder(t *testing.T) {
	table := tableFromLines(
		"Verbs,,,Nouns,,,Verbs,,",
		"w,t,k,w,t,k,w,t,k",
		"taberu,eat,,inu,dog,,nomu,drink,",
	)
	res, err := Build(table, "D", Options{})
	require.NoError(t, err)

	require.Len(t, res.Deck.SubDecks, 2)
	verbs := res.Deck.SubDecks[0]
	assert.Equal(t, "Verbs", verbs.Topic)
	require.Len(t, verbs.Cards, 2)
	assert.Equal(t, "taberu", verbs.Cards[0].Front)
	assert.Equal(t, "nomu", verbs.Cards[1].Front)
	assert.Len(t, res.Sheet.Topics[0].Blocks, 2)
}

func TestBuildKeepsDuplicateCards(t *testing.T) {
	table := tableFromLines(
		"A,,",
		"w,t,k",
		"same,x,",
		"same,x,",
	)
	res, err := Build(table, "D", Options{})
	require.NoError(t, err)
	require.Len(t, res.Deck.SubDecks[0].Cards, 2)
	assert.Equal(t, res.Deck.SubDecks[0].Cards[0], res.Deck.SubDecks[0].Cards[1])
}

func TestBuildFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		table    types.RawTable
		deckName string
		wantMsg  string
	}{
		{"no rows", types.RawTable{}, "D", "0 row(s)"},
		{"single row", tableFromLines("A,,"), "D", "1 row(s)"},
		{"first cell empty", tableFromLines(",,,B,,", "w,t,k,w,t,k", "a,b,c,d,e,f"), "D", "first cell"},
		{"blank deck name", jp101(), "   ", "deck name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.table, tt.deckName, Options{})
			fe := requireFormatError(t, err)
			assert.Contains(t, fe.Reason, tt.wantMsg)
			assert.Contains(t, err.Error(), "expected CSV template")
		})
	}
}

func TestBuildUnknownLayout(t *testing.T) {
	_, err := Build(jp101(), "JP101", Options{Layout: "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown card layout")
}

func TestBuildIsRepeatable(t *testing.T) {
	first, err := Build(jp101(), "JP101", Options{})
	require.NoError(t, err)
	second, err := Build(jp101(), "JP101", Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Deck, second.Deck)
}

// --- layout tests ---

func TestLayout(t *testing.T) {
	withScript := types.VocabEntry{Word: "おどろく", Translation: "to be surprised", Script: "驚く"}
	noScript := types.VocabEntry{Word: "はやい", Translation: "fast"}

	tests := []struct {
		name      string
		entry     types.VocabEntry
		layout    types.CardLayout
		wantFront string
		wantBack  string
	}{
		{"plain with script", withScript, types.LayoutPlain, "おどろく", "to be surprised"},
		{"annotated with script", withScript, types.LayoutAnnotated, "おどろく (驚く)", "to be surprised"},
		{"annotated without script", noScript, types.LayoutAnnotated, "はやい", "fast"},
		{"script-first with script", withScript, types.LayoutScriptFirst, "驚く", "おどろく | to be surprised"},
		{"script-first without script", noScript, types.LayoutScriptFirst, "はやい", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Layout(tt.entry, tt.layout)
			assert.Equal(t, tt.wantFront, card.Front)
			assert.Equal(t, tt.wantBack, card.Back)
			assert.Equal(t, tt.entry.Script, card.Script)
		})
	}
}

func TestBuildTags(t *testing.T) {
	table := tableFromLines("Daily Life,,", "w,t,k", "ie,house,家")

	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"default tags", nil, []string{"Daily_Life", "vocabulary"}},
		{"no extra tags", []string{}, []string{"Daily_Life"}},
		{"custom tags", []string{"japanese", " ", "jp 101", "japanese"}, []string{"Daily_Life", "japanese", "jp_101"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(table, "D", Options{Tags: tt.tags})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Deck.SubDecks[0].Cards[0].Tags)
		})
	}
}

// --- merge tests ---

func TestMergeDoubleCounts(t *testing.T) {
	res, err := Build(jp101(), "JP101", Options{})
	require.NoError(t, err)

	merged := Merge(res.Deck, res.Deck)
	require.Len(t, merged.SubDecks, 2)
	assert.Equal(t, 2*res.Deck.CardCount(), merged.CardCount())
	assert.Len(t, merged.SubDecks[0].Cards, 2)
	assert.Len(t, merged.SubDecks[1].Cards, 4)

	// The inputs are left untouched.
	assert.Equal(t, 3, res.Deck.CardCount())
}

func TestMergeAppendsNewSubDecks(t *testing.T) {
	a := types.Deck{Name: "D", SubDecks: []types.SubDeck{{Name: "D::A", Topic: "A", Cards: []types.Flashcard{{Front: "a"}}}}}
	b := types.Deck{Name: "D", SubDecks: []types.SubDeck{
		{Name: "D::B", Topic: "B", Cards: []types.Flashcard{{Front: "b"}}},
		{Name: "D::A", Topic: "A", Cards: []types.Flashcard{{Front: "a2"}}},
	}}

	merged := Merge(a, b)
	require.Len(t, merged.SubDecks, 2)
	assert.Equal(t, "D::A", merged.SubDecks[0].Name)
	assert.Equal(t, []types.Flashcard{{Front: "a"}, {Front: "a2"}}, merged.SubDecks[0].Cards)
	assert.Equal(t, "D::B", merged.SubDecks[1].Name)
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{0: "A", 2: "C", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA"}
	for col, want := range tests {
		assert.Equal(t, want, columnName(col), "column %d", col)
	}
}

func TestColumnRange(t *testing.T) {
	assert.Equal(t, "A-C", ColumnRange(types.TopicBlock{Column: 0}))
	assert.Equal(t, "D-F", ColumnRange(types.TopicBlock{Index: 1, Column: 3}))
	assert.Equal(t, "Y-AA", ColumnRange(types.TopicBlock{Index: 8, Column: 24}))
}
