// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apkg

import (
	"encoding/json"
	"strconv"
)

// defaultDeckID is the id Anki reserves for the "Default" deck.
const defaultDeckID = 1

// defaultConfID is the id of the deck options group every deck uses.
const defaultConfID = 1

// Field names of the note type written into packages.
const (
	FieldFront  = "Front"
	FieldBack   = "Back"
	FieldScript = "Script"
)

var noteFields = []string{FieldFront, FieldBack, FieldScript}

const (
	questionTemplate = "{{" + FieldFront + "}}"
	answerTemplate   = "{{FrontSide}}\n\n<hr id=answer>\n\n{{" + FieldBack + "}}" +
		"{{#" + FieldScript + "}}<div class=script>{{" + FieldScript + "}}</div>{{/" + FieldScript + "}}"
	cardCSS = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: center;
 color: black;
 background-color: white;
}
.script {
 margin-top: 0.5em;
 font-size: 28px;
}`
	latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n" +
		"\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
	latexPost = "\\end{document}"
)

type deckJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Conf      int64  `json:"conf"`
	Dyn       int    `json:"dyn"`
	Collapsed bool   `json:"collapsed"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
	Mod       int64  `json:"mod"`
	Usn       int    `json:"usn"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
}

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
	RTL    bool     `json:"rtl"`
	Sticky bool     `json:"sticky"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
}

type modelJSON struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	Mod       int64          `json:"mod"`
	Usn       int            `json:"usn"`
	Sortf     int            `json:"sortf"`
	Did       int64          `json:"did"`
	Tmpls     []templateJSON `json:"tmpls"`
	Flds      []fieldJSON    `json:"flds"`
	CSS       string         `json:"css"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
	Req       [][]any        `json:"req"`
	Tags      []string       `json:"tags"`
	Vers      []int          `json:"vers"`
}

func newDeckJSON(id int64, name string, modSec int64) deckJSON {
	return deckJSON{
		ID:        id,
		Name:      name,
		Conf:      defaultConfID,
		ExtendNew: 10,
		ExtendRev: 50,
		Mod:       modSec,
		Usn:       -1,
	}
}

func newModelJSON(id int64, name string, deckID, modSec int64) modelJSON {
	flds := make([]fieldJSON, len(noteFields))
	for i, f := range noteFields {
		flds[i] = fieldJSON{Name: f, Ord: i, Font: "Arial", Size: 20, Media: []string{}}
	}
	return modelJSON{
		ID:    id,
		Name:  name,
		Mod:   modSec,
		Usn:   -1,
		Did:   deckID,
		Flds:  flds,
		Tmpls: []templateJSON{{Name: "Card 1", QFmt: questionTemplate, AFmt: answerTemplate}},
		CSS:   cardCSS,
		// The single card template is generated when the Front field is non-empty.
		Req:       [][]any{{0, "any", []int{0}}},
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Tags:      []string{},
		Vers:      []int{},
	}
}

// deckConfJSON returns the default deck options group.
func deckConfJSON(modSec int64) map[string]any {
	return map[string]any{
		"id":       defaultConfID,
		"name":     "Default",
		"mod":      modSec,
		"usn":      0,
		"maxTaken": 60,
		"autoplay": true,
		"timer":    0,
		"replayq":  true,
		"dyn":      false,
		"new": map[string]any{
			"bury":          true,
			"delays":        []float64{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   200,
		},
		"lapse": map[string]any{
			"delays":      []float64{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	}
}

func collectionConfJSON(curModel int64, nextPos int) map[string]any {
	return map[string]any{
		"activeDecks":   []int{defaultDeckID},
		"curDeck":       defaultDeckID,
		"curModel":      strconv.FormatInt(curModel, 10),
		"newSpread":     0,
		"collapseTime":  1200,
		"timeLim":       0,
		"estTimes":      true,
		"dueCounts":     true,
		"nextPos":       nextPos,
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
	}
}

// marshalIDMap encodes values keyed by their decimal id, the shape of the
// col table's models, decks, and dconf columns.
func marshalIDMap[T any](values map[int64]T) (string, error) {
	keyed := make(map[string]T, len(values))
	for id, v := range values {
		keyed[strconv.FormatInt(id, 10)] = v
	}
	data, err := json.Marshal(keyed)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func jsonString(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
