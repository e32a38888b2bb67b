// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apkg writes decks as Anki packages.
//
// A package is a zip archive holding collection.anki2, a SQLite database in
// Anki's schema 11 layout, and a "media" manifest. Ids, guids, and
// timestamps derive from the deck content and Options.Created, so the same
// deck built with the same creation time always yields the same notes and
// cards.
package apkg

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

const (
	collectionEntry = "collection.anki2"
	mediaEntry      = "media"

	// DefaultModelName names the note type written into packages.
	DefaultModelName = "vocab-deck Basic"

	fieldSeparator = "\x1f"

	// maxID keeps ids inside the integer range JSON readers handle exactly.
	maxID = 1<<53 - 1
)

// Options controls package construction.
type Options struct {
	// Created stamps the collection, decks, notes, and cards. The zero
	// value selects the current time.
	Created time.Time

	// ModelName overrides DefaultModelName.
	ModelName string
}

// Build renders d as an Anki package.
func Build(d types.Deck, opts Options) ([]byte, error) {
	if opts.Created.IsZero() {
		opts.Created = time.Now()
	}
	if opts.ModelName == "" {
		opts.ModelName = DefaultModelName
	}

	tmpDir, err := os.MkdirTemp("", "vocab-deck-apkg-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, collectionEntry)
	if err := writeCollection(context.Background(), dbPath, d, opts); err != nil {
		return nil, err
	}
	collection, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	return pack(collection, opts.Created)
}

// pack zips the collection and an empty media manifest.
func pack(collection []byte, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data []byte
	}{
		{collectionEntry, collection},
		{mediaEntry, []byte("{}")},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCollection(ctx context.Context, dbPath string, d types.Deck, opts Options) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("opening collection: %w", err)
	}
	defer db.Close()

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	modSec := opts.Created.Unix()
	modMs := opts.Created.UnixMilli()
	modelID := stableID("model", opts.ModelName, strings.Join(noteFields, fieldSeparator))

	decks := map[int64]deckJSON{
		defaultDeckID: newDeckJSON(defaultDeckID, "Default", modSec),
	}
	topID := stableID("deck", d.Name)
	decks[topID] = newDeckJSON(topID, d.Name, modSec)
	for _, s := range d.SubDecks {
		id := stableID("deck", s.Name)
		decks[id] = newDeckJSON(id, s.Name, modSec)
	}

	modelsJSON, err := marshalIDMap(map[int64]modelJSON{
		modelID: newModelJSON(modelID, opts.ModelName, topID, modSec),
	})
	if err != nil {
		return fmt.Errorf("encoding models: %w", err)
	}
	decksJSON, err := marshalIDMap(decks)
	if err != nil {
		return fmt.Errorf("encoding decks: %w", err)
	}
	dconfJSON, err := marshalIDMap(map[int64]map[string]any{
		defaultConfID: deckConfJSON(modSec),
	})
	if err != nil {
		return fmt.Errorf("encoding deck options: %w", err)
	}
	colConf, err := jsonString(collectionConfJSON(modelID, d.CardCount()+1))
	if err != nil {
		return fmt.Errorf("encoding collection config: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, ?)`,
		dayStart(opts.Created), modMs, modMs, schemaVersion,
		colConf, modelsJSON, decksJSON, dconfJSON, "{}",
	)
	if err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}

	noteStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`)
	if err != nil {
		return fmt.Errorf("preparing note insert: %w", err)
	}
	defer noteStmt.Close()

	cardStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return fmt.Errorf("preparing card insert: %w", err)
	}
	defer cardStmt.Close()

	pos := 0
	for _, s := range d.SubDecks {
		did := stableID("deck", s.Name)
		for i, c := range s.Cards {
			id := modMs + int64(pos)
			pos++

			_, err := noteStmt.ExecContext(ctx,
				id, noteGUID(s.Name, i, c), modelID, modSec,
				tagString(c.Tags), joinFields(c), c.Front, fieldChecksum(c.Front),
			)
			if err != nil {
				return fmt.Errorf("inserting note %d of %s: %w", i+1, s.Name, err)
			}
			if _, err := cardStmt.ExecContext(ctx, id, id, did, modSec, pos); err != nil {
				return fmt.Errorf("inserting card %d of %s: %w", i+1, s.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return db.Close()
}

// joinFields returns the note's field values, HTML-escaped and joined by
// the unit separator Anki uses between fields.
func joinFields(c types.Flashcard) string {
	return strings.Join([]string{
		html.EscapeString(c.Front),
		html.EscapeString(c.Back),
		html.EscapeString(c.Script),
	}, fieldSeparator)
}

// tagString formats tags the way Anki stores them: space separated with a
// leading and trailing space.
func tagString(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

// fieldChecksum is Anki's duplicate-detection checksum: the first 8 hex
// digits of the SHA-1 of the sort field's text.
func fieldChecksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// stableID derives a positive id from parts.
func stableID(parts ...string) int64 {
	sum := blake3.Sum256([]byte(strings.Join(parts, fieldSeparator)))
	id := int64(binary.BigEndian.Uint64(sum[:8]) & maxID)
	if id <= defaultDeckID {
		id += defaultDeckID + 1
	}
	return id
}

// noteGUID derives the note guid from its deck, position, and content.
// Two identical cards at different positions get different guids.
func noteGUID(deckName string, index int, c types.Flashcard) string {
	key := strings.Join([]string{deckName, strconv.Itoa(index), c.Front, c.Back, c.Script}, fieldSeparator)
	sum := blake3.Sum256([]byte(key))
	return base91(binary.BigEndian.Uint64(sum[:8]))
}

const base91Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// base91 encodes n with Anki's guid alphabet.
func base91(n uint64) string {
	if n == 0 {
		return base91Alphabet[:1]
	}
	var out []byte
	for n > 0 {
		out = append(out, base91Alphabet[n%91])
		n /= 91
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// dayStart returns the Unix time of local midnight on t's day.
func dayStart(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Unix()
}
