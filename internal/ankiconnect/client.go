// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ankiconnect talks to a running Anki through the AnkiConnect
// add-on and pushes built decks into it.
//
// Every call is a POST of {"action", "version", "params", "key"} to the
// add-on's endpoint; the reply is {"result", "error"}. Protocol version 6
// is used throughout.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/vocab-deck/internal/httputil"
)

// DefaultURL is where AnkiConnect listens unless configured otherwise.
const DefaultURL = "http://localhost:8765"

// ProtocolVersion is the AnkiConnect API version requested on every call.
const ProtocolVersion = 6

// maxResponseBytes bounds how much of a reply is read.
const maxResponseBytes = 16 << 20

// Client is an AnkiConnect API client.
type Client struct {
	// BaseURL is the AnkiConnect endpoint. Empty selects DefaultURL.
	BaseURL string

	// HTTPClient sends requests. Nil selects http.DefaultClient.
	HTTPClient *http.Client

	// APIKey is sent as "key" when non-empty.
	APIKey string

	// UserAgent is sent as the User-Agent header when non-empty.
	UserAgent string

	// MaxRetries bounds retries on 429 and 503 responses. 0 disables them.
	MaxRetries int
}

// APIError is an error reported by AnkiConnect in the "error" field.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.Action, e.Message)
}

// IsDuplicate reports whether err is AnkiConnect refusing a duplicate note.
func IsDuplicate(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "duplicate")
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
	Key     string `json:"key,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Note is one note to add.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags,omitempty"`
	Options   *NoteOptions      `json:"options,omitempty"`
}

// NoteOptions controls AnkiConnect's duplicate check for a note.
type NoteOptions struct {
	AllowDuplicate        bool                   `json:"allowDuplicate"`
	DuplicateScope        string                 `json:"duplicateScope,omitempty"`
	DuplicateScopeOptions *DuplicateScopeOptions `json:"duplicateScopeOptions,omitempty"`
}

// DuplicateScopeOptions narrows the duplicate check to one deck.
type DuplicateScopeOptions struct {
	DeckName       string `json:"deckName"`
	CheckChildren  bool   `json:"checkChildren"`
	CheckAllModels bool   `json:"checkAllModels"`
}

// NoteResult is the outcome of adding one note: the new note id, or the
// error AnkiConnect reported for it.
type NoteResult struct {
	ID  int64
	Err error
}

// Version returns the AnkiConnect API version. It doubles as a
// connectivity check.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.call(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// DeckNames returns the names of every deck in the collection.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// CreateDeck creates a deck, or returns the id of the existing deck with
// that name.
func (c *Client) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := c.call(ctx, "createDeck", map[string]string{"deck": name}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// AddNote adds a single note and returns its id.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	var id *int64
	if err := c.call(ctx, "addNote", map[string]Note{"note": note}, &id); err != nil {
		return 0, err
	}
	if id == nil {
		return 0, &APIError{Action: "addNote", Message: "note was not added"}
	}
	return *id, nil
}

// AddNotes adds notes in one batch and returns a result per note, in
// order. Recent AnkiConnect versions reject the whole batch with a single
// error when any note fails; AddNotes then adds the notes one at a time so
// each result carries its own error.
func (c *Client) AddNotes(ctx context.Context, notes []Note) ([]NoteResult, error) {
	if len(notes) == 0 {
		return nil, nil
	}

	var ids []*int64
	err := c.call(ctx, "addNotes", map[string][]Note{"notes": notes}, &ids)

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return c.addEach(ctx, notes)
	case err != nil:
		return nil, err
	case len(ids) != len(notes):
		return nil, fmt.Errorf("ankiconnect addNotes: got %d results for %d notes", len(ids), len(notes))
	}

	results := make([]NoteResult, len(notes))
	for i, id := range ids {
		if id == nil {
			results[i].Err = &APIError{Action: "addNotes", Message: "note was not added"}
			continue
		}
		results[i].ID = *id
	}
	return results, nil
}

func (c *Client) addEach(ctx context.Context, notes []Note) ([]NoteResult, error) {
	results := make([]NoteResult, len(notes))
	for i, n := range notes {
		id, err := c.AddNote(ctx, n)
		var apiErr *APIError
		if err != nil && !errors.As(err, &apiErr) {
			return nil, err
		}
		results[i] = NoteResult{ID: id, Err: err}
	}
	return results, nil
}

// call performs one action and decodes its result into out. Transport and
// HTTP failures are returned wrapped; an error reported by AnkiConnect is
// returned as *APIError.
func (c *Client) call(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{
		Action:  action,
		Version: ProtocolVersion,
		Params:  params,
		Key:     c.APIKey,
	})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	url := c.BaseURL
	if url == "" {
		url = DefaultURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("ankiconnect %s: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ankiconnect %s: HTTP %d: %s", action, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if r.Error != nil {
		return &APIError{Action: action, Message: *r.Error}
	}
	if out == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", action, err)
	}
	return nil
}
