package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const maxRemoteBody = 4 << 20

// scoresSchema describes the remote GET payload: a JSON array of entries.
var scoresSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"name", "levelId", "score", "time"},
		"properties": map[string]any{
			"name":      map[string]any{"type": "string"},
			"levelId":   map[string]any{"type": "string"},
			"score":     map[string]any{"type": "number"},
			"time":      map[string]any{"type": "number", "minimum": 0},
			"timestamp": map[string]any{"type": "number"},
		},
	},
}

var compiledScoresSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	const url = "schema://leaderboard-scores.json"
	if err := c.AddResource(url, scoresSchema); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// Remote posts scores to an HTTP endpoint and reads them back. Every score
// is saved to the fallback first; reads fall back to it on any failure.
type Remote struct {
	url      string
	client   *http.Client
	fallback Service
}

// NewRemote returns a Remote backend for url. A nil client gets a default
// one with the given timeout.
func NewRemote(url string, client *http.Client, timeout time.Duration, fallback Service) *Remote {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Remote{url: url, client: client, fallback: fallback}
}

func (r *Remote) SubmitScore(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	var errs []error
	if r.fallback != nil {
		if err := r.fallback.SubmitScore(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.post(ctx, e); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Remote) post(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post score: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxRemoteBody))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post score: status %d", resp.StatusCode)
	}
	return nil
}

func (r *Remote) FetchScores(ctx context.Context, drillID string) ([]Entry, error) {
	entries, err := r.fetch(ctx)
	if err == nil {
		return ForDrill(entries, drillID), nil
	}
	if r.fallback == nil {
		return nil, err
	}
	return r.fallback.FetchScores(ctx, drillID)
}

func (r *Remote) fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch scores: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	return decodeScores(raw)
}

// decodeScores validates raw against the scores schema and decodes it.
func decodeScores(raw []byte) ([]Entry, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledScoresSchema()
	if err != nil {
		return nil, fmt.Errorf("compile scores schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("scores payload: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return entries, nil
}
