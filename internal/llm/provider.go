// Package llm sends structured prompts to hosted language models.
//
// Providers return JSON validated against the request's schema. Decorators
// add retries (WithRetry) and request recording (WithRecording); New wires
// them in that order around the configured provider.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per request.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the content is JSON that passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider key, e.g. "anthropic".
	Name() string

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	// Purpose labels the request in the request log, e.g. "coach".
	Purpose string

	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON matching it.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]; zero leaves the provider default.
	Temperature float64
}

// Ask builds a single-turn request.
func Ask(purpose, system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		Purpose:   purpose,
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case; Anthropic and OpenAI both require one.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is the provider-neutral reason generation stopped.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is the model output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Decode unmarshals the content into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Content, v)
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish checks a raw provider output against the request and wraps it.
func finish(req Request, content json.RawMessage, usage Usage, model string, stop StopReason) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
