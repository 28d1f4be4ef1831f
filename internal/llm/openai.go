package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider speaks the chat completions API. OpenRouter shares it
// through a different base URL.
type OpenAIProvider struct {
	client *openai.Client
	name   string
	model  string
	strict bool
}

// NewOpenAIProvider builds a provider for OpenAI proper.
func NewOpenAIProvider(ep Endpoint) (*OpenAIProvider, error) {
	return newChatProvider(ProviderOpenAI, ep, true)
}

// NewOpenRouterProvider builds a provider for OpenRouter. Strict schema
// mode is off because not every routed model honours it; responses are
// validated locally either way.
func NewOpenRouterProvider(ep Endpoint) (*OpenAIProvider, error) {
	if ep.BaseURL == "" {
		ep.BaseURL = DefaultOpenRouterURL
	}
	return newChatProvider(ProviderOpenRouter, ep, false)
}

func newChatProvider(name string, ep Endpoint, strict bool) (*OpenAIProvider, error) {
	if ep.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", name)
	}
	cfg := openai.DefaultConfig(ep.APIKey)
	if ep.BaseURL != "" {
		cfg.BaseURL = ep.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		name:   name,
		model:  ep.Model,
		strict: strict,
	}, nil
}

func (p *OpenAIProvider) Name() string    { return p.name }
func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      p.strict,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fromStatus(apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, fromStatus(reqErr.HTTPStatusCode, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("%s: response has no choices", p.name)}
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return finish(req, json.RawMessage(choice.Message.Content), usage, resp.Model, stop)
}
