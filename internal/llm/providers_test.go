package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func tipSchema() *Schema {
	return &Schema{
		Name: "test-tip",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tip":   map[string]any{"type": "string"},
				"steps": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"tone":  map[string]any{"type": "string", "enum": []string{"calm", "firm"}},
			},
			"required":             []string{"tip", "steps"},
			"additionalProperties": false,
		},
	}
}

func serve(t *testing.T, status int, body any, seen *string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			*seen = r.URL.Path + " " + string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 90, "completion_tokens": 30, "total_tokens": 120},
	}
}

func apiError(kind, msg string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": msg}}
}

var tipReq = Ask("coach", "Anda seorang guru akaun.", "Terangkan PHR.", tipSchema(), 300)

func TestAnthropic_Generate(t *testing.T) {
	var seen string
	url := serve(t, http.StatusOK, anthropicMessage(`{"tip":"Darab baki akhir dengan kadar.","steps":["1","2"]}`, "end_turn"), &seen)
	p, err := NewAnthropicProvider(Endpoint{APIKey: "k", Model: "claude-haiku", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Fatalf("alias not resolved: %s", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), tipReq)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.Total() != 160 || resp.StopReason != StopEnd {
		t.Fatalf("usage %+v stop %q", resp.Usage, resp.StopReason)
	}
	var out struct{ Tip string }
	if err := resp.Decode(&out); err != nil || out.Tip == "" {
		t.Fatalf("decode: %v %+v", err, out)
	}
	if !strings.Contains(seen, "/v1/messages") || !strings.Contains(seen, "Terangkan PHR.") {
		t.Fatalf("unexpected request: %s", seen)
	}
}

func TestAnthropic_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, apiError("rate_limit_error", "slow down"), func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, apiError("api_error", "boom"), func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
		{"schema mismatch", http.StatusOK, anthropicMessage(`{"tip":1}`, "end_turn"), func(err error) bool {
			var inv *ErrInvalidResponse
			return errors.As(err, &inv)
		}},
		{"truncated", http.StatusOK, anthropicMessage(`{"tip":"Darab`, "max_tokens"), func(err error) bool {
			var mt *ErrMaxTokensExceeded
			return errors.As(err, &mt)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := serve(t, tt.status, tt.body, nil)
			p, err := NewAnthropicProvider(Endpoint{APIKey: "k", Model: "claude-haiku", BaseURL: url})
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Generate(context.Background(), tipReq)
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestOpenAI_Generate(t *testing.T) {
	var seen string
	url := serve(t, http.StatusOK, chatCompletion(`{"tip":"Kira susut nilai setahun dahulu.","steps":[]}`, "stop"), &seen)
	p, err := NewOpenAIProvider(Endpoint{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), tipReq)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 90 || resp.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.Contains(seen, `"strict":true`) {
		t.Fatalf("openai request should be strict: %s", seen)
	}
}

func TestOpenAI_RateLimit(t *testing.T) {
	url := serve(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "rate limited", "type": "rate_limit"},
	}, nil)
	p, _ := NewOpenAIProvider(Endpoint{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
	_, err := p.Generate(context.Background(), tipReq)
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected rate limit, got %T: %v", err, err)
	}
}

func TestOpenAI_Truncated(t *testing.T) {
	url := serve(t, http.StatusOK, chatCompletion(`{"tip":"Ka`, "length"), nil)
	p, _ := NewOpenAIProvider(Endpoint{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
	_, err := p.Generate(context.Background(), tipReq)
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected max tokens error, got %T: %v", err, err)
	}
}

func TestOpenRouter_UsesChatAPI(t *testing.T) {
	var seen string
	url := serve(t, http.StatusOK, chatCompletion(`{"tip":"Bahagi kos tetap dengan margin caruman.","steps":["a"]}`, "stop"), &seen)
	p, err := NewOpenRouterProvider(Endpoint{APIKey: "k", Model: "google/gemini-2.0-flash-001", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != ProviderOpenRouter {
		t.Fatalf("name = %s", p.Name())
	}
	if _, err := p.Generate(context.Background(), tipReq); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(seen, "/chat/completions") || strings.Contains(seen, `"strict":true`) {
		t.Fatalf("unexpected request: %s", seen)
	}
}

func TestOpenRouter_DefaultBaseURL(t *testing.T) {
	p, err := NewOpenRouterProvider(Endpoint{APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "m" {
		t.Fatalf("model = %s", p.ModelID())
	}
}

func TestConstructors_RequireKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Endpoint{}); err == nil {
		t.Error("anthropic accepted empty key")
	}
	if _, err := NewOpenAIProvider(Endpoint{}); err == nil {
		t.Error("openai accepted empty key")
	}
	if _, err := NewGeminiProvider(context.Background(), Endpoint{}); err == nil {
		t.Error("gemini accepted empty key")
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(tipSchema().Definition)
	if s.Type != "OBJECT" || len(s.Properties) != 3 {
		t.Fatalf("unexpected schema %+v", s)
	}
	if s.Properties["steps"].Type != "ARRAY" || s.Properties["steps"].Items.Type != "STRING" {
		t.Fatalf("steps not converted: %+v", s.Properties["steps"])
	}
	if len(s.Properties["tone"].Enum) != 2 || len(s.Required) != 2 {
		t.Fatalf("enum/required lost: %+v", s)
	}

	decoded := map[string]any{"type": "object", "required": []any{"tip"}}
	if got := geminiSchema(decoded).Required; len(got) != 1 || got[0] != "tip" {
		t.Fatalf("decoded required = %v", got)
	}
}

func TestAlias(t *testing.T) {
	tests := []struct {
		in    string
		table map[string]string
		want  string
	}{
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1", anthropicModels, "claude-opus-4-1"},
		{"gemini-flash", geminiModels, "gemini-2.0-flash"},
		{"gemini-2.5-flash", geminiModels, "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := alias(tt.in, tt.table); got != tt.want {
			t.Errorf("alias(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
