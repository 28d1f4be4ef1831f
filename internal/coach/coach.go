// Package coach elaborates the templated explanation of a wrong answer
// with a language model. Every failure degrades to the template, so the
// drill never waits on or breaks because of the model.
package coach

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/llm"
	"github.com/abhisek/akaun/internal/scenario"
)

// Purpose labels coach requests in the request log.
const Purpose = "coach"

// Config tunes the generated advice.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig keeps answers short.
func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.3, Timeout: 20 * time.Second}
}

// Input is what the coach sees of one graded submission.
type Input struct {
	View    scenario.View
	Answer  scenario.Input
	Verdict scenario.Verdict
}

// Advice is the elaboration shown to the learner.
type Advice struct {
	Tip   string
	Steps []string

	// FromModel is false when the advice is the templated fallback.
	FromModel bool
}

// Fallback builds advice from the templated explanation alone.
func Fallback(v scenario.Verdict) Advice {
	return Advice{Tip: v.Explanation.Summary, Steps: v.Explanation.Steps}
}

// Service asks the provider for advice. A nil provider makes every call
// return the fallback.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger

	mu      sync.Mutex
	pending *Advice
	forID   string
}

// New builds a coach service.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Explain returns model advice for in, or the fallback on any error.
func (s *Service) Explain(ctx context.Context, in Input) Advice {
	if !s.Enabled() || in.Verdict.Correct {
		return Fallback(in.Verdict)
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.Ask(Purpose, systemPrompt, userMessage(in), Schema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Warn("coach fell back to template", zap.String("question", in.View.ID), zap.Error(err))
		return Fallback(in.Verdict)
	}
	var out struct {
		Tip   string   `json:"tip"`
		Steps []string `json:"steps"`
	}
	if err := resp.Decode(&out); err != nil || out.Tip == "" {
		s.log.Warn("coach returned unusable advice", zap.String("question", in.View.ID), zap.Error(err))
		return Fallback(in.Verdict)
	}
	if len(out.Steps) == 0 {
		out.Steps = in.Verdict.Explanation.Steps
	}
	return Advice{Tip: out.Tip, Steps: out.Steps, FromModel: true}
}

// Request starts Explain in the background. Only the latest request is
// kept; a result for an older question is discarded.
func (s *Service) Request(ctx context.Context, in Input) {
	s.mu.Lock()
	s.pending = nil
	s.forID = in.View.ID
	s.mu.Unlock()

	go func() {
		advice := s.Explain(ctx, in)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.forID == in.View.ID {
			s.pending = &advice
		}
	}()
}

// Consume returns the advice for questionID once it is ready.
func (s *Service) Consume(questionID string) (Advice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.forID != questionID {
		return Advice{}, false
	}
	a := *s.pending
	s.pending = nil
	s.forID = ""
	return a, true
}
