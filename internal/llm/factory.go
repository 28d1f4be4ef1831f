package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/store"
)

// New builds the configured provider wrapped as retry → recording → base,
// so each attempt is recorded separately.
func New(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ep, err := cfg.Endpoint()
	if err != nil {
		return nil, err
	}

	var base Provider
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(ep)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(ep)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(ep)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, ep)
	case ProviderMock:
		base = &MockProvider{Fallback: []byte(`{"tip":"Semak semula setiap langkah pengiraan.","steps":[]}`)}
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithRecording(base, events, log), cfg.Retry, log), nil
}
