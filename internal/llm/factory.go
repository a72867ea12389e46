package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// NewProvider builds the provider selected by cfg.LLM.Provider. The returned
// release function frees SDK resources and is safe to call once.
func NewProvider(ctx context.Context, cfg *config.Config) (AIProvider, func(), error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			clientConfig.BaseURL = cfg.OpenAI.BaseURL
		}
		return NewOpenAIProvider(openai.NewClientWithConfig(clientConfig), cfg.LLM.Model), func() {}, nil

	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAI.APIKey))
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini client: %w", err)
		}
		return NewGeminiAIProvider(client, cfg.LLM.Model), func() { _ = client.Close() }, nil

	case config.ProviderAnthropic:
		client := anthropic.NewClient(anthropicoption.WithAPIKey(cfg.Anthropic.APIKey))
		return NewAnthropicProvider(&client, cfg.LLM.Model), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown llm provider: %q", cfg.LLM.Provider)
	}
}
