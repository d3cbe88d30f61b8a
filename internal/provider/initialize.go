package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskhub-ai/taskhub/internal/config"
	"github.com/taskhub-ai/taskhub/internal/logging"
)

// Initialize builds the configured chat model provider. A nil Provider with
// a non-nil error means the agent feature is disabled; the process still
// starts and agent sessions answer with a fixed sentinel.
func Initialize(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai", "azure":
		p, err := NewOpenAIProvider(ctx, &OpenAIConfig{
			Endpoint:   cfg.OpenAI.Endpoint,
			Deployment: cfg.OpenAI.Deployment,
			APIKey:     cfg.OpenAI.APIKey,
			UseAzure:   isAzureEndpoint(cfg.OpenAI.Endpoint),
			APIVersion: cfg.OpenAI.APIVersion,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("provider", p.ID()).Str("deployment", cfg.OpenAI.Deployment).Msg("chat model provider initialized")
		return p, nil

	case "anthropic":
		p, err := NewAnthropicProvider(ctx, &AnthropicConfig{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("provider", p.ID()).Str("model", cfg.Anthropic.Model).Msg("chat model provider initialized")
		return p, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// isAzureEndpoint reports whether the endpoint points at an Azure OpenAI
// resource rather than an OpenAI-compatible base URL.
func isAzureEndpoint(endpoint string) bool {
	return strings.Contains(strings.ToLower(endpoint), ".azure.com")
}
