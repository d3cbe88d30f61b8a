package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAIProvider implements Provider for OpenAI and Azure OpenAI models.
type OpenAIProvider struct {
	chatModel model.ToolCallingChatModel
	config    *OpenAIConfig
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	// Endpoint is the service base URL. Required for Azure.
	Endpoint string
	// Deployment is the model or Azure deployment identifier.
	Deployment string
	APIKey     string
	MaxTokens  int

	// Azure configuration
	UseAzure   bool
	APIVersion string
}

// NewOpenAIProvider creates a new OpenAI provider. Endpoint and Deployment
// are required; a missing value is a construction error, which callers treat
// as the agent feature being disabled.
func NewOpenAIProvider(ctx context.Context, config *OpenAIConfig) (*OpenAIProvider, error) {
	if strings.TrimSpace(config.Endpoint) == "" {
		return nil, fmt.Errorf("openai endpoint not configured")
	}
	if strings.TrimSpace(config.Deployment) == "" {
		return nil, fmt.Errorf("openai deployment not configured")
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	cfg := &openai.ChatModelConfig{
		APIKey:              config.APIKey,
		Model:               config.Deployment,
		BaseURL:             config.Endpoint,
		MaxCompletionTokens: &maxTokens,
	}

	if config.UseAzure {
		cfg.ByAzure = true
		if config.APIVersion != "" {
			cfg.APIVersion = config.APIVersion
		} else {
			cfg.APIVersion = "2024-02-15-preview"
		}
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI model: %w", err)
	}

	return &OpenAIProvider{
		chatModel: chatModel,
		config:    config,
	}, nil
}

// ID returns the provider identifier.
func (p *OpenAIProvider) ID() string { return "openai" }

// Name returns the human-readable provider name.
func (p *OpenAIProvider) Name() string { return "OpenAI" }

// ChatModel returns the Eino ChatModel.
func (p *OpenAIProvider) ChatModel() model.ToolCallingChatModel {
	return p.chatModel
}

// Generate creates a single non-streaming completion.
func (p *OpenAIProvider) Generate(ctx context.Context, req *CompletionRequest) (*schema.Message, error) {
	chatModel, err := bindTools(p.chatModel, req)
	if err != nil {
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	opts := []model.Option{
		openai.WithMaxCompletionTokens(req.MaxTokens),
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}

	msg, err := chatModel.Generate(ctx, req.Messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}
	return msg, nil
}
