// Package provider provides LLM provider abstraction using the Eino framework.
package provider

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Provider represents an LLM provider with an Eino ChatModel.
type Provider interface {
	// ID returns the provider identifier.
	ID() string

	// Name returns the human-readable provider name.
	Name() string

	// ChatModel returns the Eino ChatModel for this provider.
	ChatModel() model.ToolCallingChatModel

	// Generate creates a single non-streaming completion.
	Generate(ctx context.Context, req *CompletionRequest) (*schema.Message, error)
}

// CompletionRequest represents a request to generate a completion.
type CompletionRequest struct {
	Messages    []*schema.Message  `json:"messages"`
	Tools       []*schema.ToolInfo `json:"tools,omitempty"`
	MaxTokens   int                `json:"maxTokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

// bindTools binds the request's tools to the chat model, if any.
func bindTools(chatModel model.ToolCallingChatModel, req *CompletionRequest) (model.ToolCallingChatModel, error) {
	if len(req.Tools) == 0 {
		return chatModel, nil
	}
	return chatModel.WithTools(req.Tools)
}
