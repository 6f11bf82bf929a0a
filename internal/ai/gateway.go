package ai

import (
	"context"
	"errors"
	"strings"

	"isa/internal/config"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ErrAllModelsFailed indicates every model in the fallback chain failed
var ErrAllModelsFailed = errors.New("all models failed")

// Completion sampling parameters shared across the fallback chain
const (
	completionTemperature = 0.7
	completionMaxTokens   = 1024
)

// ChatMessage is one turn of the conversation as supplied by the caller
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// Gateway submits conversations to an OpenAI-compatible provider, walking an
// ordered model fallback chain. A model that fails is skipped, never retried;
// the next model serves the same purpose more cheaply.
type Gateway struct {
	client *openai.Client
	models []config.ModelCandidate
}

// NewGateway creates a gateway over the given provider and model chain
func NewGateway(apiKey, baseURL string, models []config.ModelCandidate) *Gateway {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Gateway{
		client: openai.NewClientWithConfig(cfg),
		models: models,
	}
}

// Complete returns the first successful completion in the fallback chain.
// Returns ErrAllModelsFailed when no model produces content.
func (g *Gateway) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chat = append(chat, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	for _, model := range g.models {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model.ID,
			Messages:    chat,
			Temperature: completionTemperature,
			MaxTokens:   completionMaxTokens,
		})
		if err != nil {
			log.Warn().Err(err).Str("model", model.ID).Msg("model failed, trying next in chain")
			continue
		}
		if len(resp.Choices) == 0 {
			log.Warn().Str("model", model.ID).Msg("model returned no choices, trying next in chain")
			continue
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			log.Warn().Str("model", model.ID).Msg("model returned empty content, trying next in chain")
			continue
		}
		log.Debug().Str("model", model.ID).Msg("completion succeeded")
		return content, nil
	}

	return "", ErrAllModelsFailed
}
