// Package client wraps the generative content providers behind one type.
// The provider tag is resolved exactly once, in New; everything past this
// boundary works with the same Client regardless of which backend serves it.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
)

// Provider tags accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

const defaultMaxTokens = 32000

// Config carries per-provider credentials and model names.
type Config struct {
	APIKey string
	Model  string
}

// Client is one generative backend behind a provider-agnostic surface.
type Client struct {
	provider string
	model    einomodel.BaseChatModel
}

// New constructs a Client for the given provider tag. This is the only place
// in the codebase allowed to branch on the tag.
func New(ctx context.Context, provider string, cfg Config) (*Client, error) {
	provider = strings.TrimSpace(provider)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key for %s is not configured", provider)
	}

	var (
		chatModel einomodel.BaseChatModel
		err       error
	)
	switch provider {
	case ProviderAnthropic:
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: defaultMaxTokens,
		})
	case ProviderGemini:
		var gc *genai.Client
		gc, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err == nil {
			chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
				Client: gc,
				Model:  cfg.Model,
			})
		}
	case ProviderOpenAI:
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
	}

	return &Client{provider: provider, model: chatModel}, nil
}

// Provider returns the tag this client was constructed with.
func (c *Client) Provider() string { return c.provider }

// Complete sends the system instruction plus the ordered conversation turns
// and returns the assistant's reply text. The caller's ctx cancels the call;
// an aborted call returns ctx.Err and no reply.
func (c *Client) Complete(ctx context.Context, system string, turns []models.ConversationTurn) (string, error) {
	messages := make([]*schema.Message, 0, len(turns)+1)
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	for _, turn := range turns {
		switch turn.Role {
		case models.TurnAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Text))
		}
	}

	reply, err := c.model.Generate(ctx, messages)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &apperrors.ExternalServiceError{Service: c.provider, Err: err}
	}
	if reply == nil || reply.Content == "" {
		return "", &apperrors.ExternalServiceError{Service: c.provider, Err: fmt.Errorf("empty completion")}
	}
	return reply.Content, nil
}
