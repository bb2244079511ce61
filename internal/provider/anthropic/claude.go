package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
	"github.com/cadre-oss/pilot/internal/provider"
)

const defaultModel = "claude-sonnet-4-20250514"

// Client implements the Anthropic provider on the official SDK.
type Client struct {
	sdk   anthropic.Client
	model string
}

// NewClient creates a new Anthropic client. baseURL is optional and mainly
// points tests or proxies at a different host. SDK-level retries are
// disabled; provider.RetryProvider owns that policy.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = defaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		sdk:   anthropic.NewClient(opts...),
		model: model,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "anthropic"
}

// Complete sends a completion request to Claude
func (c *Client) Complete(ctx context.Context, req *provider.CompletionRequest) (*provider.Response, error) {
	msg, err := c.sdk.Messages.New(ctx, c.buildParams(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, pilotErrors.Wrap(pilotErrors.CodeTimeout, "anthropic request aborted", err)
		}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, pilotErrors.Wrap(pilotErrors.CodeUpstream, "anthropic request rejected", &provider.StatusError{
				Provider:   c.Name(),
				StatusCode: apiErr.StatusCode,
				Body:       apiErr.Error(),
			})
		}
		return nil, pilotErrors.Wrap(pilotErrors.CodeUpstream, "anthropic request failed", err)
	}

	var text []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text = append(text, tb.Text)
		}
	}
	if len(text) == 0 {
		return nil, pilotErrors.New(pilotErrors.CodeResponseShape, "anthropic response has no text block")
	}

	return &provider.Response{
		Content:    strings.Join(text, ""),
		StopReason: string(msg.StopReason),
		Usage: provider.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// buildParams lifts system entries into the System field; the Messages API
// accepts only user and assistant turns.
func (c *Client) buildParams(req *provider.CompletionRequest) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	system, conversation := provider.SplitSystem(req.Messages)
	messages := make([]anthropic.MessageParam, 0, len(conversation))
	for _, m := range conversation {
		switch m.Role {
		case provider.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}
