package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
	"github.com/cadre-oss/pilot/internal/provider"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Client talks to any OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *resty.Client
}

// NewClient creates a new OpenAI client. An empty baseURL selects the public API.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  resty.New(),
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "openai"
}

type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends a chat completion request.
func (c *Client) Complete(ctx context.Context, req *provider.CompletionRequest) (*provider.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(chatRequest{
			Model:       model,
			Messages:    req.Messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		}).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		if ctx.Err() != nil {
			return nil, pilotErrors.Wrap(pilotErrors.CodeTimeout, "openai request aborted", err)
		}
		return nil, pilotErrors.Wrap(pilotErrors.CodeUpstream, "openai request failed", err)
	}

	if response.StatusCode() != http.StatusOK {
		return nil, pilotErrors.Wrap(pilotErrors.CodeUpstream, "openai request rejected", &provider.StatusError{
			Provider:   c.Name(),
			StatusCode: response.StatusCode(),
			Body:       response.String(),
		})
	}

	var result chatResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return nil, pilotErrors.Wrap(pilotErrors.CodeResponseShape, "openai response is not valid JSON", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == nil {
		return nil, pilotErrors.New(pilotErrors.CodeResponseShape, "openai response has no message content")
	}

	choice := result.Choices[0]
	return &provider.Response{
		Content:    *choice.Message.Content,
		StopReason: choice.FinishReason,
		Usage: provider.Usage{
			InputTokens:  result.Usage.PromptTokens,
			OutputTokens: result.Usage.CompletionTokens,
		},
	}, nil
}
