package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/config"
	kaiwaErrors "github.com/kaiwa-ai/kaiwa/internal/errors"
	"github.com/kaiwa-ai/kaiwa/internal/model/contract"

	"github.com/oklog/ulid/v2"
	"github.com/sashabaranov/go-openai"
)

// Client speaks to any OpenAI-compatible chat completion endpoint. The
// session configuration is fixed at construction and read on every
// call.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	topP        float32
}

func New(cfg config.APIConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.Key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Client{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}
}

// Complete sends the full conversation snapshot plus tool schemas and
// returns either final text or a batch of tool calls.
func (c *Client) Complete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error) {
	req := contract.CompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		TopP:        c.topP,
		Messages:    messages,
		Tools:       tools,
	}

	resp, err := c.api.CreateChatCompletion(ctx, toChatRequest(req))
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned: %w", kaiwaErrors.ErrInternal)
	}

	choice := resp.Choices[0]
	result := &contract.CompletionResponse{Content: choice.Message.Content}

	for _, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = "call_" + ulid.Make().String()
		}
		result.ToolCalls = append(result.ToolCalls, &contract.ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return result, nil
}

func toChatRequest(req contract.CompletionRequest) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Messages:    toChatMessages(req.Messages),
		Tools:       toChatTools(req.Tools),
	}
}

func toChatMessages(messages []contract.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func toChatTools(tools []contract.ToolDef) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		params := t.Parameters
		if params == nil {
			params = map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			}
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// classify maps go-openai failures onto the kaiwa error taxonomy:
// credential rejections are fatal, rate limits and server/transport
// failures are retryable.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return fmt.Errorf("API authentication failed: %v: %w", apiErr.Message, kaiwaErrors.ErrAuth)
		case apiErr.HTTPStatusCode == 429:
			return fmt.Errorf("API rate limited: %w", kaiwaErrors.ErrTransient)
		case apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("API server error (%d): %w", apiErr.HTTPStatusCode, kaiwaErrors.ErrTransient)
		case apiErr.HTTPStatusCode == 400:
			return fmt.Errorf("API rejected request: %v: %w", apiErr.Message, kaiwaErrors.ErrInvalidInput)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == 401 || reqErr.HTTPStatusCode == 403 {
			return fmt.Errorf("API authentication failed: %w", kaiwaErrors.ErrAuth)
		}
		return fmt.Errorf("API request failed: %v: %w", reqErr.Err, kaiwaErrors.ErrTransient)
	}

	return kaiwaErrors.Map(err)
}
