// Package openai provides an llmdispatch.Transport backed by an
// OpenAI-compatible chat completions endpoint, using the official
// github.com/openai/openai-go client the teacher already depends on (spec
// §4.5 "any OpenAI-compatible base URL"). The teacher's own
// features/model/openai adapter targets the third-party sashabaranov
// client instead; this package is grounded on that adapter's shape
// (ChatClient seam, ChatCompletionMessage translation) but built on the
// client actually declared in go.mod.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"cultivation-world-simulator/llmdispatch"
)

// ChatClient captures the subset of the OpenAI client the adapter uses, so
// tests can substitute a fake.
type ChatClient interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Transport implements llmdispatch.Transport over an OpenAI-compatible
// chat/completions endpoint.
type Transport struct {
	chat ChatClient
}

// New builds a Transport from an injected chat-completions client.
func New(chat ChatClient) (*Transport, error) {
	if chat == nil {
		return nil, errors.New("openai chat client is required")
	}
	return &Transport{chat: chat}, nil
}

// NewFromConfig constructs a Transport pointed at baseURL (with trailing
// slashes trimmed; llmdispatch.NormalizeChatCompletionsURL is not applied)
// with apiKey as the bearer credential, matching any OpenAI-compatible
// provider (spec §4.5 "any OpenAI-compatible base URL"). An empty baseURL
// leaves the client's default endpoint in place.
func NewFromConfig(baseURL, apiKey string) (*Transport, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if trimmed := strings.TrimRight(baseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	client := openai.NewClient(opts...)
	return New(&client.Chat.Completions)
}

// Complete issues a single-turn chat completion and returns the first
// choice's message content.
func (t *Transport) Complete(ctx context.Context, req llmdispatch.Request) (llmdispatch.Response, error) {
	if req.Prompt == "" {
		return llmdispatch.Response{}, errors.New("openai: prompt is required")
	}
	if req.Model == "" {
		return llmdispatch.Response{}, errors.New("openai: model is required")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}

	resp, err := t.chat.New(ctx, params)
	if err != nil {
		return llmdispatch.Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llmdispatch.Response{}, errors.New("openai: empty choices in response")
	}
	return llmdispatch.Response{Content: resp.Choices[0].Message.Content}, nil
}
