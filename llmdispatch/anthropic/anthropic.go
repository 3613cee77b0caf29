// Package anthropic provides an llmdispatch.Transport backed by the
// Anthropic Messages API, grounded on the same anthropic-sdk-go client
// shape the teacher's features/model/anthropic adapter uses, simplified to
// the single-turn prompt-in/text-out contract llmdispatch needs (spec
// §4.5 "Transport contract": one prompt string in, one assistant text
// string out).
package anthropic

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cultivation-world-simulator/llmdispatch"
)

// MessagesClient captures the subset of the Anthropic SDK used here, so
// tests can substitute a fake.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Transport implements llmdispatch.Transport over the Anthropic Messages API.
type Transport struct {
	msg       MessagesClient
	maxTokens int64
}

// New builds a Transport. maxTokens is the completion cap applied to every
// request since llmdispatch.Request carries no per-call override.
func New(msg MessagesClient, maxTokens int64) (*Transport, error) {
	if msg == nil {
		return nil, errors.New("anthropic client is required")
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Transport{msg: msg, maxTokens: maxTokens}, nil
}

// NewFromAPIKey constructs a Transport using the default Anthropic HTTP
// client, reading ANTHROPIC_API_KEY-style defaults via option.WithAPIKey.
func NewFromAPIKey(apiKey string, maxTokens int64) (*Transport, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&client.Messages, maxTokens)
}

// Complete issues a single-turn Messages.New call and concatenates the
// text content blocks of the reply.
func (t *Transport) Complete(ctx context.Context, req llmdispatch.Request) (llmdispatch.Response, error) {
	if req.Prompt == "" {
		return llmdispatch.Response{}, errors.New("anthropic: prompt is required")
	}
	if req.Model == "" {
		return llmdispatch.Response{}, errors.New("anthropic: model is required")
	}

	params := sdk.MessageNewParams{
		MaxTokens: t.maxTokens,
		Model:     sdk.Model(req.Model),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}

	msg, err := t.msg.New(ctx, params)
	if err != nil {
		return llmdispatch.Response{}, fmt.Errorf("anthropic messages.new: %w", err)
	}

	var content string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			content += block.Text
		}
	}
	return llmdispatch.Response{Content: content}, nil
}
