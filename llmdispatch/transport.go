// Package llmdispatch implements the bounded-concurrency, cooperative LLM
// dispatch contract (spec §4.5): actions never block on an LLM response
// inside step; instead they spawn an async Call via Dispatcher and poll a
// Future across ticks, mirroring the future/handle design the teacher's
// runtime/agent/engine package uses for activities (spec §9 "Async control
// flow").
package llmdispatch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// CallMode selects which model/table entry answers a request (spec §4.5
// "Call modes").
type CallMode string

const (
	ModeNormal  CallMode = "normal"
	ModeFast    CallMode = "fast"
	ModeDefault CallMode = "default"
)

// Request is a single chat-completion-shaped call (spec §4.5 "Transport
// contract").
type Request struct {
	Model  string
	Prompt string
}

// Response is the raw assistant text, before JSON extraction.
type Response struct {
	Content string
}

// Transport is a single POST-style request-reply to an OpenAI-compatible
// chat-completions endpoint (spec §4.5). llmdispatch/openai and
// llmdispatch/anthropic each provide a concrete Transport.
type Transport interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// RequestTimeout is the fixed per-request timeout the spec mandates (spec
// §4.5 "Timeout: 120 seconds per request").
const RequestTimeout = 120 * time.Second

// CategorizeError maps a transport error to the human-readable category
// spec §4.5 mandates: 401/403/404/timeout/connection/other.
func CategorizeError(statusCode int, err error) string {
	switch statusCode {
	case http.StatusUnauthorized:
		return "invalid API key"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "endpoint not found"
	}
	if err == nil {
		return ""
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "cannot reach server"
	}
	return err.Error()
}

// NormalizeChatCompletionsURL appends "chat/completions" to baseURL if it
// is not already the endpoint (spec §4.5 "URL normalization").
func NormalizeChatCompletionsURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "chat/completions") {
		return trimmed
	}
	return trimmed + "/chat/completions"
}
