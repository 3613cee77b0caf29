// Package engine defines the workflow engine abstractions every LLM-backed
// or mutual action step dispatches through (spec §9 "Async control flow").
// It provides a pluggable interface so the simulator's tick loop can target
// an in-memory engine for a single process or, later, a durable backend,
// without the action/mutual/llmdispatch packages changing shape.
package engine

import (
	"context"
	"time"

	"cultivation-world-simulator/telemetry"
)

type (
	// Engine abstracts workflow registration and execution so adapters
	// (in-memory, Temporal, or custom) can be swapped without touching
	// action or llmdispatch code.
	Engine interface {
		// RegisterWorkflow registers a workflow definition with the engine.
		// Returns an error if the workflow name is already registered.
		RegisterWorkflow(ctx context.Context, def WorkflowDefinition) error

		// RegisterActivity registers an activity definition with the engine.
		// Activities are short-lived tasks invoked from workflows. Returns an
		// error if the activity name conflicts.
		RegisterActivity(ctx context.Context, def ActivityDefinition) error

		// StartWorkflow initiates a new workflow execution and returns a
		// handle for interacting with it. req.ID must be unique for the
		// engine instance.
		StartWorkflow(ctx context.Context, req WorkflowStartRequest) (WorkflowHandle, error)
	}

	// WorkflowDefinition binds a workflow handler to a logical name and
	// default queue.
	WorkflowDefinition struct {
		Name      string
		TaskQueue string
		Handler   WorkflowFunc
	}

	// WorkflowFunc is a workflow entry point. It receives a WorkflowContext
	// and arbitrary input, returning a result or error.
	WorkflowFunc func(ctx WorkflowContext, input any) (any, error)

	// WorkflowContext exposes engine operations to workflow handlers:
	// activity dispatch, signals, and observability. Implementations bind it
	// to a single workflow execution; it must not be shared across
	// goroutines outside that execution's own bookkeeping.
	WorkflowContext interface {
		// Context returns the Go context for the workflow, used for activity
		// execution and cancellation propagation.
		Context() context.Context

		// WorkflowID returns the unique identifier for this workflow execution.
		WorkflowID() string

		// RunID returns the engine-assigned run identifier.
		RunID() string

		// ExecuteActivity schedules an activity and waits for its result,
		// populating result with the activity's return value.
		ExecuteActivity(ctx context.Context, req ActivityRequest, result any) error

		// ExecuteActivityAsync schedules an activity without blocking and
		// returns a Future. Returns an error only if the activity cannot be
		// scheduled; execution errors surface via Future.Get().
		ExecuteActivityAsync(ctx context.Context, req ActivityRequest) (Future, error)

		// SignalChannel returns a channel for the given signal name.
		SignalChannel(name string) SignalChannel

		// Logger returns a logger scoped to this workflow execution.
		Logger() telemetry.Logger

		// Metrics returns a metrics recorder scoped to this workflow execution.
		Metrics() telemetry.Metrics

		// Tracer returns a tracer for spans within the workflow.
		Tracer() telemetry.Tracer

		// Now returns the current workflow time.
		Now() time.Time
	}

	// Future represents a pending activity result, the handle an action
	// stores on itself across ticks while an LLM call or mutual-action
	// step is outstanding (spec §4.5, §9).
	Future interface {
		// Get blocks until the activity completes and populates result.
		// Calling Get multiple times returns the same result/error.
		Get(ctx context.Context, result any) error

		// IsReady reports whether Get will return immediately.
		IsReady() bool
	}

	// ActivityDefinition registers an activity handler with optional
	// defaults. Activities are stateless, short-lived tasks invoked from
	// workflows.
	ActivityDefinition struct {
		Name    string
		Handler ActivityFunc
		Options ActivityOptions
	}

	// ActivityFunc handles an activity invocation.
	ActivityFunc func(ctx context.Context, input any) (any, error)

	// ActivityOptions configures retry/timeout behavior for an activity.
	ActivityOptions struct {
		Queue       string
		RetryPolicy RetryPolicy
		Timeout     time.Duration
	}

	// WorkflowStartRequest describes how to launch a workflow execution.
	WorkflowStartRequest struct {
		ID               string
		Workflow         string
		TaskQueue        string
		Input            any
		Memo             map[string]any
		SearchAttributes map[string]any
		RetryPolicy      RetryPolicy
	}

	// ActivityRequest contains what's needed to schedule an activity from a
	// workflow.
	ActivityRequest struct {
		Name        string
		Input       any
		Queue       string
		RetryPolicy RetryPolicy
		Timeout     time.Duration
	}

	// WorkflowHandle lets callers interact with a running workflow.
	WorkflowHandle interface {
		Wait(ctx context.Context, result any) error
		Signal(ctx context.Context, name string, payload any) error
		Cancel(ctx context.Context) error
	}

	// RetryPolicy defines retry semantics shared by workflows and
	// activities. Zero-valued fields mean the engine uses its defaults.
	RetryPolicy struct {
		MaxAttempts        int
		InitialInterval    time.Duration
		BackoffCoefficient float64
	}

	// SignalChannel exposes workflow signal delivery in an engine-agnostic
	// way.
	SignalChannel interface {
		Receive(ctx context.Context, dest any) error
		ReceiveAsync(dest any) bool
	}
)
