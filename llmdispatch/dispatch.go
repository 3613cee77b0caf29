package llmdispatch

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"cultivation-world-simulator/engine"
	"cultivation-world-simulator/engine/inmem"
	"cultivation-world-simulator/simerr"
	"cultivation-world-simulator/telemetry"
)

// DefaultMaxConcurrentRequests is the default semaphore size (spec §4.5
// "Bounded concurrency... initial value configurable, default 10").
const DefaultMaxConcurrentRequests = 10

const (
	dispatchWorkflowName = "llmdispatch.dispatch"
	dispatchWorkflowID   = "llmdispatch"
	callActivityName     = "llmdispatch.call_llm_json"
)

// dispatchInput is the payload handed to the call_llm_json activity.
type dispatchInput struct {
	task, model, prompt string
	mode                CallMode
}

// Dispatcher is the process-wide gateway every action goes through to
// reach an LLM, bounding concurrency with a fixed-size semaphore the same
// way the teacher's provider package bounds concurrent tool execution
// (runtime/toolregistry/provider/provider.go MaxConcurrentToolCalls),
// adapted here to a plain in-process pool since this module has no
// cross-process Pulse/Redis transport to distribute over. Every call is
// scheduled through an engine.Engine as a registered activity (spec §9
// "Async control flow"): DispatchJSON hands the call to a long-lived
// dispatch workflow's WorkflowContext and wraps the resulting
// engine.Future, rather than spawning a bespoke goroutine.
type Dispatcher struct {
	transports      map[CallMode]Transport
	taskModes       map[string]CallMode
	globalOverride  *CallMode
	maxParseRetries int
	sem             chan struct{}
	limiter         *rate.Limiter
	logger          telemetry.Logger
	log             *CallLog

	eng   engine.Engine
	wfCtx engine.WorkflowContext
}

// Options configures a Dispatcher.
type Options struct {
	Transports            map[CallMode]Transport
	TaskModes             map[string]CallMode
	MaxConcurrentRequests int
	MaxParseRetries       int
	RequestsPerSecond     float64 // 0 disables client-side rate limiting
	Logger                telemetry.Logger
	CallLog               *CallLog
}

// New returns a Dispatcher. transports must provide at least ModeNormal.
func New(opts Options) *Dispatcher {
	maxConcurrent := opts.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRequests
	}
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), maxConcurrent)
	}

	d := &Dispatcher{
		transports:      opts.Transports,
		taskModes:       opts.TaskModes,
		maxParseRetries: opts.MaxParseRetries,
		sem:             make(chan struct{}, maxConcurrent),
		limiter:         limiter,
		logger:          logger,
		log:             opts.CallLog,
		eng:             inmem.New(),
	}
	d.bootstrap()
	return d
}

// bootstrap registers the call_llm_json activity and starts the single
// long-lived dispatch workflow whose WorkflowContext every DispatchJSON
// call reuses to schedule activities (spec §9: "every LLM-backed or
// mutual action step dispatches its call as an engine activity"). The
// workflow itself does nothing but hand back its WorkflowContext and
// park until the dispatcher's background context is canceled; it exists
// so DispatchJSON has something to call ExecuteActivityAsync through
// instead of reimplementing it.
func (d *Dispatcher) bootstrap() {
	ctx := context.Background()

	err := d.eng.RegisterActivity(ctx, engine.ActivityDefinition{
		Name: callActivityName,
		Handler: func(actCtx context.Context, input any) (any, error) {
			in, _ := input.(dispatchInput)
			return d.callLLMJSON(actCtx, in.task, in.model, in.prompt, in.mode), nil
		},
	})
	if err != nil {
		panic("llmdispatch: register call_llm_json activity: " + err.Error())
	}

	wfCtxCh := make(chan engine.WorkflowContext, 1)
	err = d.eng.RegisterWorkflow(ctx, engine.WorkflowDefinition{
		Name: dispatchWorkflowName,
		Handler: func(wfCtx engine.WorkflowContext, _ any) (any, error) {
			wfCtxCh <- wfCtx
			<-wfCtx.Context().Done()
			return nil, wfCtx.Context().Err()
		},
	})
	if err != nil {
		panic("llmdispatch: register dispatch workflow: " + err.Error())
	}

	if _, err := d.eng.StartWorkflow(ctx, engine.WorkflowStartRequest{
		ID:       dispatchWorkflowID,
		Workflow: dispatchWorkflowName,
	}); err != nil {
		panic("llmdispatch: start dispatch workflow: " + err.Error())
	}
	d.wfCtx = <-wfCtxCh
}

// SetGlobalOverride forces every task dispatched afterward to mode,
// regardless of its task-name table entry (spec §4.5 "a global override
// may force all tasks to one mode"). Pass nil to clear the override.
func (d *Dispatcher) SetGlobalOverride(mode *CallMode) {
	d.globalOverride = mode
}

// resolveMode implements the task-name -> mode table lookup with global
// override and ModeDefault resolution (spec §4.5 "Call modes").
func (d *Dispatcher) resolveMode(task string, requested CallMode) CallMode {
	if d.globalOverride != nil {
		return *d.globalOverride
	}
	if requested != ModeDefault && requested != "" {
		return requested
	}
	if mode, ok := d.taskModes[task]; ok {
		return mode
	}
	return ModeNormal
}

// DispatchJSON schedules an async call_llm_json engine activity (spec
// §4.5): the result, once ready, is a JSON object produced via retrying a
// parse failure up to maxParseRetries additional times (total attempts =
// N+1). It returns immediately with a Future; callers must never block on
// it inside step (spec §4.5 step 1).
func (d *Dispatcher) DispatchJSON(ctx context.Context, task string, model string, prompt string, mode CallMode) *Future {
	callCtx, cancel := context.WithCancel(ctx)

	fut, err := d.wfCtx.ExecuteActivityAsync(callCtx, engine.ActivityRequest{
		Name:  callActivityName,
		Input: dispatchInput{task: task, model: model, prompt: prompt, mode: mode},
	})
	if err != nil {
		panic("llmdispatch: call_llm_json activity not registered: " + err.Error())
	}
	return newFuture(fut, cancel)
}

func (d *Dispatcher) callLLMJSON(ctx context.Context, task, model, prompt string, mode CallMode) CallResult {
	resolved := d.resolveMode(task, mode)
	transport, ok := d.transports[resolved]
	if !ok {
		transport, ok = d.transports[ModeNormal]
	}
	if !ok {
		return CallResult{Err: simerr.WithKind(simerr.ErrLLMTransport, "no transport configured for mode "+string(resolved))}
	}

	attempts := d.maxParseRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := d.callOnce(ctx, transport, Request{Model: model, Prompt: prompt})
		if err != nil {
			return CallResult{Err: simerr.WithKindCause(simerr.ErrLLMTransport, "llm transport call failed", err)}
		}

		obj, perr := ParseJSONObject(resp.Content)
		if perr == nil {
			return CallResult{Object: obj}
		}
		lastErr = perr
	}
	return CallResult{Err: simerr.WithKindCause(simerr.ErrParse, "llm json response failed to parse after retries", lastErr)}
}

// callOnce acquires the bounded-concurrency permit, optionally waits on
// the client-side rate limiter, issues the transport call, records it to
// the rolling log, and releases the permit (spec §4.5 "Every LLM request
// acquires one permit before dispatch and releases on completion or
// error").
func (d *Dispatcher) callOnce(ctx context.Context, transport Transport, req Request) (Response, error) {
	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	defer func() { <-d.sem }()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return Response{}, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := transport.Complete(callCtx, req)
	duration := time.Since(start)

	if d.log != nil {
		d.log.Record(CallLogEntry{
			Model:        req.Model,
			PromptLen:    len(req.Prompt),
			ResponseLen:  len(resp.Content),
			Duration:     duration,
			Prompt:       req.Prompt,
			RawResponse:  resp.Content,
			ErrorMessage: errString(err),
			Timestamp:    start,
		})
	}

	d.logger.Debug(ctx, "llm call completed", "model", req.Model, "duration_ms", duration.Milliseconds())
	return resp, err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
