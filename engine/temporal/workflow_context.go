package temporal

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"cultivation-world-simulator/engine"
	"cultivation-world-simulator/telemetry"
)

type workflowContext struct {
	e     *Engine
	ctx   workflow.Context
	runID string
}

func newWorkflowContext(e *Engine, ctx workflow.Context) *workflowContext {
	info := workflow.GetInfo(ctx)
	return &workflowContext{e: e, ctx: ctx, runID: info.WorkflowExecution.RunID}
}

func (w *workflowContext) Context() context.Context {
	base := context.Background()
	if b, ok := w.e.baseContexts.Load(w.runID); ok {
		if bc, ok := b.(context.Context); ok {
			base = bc
		}
	}
	return engine.WithWorkflowContext(base, w)
}
func (w *workflowContext) WorkflowID() string       { return workflow.GetInfo(w.ctx).WorkflowExecution.ID }
func (w *workflowContext) RunID() string            { return w.runID }
func (w *workflowContext) Logger() telemetry.Logger   { return w.e.logger }
func (w *workflowContext) Metrics() telemetry.Metrics { return w.e.metrics }
func (w *workflowContext) Tracer() telemetry.Tracer   { return w.e.tracer }
func (w *workflowContext) Now() time.Time             { return workflow.Now(w.ctx) }

func (w *workflowContext) ExecuteActivity(_ context.Context, req engine.ActivityRequest, result any) error {
	actx := workflow.WithActivityOptions(w.ctx, activityOptionsFor(req))
	return workflow.ExecuteActivity(actx, req.Name, req.Input).Get(actx, result)
}

func (w *workflowContext) ExecuteActivityAsync(_ context.Context, req engine.ActivityRequest) (engine.Future, error) {
	actx := workflow.WithActivityOptions(w.ctx, activityOptionsFor(req))
	fut := workflow.ExecuteActivity(actx, req.Name, req.Input)
	return &future{ctx: actx, fut: fut}, nil
}

func (w *workflowContext) SignalChannel(name string) engine.SignalChannel {
	return &signalChannel{ctx: w.ctx, ch: workflow.GetSignalChannel(w.ctx, name)}
}

func activityOptionsFor(req engine.ActivityRequest) workflow.ActivityOptions {
	opts := workflow.ActivityOptions{
		TaskQueue:           req.Queue,
		StartToCloseTimeout: req.Timeout,
	}
	if opts.StartToCloseTimeout == 0 {
		opts.StartToCloseTimeout = time.Minute
	}
	if rp := convertRetryPolicy(req.RetryPolicy); rp != nil {
		opts.RetryPolicy = rp
	}
	return opts
}

func convertRetryPolicy(r engine.RetryPolicy) *temporal.RetryPolicy {
	if r.MaxAttempts == 0 && r.InitialInterval == 0 && r.BackoffCoefficient == 0 {
		return nil
	}
	rp := &temporal.RetryPolicy{MaximumAttempts: int32(r.MaxAttempts)}
	if r.InitialInterval > 0 {
		rp.InitialInterval = r.InitialInterval
	}
	if r.BackoffCoefficient >= 1 {
		rp.BackoffCoefficient = r.BackoffCoefficient
	}
	return rp
}

type future struct {
	ctx workflow.Context
	fut workflow.Future
}

func (f *future) Get(_ context.Context, result any) error {
	return f.fut.Get(f.ctx, result)
}

func (f *future) IsReady() bool { return f.fut.IsReady() }

type signalChannel struct {
	ctx workflow.Context
	ch  workflow.ReceiveChannel
}

func (s *signalChannel) Receive(_ context.Context, dest any) error {
	s.ch.Receive(s.ctx, dest)
	return nil
}

func (s *signalChannel) ReceiveAsync(dest any) bool {
	return s.ch.ReceiveAsync(dest)
}
