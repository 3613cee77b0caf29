package inmem

import (
	"context"
	"testing"
	"time"

	"cultivation-world-simulator/engine"
)

func TestExecuteActivityAsyncDeliversResult(t *testing.T) {
	eng := New()
	ctx := context.Background()

	err := eng.RegisterActivity(ctx, engine.ActivityDefinition{
		Name: "echo",
		Handler: func(_ context.Context, input any) (any, error) {
			return input, nil
		},
	})
	if err != nil {
		t.Fatalf("register activity: %v", err)
	}

	err = eng.RegisterWorkflow(ctx, engine.WorkflowDefinition{
		Name: "echo_workflow",
		Handler: func(wfCtx engine.WorkflowContext, input any) (any, error) {
			fut, err2 := wfCtx.ExecuteActivityAsync(wfCtx.Context(), engine.ActivityRequest{
				Name:  "echo",
				Input: "hello",
			})
			if err2 != nil {
				return nil, err2
			}
			var out string
			if err2 := fut.Get(wfCtx.Context(), &out); err2 != nil {
				return nil, err2
			}
			return out, nil
		},
	})
	if err != nil {
		t.Fatalf("register workflow: %v", err)
	}

	handle, err := eng.StartWorkflow(ctx, engine.WorkflowStartRequest{
		ID:       "run-1",
		Workflow: "echo_workflow",
	})
	if err != nil {
		t.Fatalf("start workflow: %v", err)
	}

	var result string
	if err := handle.Wait(ctx, &result); err != nil {
		t.Fatalf("workflow failed: %v", err)
	}
	if result != "hello" {
		t.Errorf("expected %q, got %q", "hello", result)
	}
}

func TestFutureIsReadyBeforeGetBlocks(t *testing.T) {
	eng := New()
	ctx := context.Background()
	release := make(chan struct{})

	err := eng.RegisterActivity(ctx, engine.ActivityDefinition{
		Name: "slow",
		Handler: func(ctx context.Context, input any) (any, error) {
			<-release
			return "done", nil
		},
	})
	if err != nil {
		t.Fatalf("register activity: %v", err)
	}

	started := make(chan engine.WorkflowContext, 1)
	err = eng.RegisterWorkflow(ctx, engine.WorkflowDefinition{
		Name: "slow_workflow",
		Handler: func(wfCtx engine.WorkflowContext, input any) (any, error) {
			started <- wfCtx
			<-wfCtx.Context().Done()
			return nil, wfCtx.Context().Err()
		},
	})
	if err != nil {
		t.Fatalf("register workflow: %v", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := eng.StartWorkflow(runCtx, engine.WorkflowStartRequest{ID: "run-2", Workflow: "slow_workflow"}); err != nil {
		t.Fatalf("start workflow: %v", err)
	}

	wfCtx := <-started
	fut, err := wfCtx.ExecuteActivityAsync(runCtx, engine.ActivityRequest{Name: "slow"})
	if err != nil {
		t.Fatalf("execute activity async: %v", err)
	}
	if fut.IsReady() {
		t.Fatal("future reported ready before activity completed")
	}
	close(release)

	var out string
	if err := fut.Get(runCtx, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "done" {
		t.Errorf("expected %q, got %q", "done", out)
	}
	if !fut.IsReady() {
		t.Error("future should report ready once resolved")
	}
}
