package llmdispatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch"
)

func TestDispatchTemplateSubstitutesAndPrettyPrintsKnownKeys(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "plan.tmpl")
	require.NoError(t, os.WriteFile(tmplPath, []byte("World:\n{{world_info}}\nGoal: {{goal}}"), 0o644))

	captured := make(chan string, 1)
	transport := capturingTransport{onComplete: func(req llmdispatch.Request) { captured <- req.Prompt }}
	d := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{llmdispatch.ModeNormal: transport},
	})

	f, err := d.DispatchTemplate(context.Background(), "plan", tmplPath, map[string]any{
		"world_info": map[string]any{"region": "Azure Peaks"},
		"goal":       "cultivate",
	}, "test-model", llmdispatch.ModeNormal, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = f.Get(ctx)

	select {
	case prompt := <-captured:
		require.Contains(t, prompt, "Azure Peaks")
		require.Contains(t, prompt, "Goal: cultivate")
	case <-time.After(2 * time.Second):
		t.Fatal("transport was never called")
	}
}

type capturingTransport struct {
	onComplete func(llmdispatch.Request)
}

func (c capturingTransport) Complete(ctx context.Context, req llmdispatch.Request) (llmdispatch.Response, error) {
	c.onComplete(req)
	return llmdispatch.Response{Content: `{"ok":true}`}, nil
}
