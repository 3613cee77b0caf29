package llmdispatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch"
)

type scriptedTransport struct {
	responses []llmdispatch.Response
	errs      []error
	calls     atomic.Int32
}

func (s *scriptedTransport) Complete(ctx context.Context, req llmdispatch.Request) (llmdispatch.Response, error) {
	i := int(s.calls.Add(1)) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return llmdispatch.Response{}, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return llmdispatch.Response{}, errors.New("scriptedTransport: ran out of responses")
}

func waitReady(t *testing.T, f *llmdispatch.Future) llmdispatch.CallResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := f.Get(ctx)
	require.NoError(t, err)
	return result
}

func TestDispatchJSONSucceedsOnFirstValidResponse(t *testing.T) {
	transport := &scriptedTransport{responses: []llmdispatch.Response{{Content: `{"x":1}`}}}
	d := llmdispatch.New(llmdispatch.Options{
		Transports:      map[llmdispatch.CallMode]llmdispatch.Transport{llmdispatch.ModeNormal: transport},
		MaxParseRetries: 2,
	})

	f := d.DispatchJSON(context.Background(), "plan", "test-model", "prompt", llmdispatch.ModeNormal)
	result := waitReady(t, f)

	require.NoError(t, result.Err)
	require.Equal(t, float64(1), result.Object["x"])
	require.EqualValues(t, 1, transport.calls.Load())
}

func TestDispatchJSONRetriesParseFailures(t *testing.T) {
	transport := &scriptedTransport{responses: []llmdispatch.Response{
		{Content: "not json"},
		{Content: "still not json"},
		{Content: `{"x":1}`},
	}}
	d := llmdispatch.New(llmdispatch.Options{
		Transports:      map[llmdispatch.CallMode]llmdispatch.Transport{llmdispatch.ModeNormal: transport},
		MaxParseRetries: 2,
	})

	f := d.DispatchJSON(context.Background(), "plan", "test-model", "prompt", llmdispatch.ModeNormal)
	result := waitReady(t, f)

	require.NoError(t, result.Err)
	require.Equal(t, float64(1), result.Object["x"])
	require.EqualValues(t, 3, transport.calls.Load())
}

func TestDispatchJSONExhaustsRetriesAndFails(t *testing.T) {
	transport := &scriptedTransport{responses: []llmdispatch.Response{
		{Content: "bad"},
		{Content: "bad"},
	}}
	d := llmdispatch.New(llmdispatch.Options{
		Transports:      map[llmdispatch.CallMode]llmdispatch.Transport{llmdispatch.ModeNormal: transport},
		MaxParseRetries: 1,
	})

	f := d.DispatchJSON(context.Background(), "plan", "test-model", "prompt", llmdispatch.ModeNormal)
	result := waitReady(t, f)

	require.Error(t, result.Err)
	require.EqualValues(t, 2, transport.calls.Load())
}

func TestDispatchJSONTransportErrorDoesNotRetry(t *testing.T) {
	transport := &scriptedTransport{errs: []error{errors.New("connection refused")}}
	d := llmdispatch.New(llmdispatch.Options{
		Transports:      map[llmdispatch.CallMode]llmdispatch.Transport{llmdispatch.ModeNormal: transport},
		MaxParseRetries: 3,
	})

	f := d.DispatchJSON(context.Background(), "plan", "test-model", "prompt", llmdispatch.ModeNormal)
	result := waitReady(t, f)

	require.Error(t, result.Err)
	require.EqualValues(t, 1, transport.calls.Load())
}

func TestResolveModeFallsBackToTaskTable(t *testing.T) {
	fast := &scriptedTransport{responses: []llmdispatch.Response{{Content: `{"ok":true}`}}}
	normal := &scriptedTransport{responses: []llmdispatch.Response{{Content: `{"ok":false}`}}}
	d := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{
			llmdispatch.ModeNormal: normal,
			llmdispatch.ModeFast:   fast,
		},
		TaskModes: map[string]llmdispatch.CallMode{"quick_check": llmdispatch.ModeFast},
	})

	f := d.DispatchJSON(context.Background(), "quick_check", "test-model", "prompt", llmdispatch.ModeDefault)
	result := waitReady(t, f)

	require.NoError(t, result.Err)
	require.Equal(t, true, result.Object["ok"])
	require.EqualValues(t, 1, fast.calls.Load())
	require.EqualValues(t, 0, normal.calls.Load())
}

func TestGlobalOverrideForcesMode(t *testing.T) {
	fast := &scriptedTransport{responses: []llmdispatch.Response{{Content: `{"ok":true}`}}}
	normal := &scriptedTransport{responses: []llmdispatch.Response{{Content: `{"ok":false}`}}}
	d := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{
			llmdispatch.ModeNormal: normal,
			llmdispatch.ModeFast:   fast,
		},
	})
	mode := llmdispatch.ModeFast
	d.SetGlobalOverride(&mode)

	f := d.DispatchJSON(context.Background(), "anything", "test-model", "prompt", llmdispatch.ModeNormal)
	result := waitReady(t, f)

	require.NoError(t, result.Err)
	require.EqualValues(t, 1, fast.calls.Load())
	require.EqualValues(t, 0, normal.calls.Load())
}

func TestDispatchRespectsConcurrencyLimit(t *testing.T) {
	const limit = 2
	var inFlight, maxSeen atomic.Int32
	transport := blockingTransport{
		onStart: func() {
			cur := inFlight.Add(1)
			for {
				seen := maxSeen.Load()
				if cur <= seen || maxSeen.CompareAndSwap(seen, cur) {
					break
				}
			}
		},
		onEnd: func() { inFlight.Add(-1) },
	}
	d := llmdispatch.New(llmdispatch.Options{
		Transports:            map[llmdispatch.CallMode]llmdispatch.Transport{llmdispatch.ModeNormal: transport},
		MaxConcurrentRequests: limit,
	})

	futures := make([]*llmdispatch.Future, 0, 6)
	for i := 0; i < 6; i++ {
		futures = append(futures, d.DispatchJSON(context.Background(), "plan", "test-model", "prompt", llmdispatch.ModeNormal))
	}
	for _, f := range futures {
		waitReady(t, f)
	}

	require.LessOrEqual(t, int(maxSeen.Load()), limit)
}

type blockingTransport struct {
	onStart func()
	onEnd   func()
}

func (b blockingTransport) Complete(ctx context.Context, req llmdispatch.Request) (llmdispatch.Response, error) {
	b.onStart()
	defer b.onEnd()
	time.Sleep(10 * time.Millisecond)
	return llmdispatch.Response{Content: `{"ok":true}`}, nil
}
