package mutual_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/mutual"
	"cultivation-world-simulator/world"
)

type scriptedTransport struct {
	content string
}

func (s scriptedTransport) Complete(ctx context.Context, req llmdispatch.Request) (llmdispatch.Response, error) {
	return llmdispatch.Response{Content: s.content}, nil
}

func newTestWorld() (*world.World, *world.Agent, *world.Agent) {
	m := world.NewMap(5, 5, 1)
	w := world.NewWorld(m)
	w.Regions[1] = &world.Region{ID: 1, Kind: world.RegionNormal}
	initiator := world.NewAgent(world.NewAgentID(), "Xu Lin", 0, world.Position{X: 1, Y: 1}, 100)
	target := world.NewAgent(world.NewAgentID(), "Mo Yan", 0, world.Position{X: 1, Y: 2}, 100)
	w.AddAgent(initiator)
	w.AddAgent(target)
	return w, initiator, target
}

func TestProposeDuelAcceptProducesSharedEvent(t *testing.T) {
	ctx := context.Background()
	w, initiator, target := newTestWorld()
	dispatcher := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{
			llmdispatch.ModeNormal: scriptedTransport{content: `{"thinking":"I accept","feedback":"accept"}`},
		},
	})
	spec := mutual.NewSpec(mutual.NewProposeDuelDeclaration(), dispatcher)
	inst := spec.New()

	params := map[string]any{"target": string(target.ID)}
	ok, reason := inst.CanStart(ctx, w, initiator, 10, params)
	require.True(t, ok, reason)

	_, err := inst.Start(ctx, w, initiator, 10, params)
	require.NoError(t, err)

	result, err := inst.Step(ctx, w, initiator, 10, params)
	require.NoError(t, err)
	require.Equal(t, world.StatusRunning, result.Status)

	deadline := time.Now().Add(2 * time.Second)
	for result.Status != world.StatusCompleted && time.Now().Before(deadline) {
		result, err = inst.Step(ctx, w, initiator, 11, params)
		require.NoError(t, err)
	}

	require.Equal(t, world.StatusCompleted, result.Status)
	require.Len(t, result.Events, 1)
	require.ElementsMatch(t, []world.AgentID{initiator.ID, target.ID}, result.Events[0].RelatedAgentIDs)
	require.Equal(t, "I accept", target.Thinking)
}

func TestProposeDuelEscapeInstallsResponseAction(t *testing.T) {
	ctx := context.Background()
	w, initiator, target := newTestWorld()
	dispatcher := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{
			llmdispatch.ModeNormal: scriptedTransport{content: `{"thinking":"too strong","feedback":"escape"}`},
		},
	})
	spec := mutual.NewSpec(mutual.NewProposeDuelDeclaration(), dispatcher)
	inst := spec.New()

	params := map[string]any{"target": string(target.ID)}
	_, _ = inst.CanStart(ctx, w, initiator, 10, params)
	_, _ = inst.Start(ctx, w, initiator, 10, params)

	result, _ := inst.Step(ctx, w, initiator, 10, params)
	require.Equal(t, world.StatusRunning, result.Status)

	deadline := time.Now().Add(2 * time.Second)
	for result.Status != world.StatusCompleted && time.Now().Before(deadline) {
		result, _ = inst.Step(ctx, w, initiator, 11, params)
	}

	require.Equal(t, world.StatusCompleted, result.Status)
	require.Len(t, result.Installs, 1)
	install := result.Installs[0]
	require.Equal(t, target.ID, install.AgentID)
	require.True(t, install.Preempt)
	require.Equal(t, "escape", install.Plans[0].ActionName)
	require.Equal(t, string(initiator.ID), install.Plans[0].Params["target"])
}

func TestConverseProducesSingleDialogueEventNoAnnouncement(t *testing.T) {
	ctx := context.Background()
	w, initiator, target := newTestWorld()
	dispatcher := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{
			llmdispatch.ModeNormal: scriptedTransport{content: `{"thinking":"curious","feedback":"talk","conversation_content":"Have you seen the comet?"}`},
		},
	})
	spec := mutual.NewSpec(mutual.NewConverseDeclaration(), dispatcher)
	inst := spec.New()

	params := map[string]any{"target": string(target.ID)}
	ev, err := inst.Start(ctx, w, initiator, 10, params)
	require.NoError(t, err)
	require.Nil(t, ev)

	result, _ := inst.Step(ctx, w, initiator, 10, params)
	deadline := time.Now().Add(2 * time.Second)
	for result.Status != world.StatusCompleted && time.Now().Before(deadline) {
		result, _ = inst.Step(ctx, w, initiator, 11, params)
	}

	require.Equal(t, world.StatusCompleted, result.Status)
	require.Len(t, result.Events, 1)
	require.Contains(t, result.Events[0].Content, "comet")
}
