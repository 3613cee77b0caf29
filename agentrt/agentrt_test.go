package agentrt

import (
	"context"
	"testing"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/eventlog"
	"cultivation-world-simulator/world"

	"github.com/stretchr/testify/require"
)

type noopEffectLookup struct{}

func (noopEffectLookup) WeaponEffects(world.ItemID) world.EffectValues         { return nil }
func (noopEffectLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (noopEffectLookup) SectEffects(world.SectID) world.EffectValues          { return nil }

func newTestSetup() (*Runtime, *world.World, *world.Agent) {
	m := world.NewMap(5, 5, 1)
	w := world.NewWorld(m)
	w.Regions[1] = &world.Region{ID: 1, Kind: world.RegionNormal, Huntable: []string{"boar"}}
	a := world.NewAgent(world.NewAgentID(), "Xu Lin", 0, world.Position{X: 1, Y: 1}, 100)
	w.AddAgent(a)

	registry := action.NewBuiltinRegistry(noopEffectLookup{})
	log := eventlog.New(eventlog.NewMemStore(), 50, 100)
	return New(registry, log), w, a
}

func TestPromoteNextPlanStartsHighestPriority(t *testing.T) {
	ctx := context.Background()
	rt, w, a := newTestSetup()

	a.PlanQueue = []world.ActionPlan{
		{ActionName: "meditate", Priority: 1},
		{ActionName: "hunt", Priority: 5},
	}

	rt.PromoteNextPlan(ctx, w, a, 0)
	require.NotNil(t, a.CurrentAction)
	require.Equal(t, "hunt", a.CurrentAction.ActionName)
	require.Len(t, a.PlanQueue, 1)
	require.Equal(t, "meditate", a.PlanQueue[0].ActionName)
}

func TestAdvanceClearsCurrentActionOnCompletion(t *testing.T) {
	ctx := context.Background()
	rt, w, a := newTestSetup()
	a.PlanQueue = []world.ActionPlan{{ActionName: "meditate"}}

	rt.Advance(ctx, w, a, 0)
	require.NotNil(t, a.CurrentAction)

	for month := 0; month < 10 && a.CurrentAction != nil; month++ {
		rt.Advance(ctx, w, a, month)
	}
	require.Nil(t, a.CurrentAction)
}

func TestPreemptIsIdempotent(t *testing.T) {
	_, _, a := newTestSetup()
	rt := New(action.NewBuiltinRegistry(noopEffectLookup{}), eventlog.New(eventlog.NewMemStore(), 50, 100))
	a.CurrentAction = &world.ActionInstance{ActionName: "meditate", Status: world.StatusRunning}
	a.PlanQueue = []world.ActionPlan{{ActionName: "hunt"}}

	rt.Preempt(a)
	require.Nil(t, a.CurrentAction)
	require.Empty(t, a.PlanQueue)

	rt.Preempt(a)
	require.Nil(t, a.CurrentAction)
	require.Empty(t, a.PlanQueue)
}

func TestExpiredPlanIsDroppedWithoutAttempt(t *testing.T) {
	ctx := context.Background()
	rt, w, a := newTestSetup()
	expiry := 5
	a.PlanQueue = []world.ActionPlan{{ActionName: "hunt", ExpiryMonth: &expiry}}

	rt.PromoteNextPlan(ctx, w, a, 10)
	require.Nil(t, a.CurrentAction)
	require.Empty(t, a.PlanQueue)
}
