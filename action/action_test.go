package action

import (
	"context"
	"testing"

	"cultivation-world-simulator/world"

	"github.com/stretchr/testify/require"
)

type fakeLookup struct{}

func (fakeLookup) WeaponEffects(world.ItemID) world.EffectValues         { return nil }
func (fakeLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (fakeLookup) SectEffects(world.SectID) world.EffectValues           { return nil }

func newTestWorld() (*world.World, *world.Agent) {
	m := world.NewMap(5, 5, 1)
	w := world.NewWorld(m)
	w.Regions[1] = &world.Region{ID: 1, Kind: world.RegionNormal, Huntable: []string{"boar"}}
	a := world.NewAgent(world.NewAgentID(), "Xu Lin", 0, world.Position{X: 1, Y: 1}, 100)
	w.AddAgent(a)
	return w, a
}

func TestHuntCompletesAfterDuration(t *testing.T) {
	ctx := context.Background()
	w, a := newTestWorld()
	spec := NewHuntSpec(fakeLookup{})
	inst := spec.New()

	ok, reason := inst.CanStart(ctx, w, a, 100, nil)
	require.True(t, ok, reason)

	_, err := inst.Start(ctx, w, a, 100, nil)
	require.NoError(t, err)

	var last Result
	for month := 100; month <= 105; month++ {
		last, err = inst.Step(ctx, w, a, month, nil)
		require.NoError(t, err)
	}
	require.Equal(t, world.StatusCompleted, last.Status)

	events, err := inst.Finish(ctx, w, a, 105, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotEmpty(t, a.Inventory.Materials)
}

func TestDurationReductionClampedAndApplied(t *testing.T) {
	require.Equal(t, 5, effectiveDuration(10, 0.5))
	require.Equal(t, 1, effectiveDuration(10, 1.5), "reduction must clamp to 0.9")
}

func TestTimedOneMonthCompletesSameTick(t *testing.T) {
	require.True(t, timedComplete(100, 100, 1))
}

func TestEscapeInstallsExactlyOnePlanOnSelf(t *testing.T) {
	ctx := context.Background()
	w, a := newTestWorld()
	target := world.NewAgent(world.NewAgentID(), "Mo Yun", 0, world.Position{X: 2, Y: 1}, 100)
	w.AddAgent(target)

	spec := NewEscapeSpec()
	inst := spec.New()
	params := map[string]any{"target": string(target.ID)}

	ok, _ := inst.CanStart(ctx, w, a, 0, params)
	require.True(t, ok)

	result, err := inst.Step(ctx, w, a, 0, params)
	require.NoError(t, err)
	require.Equal(t, world.StatusCompleted, result.Status)
	require.Len(t, result.Installs, 1)
	require.Equal(t, a.ID, result.Installs[0].AgentID)
	require.True(t, result.Installs[0].Preempt)
	require.Len(t, result.Installs[0].Plans, 1)

	installed := result.Installs[0].Plans[0].ActionName
	require.Contains(t, []string{"move_away_from_avatar", "attack"}, installed)
}

func TestRetreatSuccessRateClampedToBounds(t *testing.T) {
	require.InDelta(t, 1.0, retreatSuccessRate(0, 10), 0.0001)
	require.InDelta(t, 0.1, retreatSuccessRate(20, 0), 0.0001)
}

func TestParamValidationNoSchemaIsNoop(t *testing.T) {
	require.NoError(t, ValidateParams(Spec{Name: "hunt"}, map[string]any{"anything": 1}))
}
