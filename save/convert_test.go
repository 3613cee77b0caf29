package save_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/clock"
	"cultivation-world-simulator/save"
	"cultivation-world-simulator/world"
)

type noopEffectLookup struct{}

func (noopEffectLookup) WeaponEffects(world.ItemID) world.EffectValues         { return nil }
func (noopEffectLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (noopEffectLookup) SectEffects(world.SectID) world.EffectValues          { return nil }

func newTestWorld() *world.World {
	m := world.NewMap(3, 3, 1)
	w := world.NewWorld(m)
	w.Regions[1] = &world.Region{ID: 1, Kind: world.RegionNormal}
	w.Regions[2] = &world.Region{ID: 2, Kind: world.RegionCity, Prosperity: 30}
	return w
}

func TestToSnapshotAndFromSnapshotRoundTripsAgent(t *testing.T) {
	w := newTestWorld()
	c := clock.New(7)

	a := world.NewAgent(world.NewAgentID(), "Xu Lin", -5, world.Position{X: 1, Y: 1}, 100)
	a.Inventory.Currency = 12
	a.KnownRegions[1] = struct{}{}
	w.AddAgent(a)

	snap := save.ToSnapshot(w, c, "en", 0)
	require.Len(t, snap.Avatars, 1)
	require.Equal(t, "Xu Lin", snap.Avatars[0].Name)
	require.Equal(t, 12, snap.Avatars[0].Inventory.Currency)
	require.Equal(t, []world.RegionID{1}, snap.Avatars[0].KnownRegions)

	registry := action.NewBuiltinRegistry(noopEffectLookup{})
	restored, restoredClock := save.FromSnapshot(snap, registry, w.Regions, m(w))

	require.Equal(t, 7, restoredClock.Now())
	got, ok := restored.Agent(a.ID)
	require.True(t, ok)
	require.Equal(t, "Xu Lin", got.Name)
	require.Equal(t, 12, got.Inventory.Currency)
	_, known := got.KnownRegions[1]
	require.True(t, known)
}

func TestFromSnapshotRestoresRunningActionAsRunning(t *testing.T) {
	w := newTestWorld()
	registry := action.NewBuiltinRegistry(noopEffectLookup{})
	specs := registry.ActualOnly()
	require.NotEmpty(t, specs)
	spec := specs[0]

	a := world.NewAgent(world.NewAgentID(), "Mei", 0, world.Position{X: 0, Y: 0}, 100)
	a.CurrentAction = &world.ActionInstance{
		ActionName: spec.Name,
		Params:     map[string]any{"target": "boar"},
		Status:     world.StatusRunning,
	}
	w.AddAgent(a)

	snap := save.ToSnapshot(w, clock.New(0), "en", 0)
	require.NotNil(t, snap.Avatars[0].CurrentAction)
	require.Equal(t, spec.Name, snap.Avatars[0].CurrentAction.ActionName)

	restored, _ := save.FromSnapshot(snap, registry, w.Regions, m(w))
	got, _ := restored.Agent(a.ID)
	require.NotNil(t, got.CurrentAction)
	require.Equal(t, world.StatusRunning, got.CurrentAction.Status)
	require.NotNil(t, got.CurrentAction.Object)
}

func m(w *world.World) *world.Map { return w.Map }
