package sim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/agentrt"
	"cultivation-world-simulator/clock"
	"cultivation-world-simulator/eventlog"
	"cultivation-world-simulator/gathering"
	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/sim"
	"cultivation-world-simulator/world"
)

type noopEffectLookup struct{}

func (noopEffectLookup) WeaponEffects(world.ItemID) world.EffectValues         { return nil }
func (noopEffectLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (noopEffectLookup) SectEffects(world.SectID) world.EffectValues          { return nil }

func newTestSimulator() (*sim.Simulator, *world.World) {
	m := world.NewMap(5, 5, 1)
	w := world.NewWorld(m)
	w.Regions[1] = &world.Region{ID: 1, Kind: world.RegionNormal, Huntable: []string{"boar"}}
	w.Regions[2] = &world.Region{ID: 2, Kind: world.RegionCity, Prosperity: 50}

	registry := action.NewBuiltinRegistry(noopEffectLookup{})
	log := eventlog.New(eventlog.NewMemStore(), 50, 100)
	rt := agentrt.New(registry, log)
	gatherings := gathering.NewRegistry()
	dispatcher := llmdispatch.New(llmdispatch.Options{
		Transports: map[llmdispatch.CallMode]llmdispatch.Transport{},
	})

	s := sim.New(sim.Options{
		World:      w,
		Clock:      clock.New(0),
		Runtime:    rt,
		Actions:    registry,
		Gatherings: gatherings,
		Dispatcher: dispatcher,
		Log:        log,
	})
	return s, w
}

func TestTickAdvancesClock(t *testing.T) {
	s, _ := newTestSimulator()
	ctx := context.Background()

	report, err := s.Tick(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, report.Month)
	require.Equal(t, 1, s.Clock.Now())
}

func TestTickDriftsCityProsperityTowardCap(t *testing.T) {
	s, w := newTestSimulator()
	ctx := context.Background()

	_, err := s.Tick(ctx)
	require.NoError(t, err)
	require.Equal(t, 51, w.Regions[2].Prosperity)
}

func TestTickKillsAgentPastMaxLifespan(t *testing.T) {
	s, w := newTestSimulator()
	ctx := context.Background()

	a := world.NewAgent(world.NewAgentID(), "Old Man Chen", -960, world.Position{X: 1, Y: 1}, 100)
	a.MaxLifespanYears = 80
	w.AddAgent(a)

	report, err := s.Tick(ctx)
	require.NoError(t, err)
	require.False(t, a.Alive)
	require.Len(t, report.DeathEvents, 1)
}

func TestTickReleasesHostedCultivateRegionOnDeath(t *testing.T) {
	s, w := newTestSimulator()
	ctx := context.Background()

	a := world.NewAgent(world.NewAgentID(), "Old Man Chen", -960, world.Position{X: 1, Y: 1}, 100)
	a.MaxLifespanYears = 80
	w.AddAgent(a)
	w.Regions[3] = &world.Region{ID: 3, Kind: world.RegionCultivate}
	w.Regions[3].SetHost(a.ID)

	_, err := s.Tick(ctx)
	require.NoError(t, err)
	require.Nil(t, w.Regions[3].Host)
}

func TestTickSurfacesMortalPromotionCandidatesWithoutPromoting(t *testing.T) {
	s, w := newTestSimulator()
	ctx := context.Background()

	mo := &world.Mortal{ID: world.NewMortalID(), Name: "Village Child", BirthMonth: -(16*12 + 1), RegionID: 1}
	w.Mortals.Add(mo)

	report, err := s.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, report.MortalCandidates, 1)
	require.False(t, mo.Promoted)
	require.Len(t, w.Mortals.Unpromoted(), 1)
}

func TestTickRollsRegisteredWorldEvents(t *testing.T) {
	s, w := newTestSimulator()
	ctx := context.Background()

	a := world.NewAgent(world.NewAgentID(), "Xu Lin", 0, world.Position{X: 1, Y: 1}, 100)
	w.AddAgent(a)
	s.WorldEvents = []sim.WorldEventEffect{sim.NewFortuneWindfall(1, 10)}

	report, err := s.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, report.WorldEventEvents, 1)
	require.Equal(t, 10, a.Inventory.Currency)
}

func TestTickRotatesPhenomenonWhenNoneActive(t *testing.T) {
	s, _ := newTestSimulator()
	ctx := context.Background()
	s.PhenomenaCandidates = []world.PhenomenonCandidate{
		{ID: 1, Tier: world.RarityCommon, DurationYears: 1},
	}

	report, err := s.Tick(ctx)
	require.NoError(t, err)
	require.True(t, report.PhenomenonChanged)
}
