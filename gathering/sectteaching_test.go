package gathering_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/gathering"
	"cultivation-world-simulator/world"
)

type fakeLookup struct{}

func (fakeLookup) WeaponEffects(world.ItemID) world.EffectValues       { return nil }
func (fakeLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (fakeLookup) SectEffects(world.SectID) world.EffectValues         { return nil }

func newSectWorld(sect world.SectID, n int) (*world.World, []*world.Agent) {
	m := world.NewMap(5, 5, 1)
	w := world.NewWorld(m)
	w.Regions[1] = &world.Region{ID: 1, Kind: world.RegionSect, Sect: sect}

	agents := make([]*world.Agent, 0, n)
	for i := 0; i < n; i++ {
		a := world.NewAgent(world.NewAgentID(), "Disciple", 0, world.Position{X: 1, Y: 1}, 100)
		a.SectID = &sect
		w.AddAgent(a)
		agents = append(agents, a)
	}
	return w, agents
}

func TestSectTeachingPicksHighestRealmAsTeacher(t *testing.T) {
	sect := world.SectID(1)
	w, agents := newSectWorld(sect, 3)
	agents[1].Realm = 5 // highest

	g := gathering.NewSectTeaching(fakeLookup{}, action.NewRegistry(), 0.1, 0.3, 0.5)
	started := g.IsStart(w, 0)
	require.True(t, started)

	related := g.RelatedAgents(w)
	require.Equal(t, agents[1], related[0])
}

func TestSectTeachingGrantsExperienceToStudents(t *testing.T) {
	sect := world.SectID(1)
	w, agents := newSectWorld(sect, 2)
	agents[0].Realm = 3

	g := gathering.NewSectTeaching(fakeLookup{}, action.NewRegistry(), 0.1, 0.3, 0)
	require.True(t, g.IsStart(w, 0))

	events, err := g.Execute(context.Background(), w, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	student := agents[1]
	require.Greater(t, student.Experience, 0)
}

func TestSectTeachingDoesNotStartWithFewerThanTwoMembers(t *testing.T) {
	sect := world.SectID(1)
	w, _ := newSectWorld(sect, 1)

	g := gathering.NewSectTeaching(fakeLookup{}, action.NewRegistry(), 0.1, 0.3, 0.5)
	require.False(t, g.IsStart(w, 0))
}
