package effects

import (
	"testing"

	"cultivation-world-simulator/world"

	"github.com/stretchr/testify/require"
)

func TestMergeAdditive(t *testing.T) {
	a := From(world.EffectValues{"attack_bonus": 1.5})
	b := From(world.EffectValues{"attack_bonus": 2})
	merged := Merge(a, b)
	require.Equal(t, 3.5, merged["attack_bonus"])
}

func TestMergeUnionList(t *testing.T) {
	a := From(world.EffectValues{"immunities": []string{"poison"}})
	b := From(world.EffectValues{"immunities": []string{"poison", "fire"}})
	merged := Merge(a, b)
	require.ElementsMatch(t, []string{"poison", "fire"}, merged["immunities"])
}

func TestMergeOrBool(t *testing.T) {
	a := From(world.EffectValues{"flies": false})
	b := From(world.EffectValues{"flies": true})
	merged := Merge(a, b)
	require.Equal(t, true, merged["flies"])
}

func TestMergeNilSourceSkipped(t *testing.T) {
	var p *world.Persona
	merged := Merge(p, From(world.EffectValues{"x": 1}))
	require.Equal(t, 1.0, merged["x"])
}

func TestEffectiveEffectsCaches(t *testing.T) {
	a := world.NewAgent(world.NewAgentID(), "Xu Lin", 0, world.Position{}, 100)
	a.Essence = &world.Essence{Effects: world.EffectValues{"fire_res": 1}}

	lookup := fakeLookup{}
	first := EffectiveEffects(a, lookup)
	require.Equal(t, 1.0, first["fire_res"])

	a.Essence.Effects["fire_res"] = 99
	stale := EffectiveEffects(a, lookup)
	require.Equal(t, 1.0, stale["fire_res"], "cache must not recompute without invalidation")

	a.InvalidateEffects()
	fresh := EffectiveEffects(a, lookup)
	require.Equal(t, 99.0, fresh["fire_res"])
}

type fakeLookup struct{}

func (fakeLookup) WeaponEffects(world.ItemID) world.EffectValues         { return nil }
func (fakeLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (fakeLookup) SectEffects(world.SectID) world.EffectValues           { return nil }
