package action

import "cultivation-world-simulator/effects"

// NewBuiltinRegistry returns a Registry pre-populated with the core action
// catalog. lookup resolves the static weapon/technique/sect effect tables
// that timed actions consult for duration_reduction and similar bonuses
// (spec §4.2). Callers needing an isolated registry for tests should
// prefer building one from the same constructor list directly (spec §9
// "Global registry").
func NewBuiltinRegistry(lookup effects.StaticLookup) *Registry {
	r := NewRegistry()
	for _, spec := range []Spec{
		NewHuntSpec(lookup),
		NewHarvestSpec(lookup),
		NewMineSpec(lookup),
		NewRetreatSpec(lookup),
		NewMeditateSpec(lookup),
		NewEscapeSpec(),
		NewAttackSpec(),
		NewMoveAwayFromAvatarSpec(),
		NewMoveToRegionSpec(),
	} {
		r.Register(spec)
	}
	return r
}
