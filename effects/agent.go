package effects

import "cultivation-world-simulator/world"

// StaticLookup resolves the effect contributions of static-table rows
// (weapon, technique, sect) that world does not itself hold content for
// (spec §1 "static data loading... out of scope"). Callers inject a
// concrete lookup backed by whatever static store they load at startup.
type StaticLookup interface {
	WeaponEffects(id world.ItemID) world.EffectValues
	TechniqueEffects(id world.TechniqueID) world.EffectValues
	SectEffects(id world.SectID) world.EffectValues
}

// EffectiveEffects returns an agent's fully merged effect view, recomputing
// only when the agent's effects version has advanced since the last call
// (spec §4.11 "version-counter-based cache invalidation").
func EffectiveEffects(a *world.Agent, lookup StaticLookup) world.EffectValues {
	cached, cachedVersion := a.CachedEffects()
	if cachedVersion == a.EffectsVersion() && cached != nil {
		return cached
	}

	sources := []Source{a.Persona, a.SpiritAnimal, a.Essence}
	if a.Inventory.Weapon != nil {
		sources = append(sources, From(lookup.WeaponEffects(*a.Inventory.Weapon)))
	}
	if a.Inventory.Technique != nil {
		sources = append(sources, From(lookup.TechniqueEffects(*a.Inventory.Technique)))
	}
	if a.SectID != nil {
		sources = append(sources, From(lookup.SectEffects(*a.SectID)))
	}
	for _, te := range a.TemporaryEffects {
		sources = append(sources, te)
	}

	merged := Merge(sources...)
	a.SetCachedEffects(merged, a.EffectsVersion())
	return merged
}
