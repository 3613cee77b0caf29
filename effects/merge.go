// Package effects merges an agent's scattered effect sources (sect,
// technique, weapon, persona, spirit animal, essence, temporary grants)
// into a single effective view (spec §4.11 "Effect merge"). Numeric
// contributions sum (as float64), []string contributions union, bool
// contributions OR; anything else is last-write-wins, matching
// original_source's ad-hoc dict-merge helpers scattered across
// classes/effect_holder.py. The auxiliary item in Inventory.Auxiliary is
// not a merge source. Every entry in Agent.TemporaryEffects is merged
// without an expiry check; expired entries drop out only once
// Agent.PruneExpiredEffects has removed them.
package effects

import "cultivation-world-simulator/world"

// Source is anything that contributes named effects. world.Persona,
// world.SpiritAnimal, world.Essence, and world.TemporaryEffect all satisfy
// this via their EffectValues method.
type Source interface {
	EffectValues() world.EffectValues
}

type staticSource world.EffectValues

func (s staticSource) EffectValues() world.EffectValues { return world.EffectValues(s) }

// From wraps a raw EffectValues map as a Source, for callers (weapon,
// technique, sect lookups) that only have the map, not one of the typed
// world structs.
func From(values world.EffectValues) Source {
	return staticSource(values)
}

// Merge combines every source's contributions using the additive/union/OR
// rules above. Sources are applied in order; for the last-write-wins
// fallback, later sources take precedence.
func Merge(sources ...Source) world.EffectValues {
	out := make(world.EffectValues)
	for _, s := range sources {
		if s == nil {
			continue
		}
		for k, v := range s.EffectValues() {
			mergeKey(out, k, v)
		}
	}
	return out
}

func mergeKey(out world.EffectValues, key string, v any) {
	existing, ok := out[key]
	if !ok {
		if n, isInt := v.(int); isInt {
			out[key] = float64(n)
			return
		}
		out[key] = v
		return
	}
	switch nv := v.(type) {
	case int:
		out[key] = toFloat(existing) + float64(nv)
	case float64:
		out[key] = toFloat(existing) + nv
	case bool:
		eb, _ := existing.(bool)
		out[key] = eb || nv
	case []string:
		es, _ := existing.([]string)
		out[key] = unionStrings(es, nv)
	default:
		out[key] = v
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
