package world

// HP is a bounded vitality stat (spec SUPPLEMENTED FEATURES "HP model"),
// grounded on original_source's hp.py: current hit points clamped to
// [0, Max], with Max itself drifting over an agent's lifetime (e.g. realm
// breakthroughs raise it, Retreat failure lowers max lifespan-adjacent
// stats elsewhere).
type HP struct {
	Current int
	Max     int
}

// NewHP returns an HP at full health.
func NewHP(max int) HP {
	return HP{Current: max, Max: max}
}

// Alive reports whether Current is above zero.
func (h HP) Alive() bool {
	return h.Current > 0
}

// Apply adds delta to Current, clamping to [0, Max].
func (h *HP) Apply(delta int) {
	h.Current += delta
	if h.Current > h.Max {
		h.Current = h.Max
	}
	if h.Current < 0 {
		h.Current = 0
	}
}

// SetMax changes the ceiling, clamping Current down if it now exceeds it.
func (h *HP) SetMax(max int) {
	h.Max = max
	if h.Current > h.Max {
		h.Current = h.Max
	}
}
