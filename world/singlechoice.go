package world

// WeightedChoice implements the generic weighted-random-pick utility shared
// by phenomenon rotation (spec §4.7 phase 6), gathering agent selection
// (spec §4.9), and mortal-manager born-region siting. Grounded on
// _examples/original_source/src/classes/single_choice.py, which the original
// reuses across exactly these three call sites instead of re-deriving
// weighted sampling each time.
type WeightedChoice[T any] struct {
	Item   T
	Weight float64
}

// Pick selects one item from choices proportional to its weight using r, a
// caller-supplied uniform random source in [0,1). Items with weight <= 0 are
// never selected. Returns the zero value and false if every weight is <= 0.
func Pick[T any](choices []WeightedChoice[T], r float64) (T, bool) {
	var total float64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	var zero T
	if total <= 0 {
		return zero, false
	}
	target := r * total
	var cum float64
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		cum += c.Weight
		if target < cum {
			return c.Item, true
		}
	}
	// Floating point edge case: target == total. Return the last positive-weight item.
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Item, true
		}
	}
	return zero, false
}
