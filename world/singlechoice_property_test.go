package world_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"cultivation-world-simulator/world"
)

// For any non-empty set of positive weights and any r in [0,1), Pick always
// returns one of the offered items, never the zero value.
func TestPickAlwaysReturnsAnOfferedItemProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Pick returns a candidate in range for any r in [0,1)", prop.ForAll(
		func(weights []float64, r float64) bool {
			choices := make([]world.WeightedChoice[int], len(weights))
			for i, w := range weights {
				choices[i] = world.WeightedChoice[int]{Item: i, Weight: w + 1}
			}
			item, ok := world.Pick(choices, r)
			if !ok {
				return false
			}
			return item >= 0 && item < len(choices)
		},
		gen.SliceOfN(5, gen.Float64Range(0, 100)),
		gen.Float64Range(0, 0.999999),
	))

	properties.TestingRun(t)
}

// Pick never selects a non-positive-weight item.
func TestPickSkipsZeroWeightChoicesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Pick never returns a weight<=0 item", prop.ForAll(
		func(r float64) bool {
			choices := []world.WeightedChoice[string]{
				{Item: "excluded", Weight: 0},
				{Item: "included", Weight: 1},
			}
			item, ok := world.Pick(choices, r)
			return ok && item == "included"
		},
		gen.Float64Range(0, 0.999999),
	))

	properties.TestingRun(t)
}
