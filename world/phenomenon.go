package world

// PhenomenonID identifies a celestial phenomenon row in the static table
// (out of scope per spec §1; only the id is modeled here).
type PhenomenonID int

// Phenomenon is the single active WorldPhenomenon (spec §3): at most one
// active at a time, chosen by rarity-weighted sampling and rotated when it
// expires (spec §4.7 phase 6).
type Phenomenon struct {
	ID            PhenomenonID
	StartMonth    int
	DurationYears int
}

// Expired reports whether the phenomenon's window has elapsed by clockNow.
func (p *Phenomenon) Expired(clockNow int) bool {
	if p == nil {
		return true
	}
	return clockNow >= p.StartMonth+p.DurationYears*12
}

// RarityTier mirrors _examples/original_source/src/classes/rarity.py: each
// phenomenon (and, by extension, any rarity-gated static row) carries a
// coarse rarity tier that maps to a sampling weight.
type RarityTier int

const (
	RarityCommon RarityTier = iota
	RarityUncommon
	RarityRare
	RarityLegendary
)

// Weight returns the rarity-weighted sampling weight for a tier, heavier
// tiers being exponentially less likely. Used to build the WeightedChoice
// slice consumed by Pick when rotating the world phenomenon.
func (t RarityTier) Weight() float64 {
	switch t {
	case RarityCommon:
		return 100
	case RarityUncommon:
		return 30
	case RarityRare:
		return 8
	case RarityLegendary:
		return 1
	default:
		return 0
	}
}

// PhenomenonCandidate pairs a phenomenon id with its rarity tier and the
// duration (in years) it runs for once chosen.
type PhenomenonCandidate struct {
	ID            PhenomenonID
	Tier          RarityTier
	DurationYears int
}

// ChoosePhenomenon performs the rarity-weighted sampling described in spec
// §4.7 phase 6, returning the candidate to activate next.
func ChoosePhenomenon(candidates []PhenomenonCandidate, r float64) (PhenomenonCandidate, bool) {
	choices := make([]WeightedChoice[PhenomenonCandidate], len(candidates))
	for i, c := range candidates {
		choices[i] = WeightedChoice[PhenomenonCandidate]{Item: c, Weight: c.Tier.Weight()}
	}
	return Pick(choices, r)
}
