package world

// Mortal is an unplayable background inhabitant, eligible for promotion to
// a full Agent once the conditions in sim's mortal-promotion phase are met
// (SUPPLEMENTED FEATURES "mortal -> agent promotion", grounded on
// original_source's sim/managers/mortal_manager.py).
type Mortal struct {
	ID         MortalID
	Name       string
	BirthMonth int
	RegionID   RegionID
	Promoted   bool
}

// MortalRegistry tracks the unpromoted mortal population.
type MortalRegistry struct {
	mortals map[MortalID]*Mortal
}

// NewMortalRegistry returns an empty registry.
func NewMortalRegistry() *MortalRegistry {
	return &MortalRegistry{mortals: make(map[MortalID]*Mortal)}
}

// Add registers a new mortal.
func (m *MortalRegistry) Add(mo *Mortal) {
	m.mortals[mo.ID] = mo
}

// Get looks up a mortal by id.
func (m *MortalRegistry) Get(id MortalID) (*Mortal, bool) {
	mo, ok := m.mortals[id]
	return mo, ok
}

// Unpromoted returns every mortal not yet promoted to Agent.
func (m *MortalRegistry) Unpromoted() []*Mortal {
	out := make([]*Mortal, 0, len(m.mortals))
	for _, mo := range m.mortals {
		if !mo.Promoted {
			out = append(out, mo)
		}
	}
	return out
}

// Promote marks a mortal promoted; callers are responsible for
// constructing and inserting the resulting Agent into World.Agents.
func (m *MortalRegistry) Promote(id MortalID) {
	if mo, ok := m.mortals[id]; ok {
		mo.Promoted = true
	}
}

// BornRegionCandidate pairs a region with the sampling weight it should
// carry when siting a newly-born mortal (original_source's
// utils/born_region.py: regions favor certain kinds, e.g. RegionNormal,
// over others for mortal birth).
type BornRegionCandidate struct {
	RegionID RegionID
	Weight   float64
}

// PickBornRegion performs the weighted sampling born_region.py does when
// siting a new mortal, reusing the same Pick primitive as phenomenon
// rotation and gathering agent selection.
func PickBornRegion(candidates []BornRegionCandidate, r float64) (RegionID, bool) {
	choices := make([]WeightedChoice[RegionID], len(candidates))
	for i, c := range candidates {
		choices[i] = WeightedChoice[RegionID]{Item: c.RegionID, Weight: c.Weight}
	}
	return Pick(choices, r)
}
