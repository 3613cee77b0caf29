package world

// RegionKind discriminates the four region shapes in spec §3 ("Region &
// Tile"). Go has no sum types, so Region carries a Kind tag plus only the
// fields relevant to that kind populated, matching the teacher's pattern of
// tagged structs (e.g. model.Part variants) over a class hierarchy.
type RegionKind int

const (
	RegionNormal RegionKind = iota
	RegionCultivate
	RegionCity
	RegionSect
)

func (k RegionKind) String() string {
	switch k {
	case RegionNormal:
		return "normal"
	case RegionCultivate:
		return "cultivate"
	case RegionCity:
		return "city"
	case RegionSect:
		return "sect"
	default:
		return "unknown"
	}
}

// Region is one Tile-owning area of the map. Only the fields matching Kind
// are meaningful; others are zero-valued.
type Region struct {
	ID   RegionID
	Kind RegionKind
	Name string

	// Normal
	Huntable    []string // animal table ids, huntable in this region
	Harvestable []string // plant table ids
	Mineable    []string // lode table ids

	// Cultivate
	Essence ElementID // essence element this region cultivates
	Density int       // cultivation density, higher = faster progress
	Host    *AgentID  // nil if unclaimed; must reference a living agent located here

	// City
	StoreItems []ItemID
	Prosperity int // clamped to [0,100]

	// Sect
	Sect SectID
}

// ElementID identifies a cultivation essence element (static data table,
// out of scope per spec §1; only the id is modeled here).
type ElementID int

// ClampProsperity enforces the spec §3 invariant that city prosperity stays
// within [0,100]. Call after any mutation to Prosperity.
func (r *Region) ClampProsperity() {
	if r.Prosperity < 0 {
		r.Prosperity = 0
	}
	if r.Prosperity > 100 {
		r.Prosperity = 100
	}
}

// SetHost claims the cultivate region for agent a. Callers are responsible
// for verifying a is alive and located in this region (spec §3 invariant).
func (r *Region) SetHost(a AgentID) {
	id := a
	r.Host = &id
}

// ClearHost releases the cultivate region, e.g. when its host dies or leaves.
func (r *Region) ClearHost() {
	r.Host = nil
}
