package world

import "fmt"

// World is the full simulated state (spec §3 "World"): the map, its
// regions, every Agent, the single active Phenomenon, and the mortal
// population awaiting promotion.
type World struct {
	Map        *Map
	Regions    map[RegionID]*Region
	Agents     map[AgentID]*Agent
	Phenomenon *Phenomenon
	Mortals    *MortalRegistry
}

// NewWorld returns an empty World over the given map.
func NewWorld(m *Map) *World {
	return &World{
		Map:     m,
		Regions: make(map[RegionID]*Region),
		Agents:  make(map[AgentID]*Agent),
		Mortals: NewMortalRegistry(),
	}
}

// AddAgent registers an agent, keyed by its id.
func (w *World) AddAgent(a *Agent) {
	w.Agents[a.ID] = a
}

// Agent looks up an agent by id.
func (w *World) Agent(id AgentID) (*Agent, bool) {
	a, ok := w.Agents[id]
	return a, ok
}

// Region looks up a region by id, returning an error wrapping
// simerr.ErrDataMissing-compatible text for callers that need it (package
// world itself does not import simerr to avoid a cycle with packages that
// wrap world errors; callers promote this into a simerr.SimError).
func (w *World) Region(id RegionID) (*Region, error) {
	r, ok := w.Regions[id]
	if !ok {
		return nil, fmt.Errorf("region %d not found", id)
	}
	return r, nil
}

// RegionAt returns the region occupying p, resolving through the map's
// tile grid.
func (w *World) RegionAt(p Position) (*Region, error) {
	t, err := w.Map.Tile(p)
	if err != nil {
		return nil, err
	}
	return w.Region(t.RegionID)
}

// AliveAgents returns every agent with Alive set, in map iteration order
// (callers that need determinism must sort).
func (w *World) AliveAgents() []*Agent {
	out := make([]*Agent, 0, len(w.Agents))
	for _, a := range w.Agents {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}
