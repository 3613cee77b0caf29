// Package world owns the shared simulation state: the map, regions, agents,
// items, relations, and world phenomena (spec §3 "Region & Tile", "Agent",
// "WorldPhenomenon", "Ownership"). It is intentionally behavior-light: the
// action, agentrt, and sim packages add lifecycle and scheduling on top of
// these plain data types. Cross-references between agents/regions/actions
// are represented as opaque ids (spec §9 "Cyclic references"), never as
// pointers back into the owning container.
package world

import "github.com/google/uuid"

// AgentID opaquely identifies an Agent across save/restore and cross-agent
// references (relations, gathering rosters, mutual action targets).
type AgentID string

// NewAgentID mints a fresh agent identifier.
func NewAgentID() AgentID {
	return AgentID(uuid.NewString())
}

// RegionID opaquely identifies a Region.
type RegionID int

// SectID opaquely identifies a sect (loaded from the sects static table,
// out of scope per spec §1; only the id is modeled here).
type SectID int

// MortalID opaquely identifies a non-agent population entry tracked by the
// MortalRegistry (spec SUPPLEMENTED "Mortal -> Agent promotion").
type MortalID string

// NewMortalID mints a fresh mortal identifier.
func NewMortalID() MortalID {
	return MortalID(uuid.NewString())
}
