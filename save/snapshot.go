// Package save implements the snapshot format and storage backends for
// save/restore (spec §4.10, C11): clock, every region's mutable state,
// every agent's full state (including current_action as
// {action_class_name, params, status, custom_save_data} and its plan
// queue), and the active phenomenon/mortal population. Loading
// reinstantiates action objects by name via a supplied action.Registry,
// restores execution state through action.Instance.LoadSaveData, and
// leaves every restored action RUNNING — any in-flight LLM task is
// discarded and re-issued on the next Step (spec §4.10).
package save

import (
	"time"

	"cultivation-world-simulator/world"
)

// FormatVersion is stamped into every snapshot's Meta.Version.
const FormatVersion = "1"

// Meta is the snapshot's load-time-consulted header (spec §6 "Save file").
type Meta struct {
	Version    string    `json:"version"`
	SaveTime   time.Time `json:"save_time"`
	GameTime   int       `json:"game_time"`
	Language   string    `json:"language"`
	EventsDB   string    `json:"events_db,omitempty"`
	EventCount int       `json:"event_count"`
}

// ActionInstanceSnapshot captures a running action the way spec §4.10
// requires: by name and params plus whatever execution state the action
// type itself chooses to persist, never the live Go value.
type ActionInstanceSnapshot struct {
	ActionName     string              `json:"action_class_name"`
	Params         map[string]any      `json:"params"`
	Status         world.ActionStatus  `json:"status"`
	CustomSaveData map[string]any      `json:"custom_save_data,omitempty"`
}

// AgentSnapshot mirrors world.Agent's exported state. Effect caches are
// intentionally omitted: they are rederived from sources on first access
// after load (spec §4.11 "recomputed on any source change").
type AgentSnapshot struct {
	ID               world.AgentID              `json:"id"`
	Name             string                     `json:"name"`
	BirthMonth       int                        `json:"birth_month"`
	Alive            bool                       `json:"alive"`
	MaxLifespanYears int                        `json:"max_lifespan_years"`
	Realm            world.RealmIdx             `json:"realm"`
	Experience       int                        `json:"experience"`
	HP               world.HP                   `json:"hp"`
	Essence          *world.Essence             `json:"essence,omitempty"`
	Persona          *world.Persona             `json:"persona,omitempty"`
	SpiritAnimal     *world.SpiritAnimal        `json:"spirit_animal,omitempty"`
	Position         world.Position             `json:"position"`
	SectID           *world.SectID              `json:"sect_id,omitempty"`
	Inventory        world.Inventory            `json:"inventory"`
	Relations        world.Relations            `json:"relations"`
	KnownRegions     []world.RegionID           `json:"known_regions"`
	ShortTermGoal    *world.Objective           `json:"short_term_goal,omitempty"`
	LongTermGoal     *world.Objective           `json:"long_term_goal,omitempty"`
	Nickname         *world.Nickname            `json:"nickname,omitempty"`
	Events           []world.Event              `json:"events"`
	Thinking         string                     `json:"thinking"`
	TemporaryEffects []world.TemporaryEffect     `json:"temporary_effects,omitempty"`
	PlanQueue        []world.ActionPlan          `json:"plan_queue,omitempty"`
	CurrentAction    *ActionInstanceSnapshot     `json:"current_action,omitempty"`
	CooldownUntil    map[string]int              `json:"cooldown_until,omitempty"`
}

// MortalSnapshot mirrors world.Mortal.
type MortalSnapshot struct {
	ID         world.MortalID  `json:"id"`
	Name       string          `json:"name"`
	BirthMonth int             `json:"birth_month"`
	RegionID   world.RegionID  `json:"region_id"`
	Promoted   bool            `json:"promoted"`
}

// RegionSnapshot mirrors world.Region's mutable state.
type RegionSnapshot struct {
	ID          world.RegionID   `json:"id"`
	Kind        world.RegionKind `json:"kind"`
	Name        string           `json:"name"`
	Huntable    []string         `json:"huntable,omitempty"`
	Harvestable []string         `json:"harvestable,omitempty"`
	Mineable    []string         `json:"mineable,omitempty"`
	Essence     world.ElementID  `json:"essence,omitempty"`
	Density     int              `json:"density,omitempty"`
	Host        *world.AgentID   `json:"host,omitempty"`
	StoreItems  []world.ItemID   `json:"store_items,omitempty"`
	Prosperity  int              `json:"prosperity,omitempty"`
	Sect        world.SectID     `json:"sect,omitempty"`
}

// WorldSnapshot captures everything in world.World save/restore needs
// beyond the static map (tile_map.csv/region_map.csv are external static
// data per spec §6, not re-saved here).
type WorldSnapshot struct {
	Regions    []RegionSnapshot        `json:"regions"`
	Phenomenon *world.Phenomenon       `json:"phenomenon,omitempty"`
	Mortals    []MortalSnapshot        `json:"mortals,omitempty"`
}

// Snapshot is the full save file (spec §6 "Save file").
type Snapshot struct {
	Meta      Meta            `json:"meta"`
	World     WorldSnapshot   `json:"world"`
	Avatars   []AgentSnapshot `json:"avatars"`
	Events    []world.Event   `json:"events,omitempty"`
	Simulator map[string]any  `json:"simulator,omitempty"`
}
