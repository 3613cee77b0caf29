// Package gathering implements the gathering engine (spec §4.9): a
// registered type that checks is_start each tick and, when triggered,
// draws in a subset of agents and runs synchronously against world state
// for that one tick. Mirrors package action's capability-record style
// (Spec declaration + per-execution Instance) rather than a class
// hierarchy, since a Gathering has no per-tick persistent state of its
// own — it runs to completion within the tick it starts.
package gathering

import (
	"context"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/world"
)

// Gathering is a registered world-level event type (spec §4.9).
type Gathering interface {
	// Name identifies the gathering type for logging/registry lookups.
	Name() string
	// IsStart reports whether this gathering triggers this tick.
	IsStart(w *world.World, clockNow int) bool
	// RelatedAgents returns the participants IsStart would draw in, used
	// to exclude agents whose current action disallows gathering (spec
	// §4.9 "participants whose current action has allow_gathering=false
	// are excluded").
	RelatedAgents(w *world.World) []*world.Agent
	// Info returns a human/LLM-facing description of the pending
	// gathering, used when narrating or building a prompt.
	Info(w *world.World) string
	// Execute runs the gathering to completion within the current tick
	// and returns the events it produced.
	Execute(ctx context.Context, w *world.World, clockNow int) ([]world.Event, error)
}

// Registry is a process-wide list of gathering types, iterated in
// registration order each tick (spec §4.3 "Registration order must not
// affect semantics" — applied here too, by construction: each gathering's
// IsStart is independent of the others having already run this tick
// unless it reads world state another gathering just mutated, which is
// intentional per spec §4.7 "Phases within the same tick observe each
// other's effects").
type Registry struct {
	gatherings []Gathering
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends g to the registry.
func (r *Registry) Register(g Gathering) {
	r.gatherings = append(r.gatherings, g)
}

// All returns every registered gathering, in registration order.
func (r *Registry) All() []Gathering {
	out := make([]Gathering, len(r.gatherings))
	copy(out, r.gatherings)
	return out
}

// RunEligible filters candidates to those whose current action permits
// gathering (spec §4.9), by consulting registry for each candidate's
// current action's AllowGathering declaration.
func RunEligible(candidates []*world.Agent, actions *action.Registry) []*world.Agent {
	eligible := make([]*world.Agent, 0, len(candidates))
	for _, a := range candidates {
		if a.CurrentAction == nil {
			eligible = append(eligible, a)
			continue
		}
		spec, ok := actions.ByName(a.CurrentAction.ActionName)
		if !ok || spec.AllowGathering {
			eligible = append(eligible, a)
		}
	}
	return eligible
}
