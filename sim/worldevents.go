package sim

import (
	"context"

	"cultivation-world-simulator/world"
)

// WorldEventEffect is a registered fortune/misfortune roll (spec §4.7 phase
// 8): each eligible agent rolls Probability every tick; on a hit, Apply
// mutates the agent and returns the event to announce.
type WorldEventEffect struct {
	Name        string
	Probability float64
	Apply       func(w *world.World, a *world.Agent, clockNow int) world.Event
}

// phaseRandomWorldEvents is tick phase 8: for every agent whose current
// action allows world events (or who has none running), roll each
// registered WorldEventEffect and apply/announce the ones that hit.
func (s *Simulator) phaseRandomWorldEvents(ctx context.Context, clockNow int) []world.Event {
	if len(s.WorldEvents) == 0 {
		return nil
	}

	var events []world.Event
	for _, a := range s.sortedAliveAgents() {
		if !s.allowsWorldEvents(a) {
			continue
		}
		for _, we := range s.WorldEvents {
			if s.rng.Float64() >= we.Probability {
				continue
			}
			ev := we.Apply(s.World, a, clockNow)
			ev.MonthStamp = clockNow
			if len(ev.RelatedAgentIDs) == 0 {
				ev.RelatedAgentIDs = []world.AgentID{a.ID}
			}
			s.emit(ctx, ev)
			events = append(events, ev)
		}
	}
	return events
}

// allowsWorldEvents reports whether a's current action (if any) declares
// allow_world_events=true; an idle agent is always eligible.
func (s *Simulator) allowsWorldEvents(a *world.Agent) bool {
	if a.CurrentAction == nil {
		return true
	}
	spec, ok := s.Actions.ByName(a.CurrentAction.ActionName)
	if !ok {
		return true
	}
	return spec.AllowWorldEvents
}
