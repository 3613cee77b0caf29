package sim

import (
	"context"

	"cultivation-world-simulator/world"
)

// phaseGatherings is tick phase 7: every registered gathering's IsStart is
// checked, in registration order, and run to completion within this tick
// if triggered (spec §4.9).
func (s *Simulator) phaseGatherings(ctx context.Context, clockNow int) []world.Event {
	var events []world.Event
	for _, g := range s.Gatherings.All() {
		if !g.IsStart(s.World, clockNow) {
			continue
		}
		produced, err := g.Execute(ctx, s.World, clockNow)
		if err != nil {
			s.Logger.Warn(ctx, "gathering failed", "gathering", g.Name(), "error", err.Error())
			continue
		}
		for _, e := range produced {
			s.emit(ctx, e)
		}
		events = append(events, produced...)
	}
	return events
}
