package sim

import (
	"context"
	"fmt"

	"cultivation-world-simulator/world"
)

// phasePhenomena is tick phase 6: if no phenomenon is active or the active
// one has expired, rarity-weighted-sample the next one from the
// caller-supplied candidate list and announce the change to every living
// agent. Returns whether a change occurred.
func (s *Simulator) phasePhenomena(ctx context.Context, clockNow int) bool {
	if s.World.Phenomenon != nil && !s.World.Phenomenon.Expired(clockNow) {
		return false
	}
	if len(s.PhenomenaCandidates) == 0 {
		return false
	}

	chosen, ok := world.ChoosePhenomenon(s.PhenomenaCandidates, s.rng.Float64())
	if !ok {
		return false
	}

	s.World.Phenomenon = &world.Phenomenon{
		ID:            chosen.ID,
		StartMonth:    clockNow,
		DurationYears: chosen.DurationYears,
	}

	related := make([]world.AgentID, 0, len(s.World.Agents))
	for _, a := range s.World.AliveAgents() {
		related = append(related, a.ID)
	}
	s.emit(ctx, world.Event{
		MonthStamp:      clockNow,
		Content:         fmt.Sprintf("a new celestial phenomenon (id %d) dawns over the land", chosen.ID),
		RelatedAgentIDs: related,
		IsMajor:         true,
		IsStory:         true,
	})

	return true
}
