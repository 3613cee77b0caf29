package sim

import (
	"context"
	"fmt"

	"cultivation-world-simulator/world"
)

// phaseAgingAndMortality is tick phase 4: every live agent ages one month;
// an agent whose age reaches its max lifespan dies, frees any cultivate
// region it hosted, and emits a death event.
func (s *Simulator) phaseAgingAndMortality(ctx context.Context, agents []*world.Agent, clockNow int) []world.Event {
	nextMonth := clockNow + 1
	var deaths []world.Event

	for _, a := range agents {
		if a.AgeMonths(nextMonth) < a.MaxLifespanYears*12 {
			continue
		}

		a.Alive = false
		s.releaseHostedRegions(a.ID)

		ev := world.Event{
			MonthStamp:      clockNow,
			Content:         fmt.Sprintf("%s passes away, their years of cultivation at an end", a.Name),
			RelatedAgentIDs: []world.AgentID{a.ID},
			IsMajor:         true,
		}
		s.emit(ctx, ev)
		deaths = append(deaths, ev)
	}

	return deaths
}

// releaseHostedRegions clears any cultivate region hosted by agentID (spec
// §4.7 phase 4 "free any cultivate region they hosted").
func (s *Simulator) releaseHostedRegions(agentID world.AgentID) {
	for _, r := range s.World.Regions {
		if r.Kind == world.RegionCultivate && r.Host != nil && *r.Host == agentID {
			r.ClearHost()
		}
	}
}

// phaseMortalPromotion is tick phase 5: mortals who have crossed the
// awakening age threshold become eligible candidates for agent creation.
// Promotion itself is never forced here (spec §4.7 phase 5 "not
// mandatory") — the caller decides whether and when to actually spawn an
// Agent for a candidate and call MortalRegistry.Promote.
func (s *Simulator) phaseMortalPromotion(clockNow int) []*world.Mortal {
	var candidates []*world.Mortal
	for _, m := range s.World.Mortals.Unpromoted() {
		age := clockNow - m.BirthMonth
		if age >= s.Config.AwakeningAgeMonths {
			candidates = append(candidates, m)
		}
	}
	return candidates
}
