package sim

import (
	"fmt"

	"cultivation-world-simulator/world"
)

// NewFortuneWindfall returns the fortune half of spec §4.7 phase 8: a
// stroke of luck that hands the agent spirit stones.
func NewFortuneWindfall(probability float64, amount int) WorldEventEffect {
	return WorldEventEffect{
		Name:        "fortune_windfall",
		Probability: probability,
		Apply: func(_ *world.World, a *world.Agent, _ int) world.Event {
			a.Inventory.Currency += amount
			return world.Event{
				Content:         fmt.Sprintf("%s stumbles upon a windfall of %d spirit stones", a.Name, amount),
				RelatedAgentIDs: []world.AgentID{a.ID},
			}
		},
	}
}

// NewMisfortuneQiDeviation returns the misfortune half of spec §4.7 phase
// 8: a cultivation mishap that costs the agent HP.
func NewMisfortuneQiDeviation(probability float64, hpLoss int) WorldEventEffect {
	return WorldEventEffect{
		Name:        "misfortune_qi_deviation",
		Probability: probability,
		Apply: func(_ *world.World, a *world.Agent, _ int) world.Event {
			a.HP.Apply(-hpLoss)
			return world.Event{
				Content:         fmt.Sprintf("%s suffers a qi deviation, losing %d HP", a.Name, hpLoss),
				RelatedAgentIDs: []world.AgentID{a.ID},
			}
		},
	}
}
