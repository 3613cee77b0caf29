package action

import (
	"context"
	"fmt"

	"cultivation-world-simulator/effects"
	"cultivation-world-simulator/world"
)

// meditateInstance is a timed cultivation action: no special
// preconditions, restores HP over its run and emits a completion event
// (SUPPLEMENTED FEATURES, a stand-in for the original's cultivation-focused
// actions since concrete cultivation formulas are out of scope per spec
// §1).
type meditateInstance struct {
	timedState
	lookup effects.StaticLookup
}

// NewMeditateSpec returns the process-wide declaration for Meditate.
// lookup resolves duration_reduction from the agent's merged effect
// sources (spec §4.2), rather than trusting plan params.
func NewMeditateSpec(lookup effects.StaticLookup) Spec {
	return Spec{
		Name:             "meditate",
		IsMajor:          false,
		AllowGathering:   false,
		AllowWorldEvents: true,
		Actual:           true,
		New: func() Instance {
			return &meditateInstance{lookup: lookup, timedState: timedState{DurationMonths: 3}}
		},
	}
}

func (m *meditateInstance) CanStart(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) (bool, string) {
	return true, ""
}

func (m *meditateInstance) Start(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) (*world.Event, error) {
	m.DurationReduction, _ = effects.EffectiveEffects(a, m.lookup)["duration_reduction"].(float64)
	m.StartMonth = clockNow
	return nil, nil
}

func (m *meditateInstance) Step(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) (Result, error) {
	a.HP.Apply(a.HP.Max / m.DurationMonths)
	if m.complete(clockNow) {
		return Result{Status: world.StatusCompleted}, nil
	}
	return Running(), nil
}

func (m *meditateInstance) Finish(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) ([]world.Event, error) {
	content := fmt.Sprintf("%s rises from meditation steadier than before", a.Name)
	return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{a.ID}}}, nil
}

func (m *meditateInstance) GetSaveData() map[string]any { return m.saveData() }
func (m *meditateInstance) LoadSaveData(data map[string]any) error {
	m.loadData(data)
	return nil
}
