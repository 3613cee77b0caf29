package action

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivation-world-simulator/world"
)

// attackInstance is an instant, single-exchange strike. The concrete
// damage/defense tables are static-data content out of scope per spec §1;
// this models the shape (roll, apply HP delta, update relations, emit a
// mirrored event) every combat action shares.
type attackInstance struct {
	rng *rand.Rand
}

// NewAttackSpec returns the process-wide declaration for Attack.
func NewAttackSpec() Spec {
	return Spec{
		Name:             "attack",
		IsMajor:          true,
		AllowGathering:   false,
		AllowWorldEvents: false,
		Actual:           true,
		New:              func() Instance { return &attackInstance{rng: rand.New(rand.NewPCG(0, 0))} },
	}
}

func (a *attackInstance) CanStart(_ context.Context, w *world.World, self *world.Agent, _ int, params map[string]any) (bool, string) {
	target, ok := targetAgent(w, self, params)
	if !ok {
		return false, "attack target not found"
	}
	if !target.Alive {
		return false, "attack target already down"
	}
	return true, ""
}

func (a *attackInstance) Start(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) (*world.Event, error) {
	return nil, nil
}

func (a *attackInstance) Step(_ context.Context, w *world.World, self *world.Agent, clockNow int, params map[string]any) (Result, error) {
	target, ok := targetAgent(w, self, params)
	if !ok {
		return Result{Status: world.StatusFailed}, nil
	}

	damage := 5 + a.rng.IntN(10)
	target.HP.Apply(-damage)
	world.SetMutual(self.Relations, self.ID, target.Relations, target.ID, "affinity", -3, -5)

	content := fmt.Sprintf("%s strikes %s for %d damage", self.Name, target.Name, damage)
	event := world.Event{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{self.ID, target.ID}, IsMajor: true}
	return Result{Status: world.StatusCompleted, Events: []world.Event{event}}, nil
}

func (a *attackInstance) Finish(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) ([]world.Event, error) {
	return nil, nil
}

func (a *attackInstance) GetSaveData() map[string]any       { return nil }
func (a *attackInstance) LoadSaveData(map[string]any) error { return nil }
