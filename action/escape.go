package action

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivation-world-simulator/world"
)

// escapeInstance is grounded on original_source's
// src/classes/action/escape.py: an instant roll against an escape-success
// rate; on success the escaping agent is preempted onto
// MoveAwayFromAvatar, otherwise onto Attack. The escaping agent installs
// the plan on *itself*, via the PlanInstall directive agentrt applies
// after Step returns (spec §9 "Dynamic dispatch": actions never call
// agentrt directly).
type escapeInstance struct {
	rng *rand.Rand
}

// NewEscapeSpec returns the process-wide declaration for Escape.
func NewEscapeSpec() Spec {
	return Spec{
		Name:             "escape",
		IsMajor:          false,
		AllowGathering:   false,
		AllowWorldEvents: true,
		Actual:           true,
		New:              func() Instance { return &escapeInstance{rng: rand.New(rand.NewPCG(0, 0))} },
	}
}

func (e *escapeInstance) CanStart(_ context.Context, w *world.World, a *world.Agent, _ int, params map[string]any) (bool, string) {
	target, ok := targetAgent(w, a, params)
	if !ok {
		return false, "escape target not found"
	}
	if !target.Alive {
		return false, "escape target is not alive"
	}
	return true, ""
}

func (e *escapeInstance) Start(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) (*world.Event, error) {
	return nil, nil
}

// escapeSuccessRate is a placeholder formula (the concrete escape-rate
// curve is static-data content out of scope per spec §1); it scales down
// with the target's realm relative to the escaping agent's.
func escapeSuccessRate(self, target world.RealmIdx) float64 {
	rate := 0.5 - float64(target-self)*0.1
	if rate < 0.05 {
		rate = 0.05
	}
	if rate > 0.95 {
		rate = 0.95
	}
	return rate
}

func (e *escapeInstance) Step(_ context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) (Result, error) {
	target, ok := targetAgent(w, a, params)
	if !ok {
		return Result{Status: world.StatusFailed}, nil
	}

	rate := escapeSuccessRate(a.Realm, target.Realm)
	var install PlanInstall
	var content string
	if e.rng.Float64() < rate {
		install = PlanInstall{
			AgentID: a.ID,
			Preempt: true,
			Plans:   []world.ActionPlan{{ActionName: "move_away_from_avatar", Params: map[string]any{"target": string(target.ID)}}},
		}
		content = fmt.Sprintf("%s slips away from %s", a.Name, target.Name)
	} else {
		install = PlanInstall{
			AgentID: a.ID,
			Preempt: true,
			Plans:   []world.ActionPlan{{ActionName: "attack", Params: map[string]any{"target": string(target.ID)}}},
		}
		content = fmt.Sprintf("%s fails to escape %s and turns to fight", a.Name, target.Name)
	}

	event := world.Event{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{a.ID, target.ID}}
	return Result{
		Status:   world.StatusCompleted,
		Events:   []world.Event{event},
		Installs: []PlanInstall{install},
	}, nil
}

func (e *escapeInstance) Finish(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) ([]world.Event, error) {
	return nil, nil
}

func (e *escapeInstance) GetSaveData() map[string]any       { return nil }
func (e *escapeInstance) LoadSaveData(map[string]any) error { return nil }

// targetAgent resolves the "target" param to a live world.Agent.
func targetAgent(w *world.World, self *world.Agent, params map[string]any) (*world.Agent, bool) {
	raw, ok := params["target"].(string)
	if !ok {
		return nil, false
	}
	t, ok := w.Agent(world.AgentID(raw))
	if !ok || t.ID == self.ID {
		return nil, false
	}
	return t, true
}
