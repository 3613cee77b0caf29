package action

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivation-world-simulator/effects"
	"cultivation-world-simulator/world"
)

// retreatInstance is grounded on original_source's
// src/classes/action/retreat.py: a long, cooldown-gated seclusion with a
// realm-scaled success roll, a durable success bonus, and a failure
// penalty to max lifespan.
type retreatInstance struct {
	timedState
	lookup effects.StaticLookup
	rng    *rand.Rand
}

// NewRetreatSpec returns the process-wide declaration for Retreat. lookup
// resolves duration_reduction/extra_retreat_success_rate from the agent's
// merged effect sources (spec §4.2), rather than trusting plan params.
func NewRetreatSpec(lookup effects.StaticLookup) Spec {
	return Spec{
		Name:             "retreat",
		IsMajor:          true,
		AllowGathering:   false,
		AllowWorldEvents: false,
		CooldownMonths:   12,
		Actual:           true,
		New: func() Instance {
			return &retreatInstance{lookup: lookup, rng: rand.New(rand.NewPCG(0, 0))}
		},
	}
}

func (r *retreatInstance) CanStart(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) (bool, string) {
	return true, ""
}

func (r *retreatInstance) Start(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) (*world.Event, error) {
	r.DurationMonths = 12 + r.rng.IntN(49) // randint(12,60)
	r.DurationReduction, _ = effects.EffectiveEffects(a, r.lookup)["duration_reduction"].(float64)
	r.StartMonth = clockNow
	return nil, nil
}

func (r *retreatInstance) Step(_ context.Context, _ *world.World, _ *world.Agent, clockNow int, _ map[string]any) (Result, error) {
	if r.complete(clockNow) {
		return Result{Status: world.StatusCompleted}, nil
	}
	return Running(), nil
}

// retreatSuccessRate implements the realm-scaled formula from retreat.py:
// 0.5 - realm_idx*0.1, boosted by the extra_retreat_success_rate effect,
// clamped to [0.1, 1.0].
func retreatSuccessRate(realm world.RealmIdx, extraRate float64) float64 {
	rate := 0.5 - float64(realm)*0.1 + extraRate
	if rate < 0.1 {
		rate = 0.1
	}
	if rate > 1.0 {
		rate = 1.0
	}
	return rate
}

func (r *retreatInstance) Finish(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) ([]world.Event, error) {
	extraRate, _ := effects.EffectiveEffects(a, r.lookup)["extra_retreat_success_rate"].(float64)
	rate := retreatSuccessRate(a.Realm, extraRate)

	if r.rng.Float64() < rate {
		expires := clockNow + 120
		a.TemporaryEffects = append(a.TemporaryEffects, world.TemporaryEffect{
			Source:       "retreat_success",
			ExpiresMonth: expires,
			Effects:      world.EffectValues{"extra_breakthrough_success_rate": 0.3},
		})
		a.InvalidateEffects()
		content := fmt.Sprintf("%s emerges from retreat with a firmer foundation", a.Name)
		return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{a.ID}, IsMajor: true}}, nil
	}

	penalty := 5 + r.rng.IntN(16) // randint(5,20)
	a.MaxLifespanYears -= penalty
	content := fmt.Sprintf("%s's retreat goes awry, shortening their lifespan by %d years", a.Name, penalty)
	return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{a.ID}, IsMajor: true}}, nil
}

func (r *retreatInstance) GetSaveData() map[string]any {
	return r.saveData()
}

func (r *retreatInstance) LoadSaveData(data map[string]any) error {
	r.loadData(data)
	return nil
}
