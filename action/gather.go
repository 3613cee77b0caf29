package action

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivation-world-simulator/effects"
	"cultivation-world-simulator/world"
)

// gatherInstance backs Hunt/Harvest/Mine: a fixed-duration gather action
// that accumulates materials over its run and always reports a non-empty
// haul at finish (grounded on original_source's
// src/classes/action/hunt.py).
type gatherInstance struct {
	timedState
	lookup          effects.StaticLookup
	resourceOf      func(*world.Region) []string
	noun            string
	gainedMaterials map[string]int
	rng             *rand.Rand
}

func newGatherSpec(name, noun string, durationMonths int, resourceOf func(*world.Region) []string, lookup effects.StaticLookup) Spec {
	return Spec{
		Name:             name,
		IsMajor:          false,
		AllowGathering:   false,
		AllowWorldEvents: true,
		Actual:           true,
		New: func() Instance {
			return &gatherInstance{
				lookup:          lookup,
				resourceOf:      resourceOf,
				noun:            noun,
				gainedMaterials: make(map[string]int),
				rng:             rand.New(rand.NewPCG(0, 0)),
				timedState:      timedState{DurationMonths: durationMonths},
			}
		},
	}
}

// NewHuntSpec returns the process-wide declaration for Hunt. lookup
// resolves duration_reduction from the agent's merged effect sources
// (spec §4.2), rather than trusting plan params.
func NewHuntSpec(lookup effects.StaticLookup) Spec {
	return newGatherSpec("hunt", "hunt", 6, func(r *world.Region) []string { return r.Huntable }, lookup)
}

// NewHarvestSpec returns the process-wide declaration for Harvest.
func NewHarvestSpec(lookup effects.StaticLookup) Spec {
	return newGatherSpec("harvest", "harvest", 3, func(r *world.Region) []string { return r.Harvestable }, lookup)
}

// NewMineSpec returns the process-wide declaration for Mine.
func NewMineSpec(lookup effects.StaticLookup) Spec {
	return newGatherSpec("mine", "mining expedition", 9, func(r *world.Region) []string { return r.Mineable }, lookup)
}

func (g *gatherInstance) CanStart(_ context.Context, w *world.World, a *world.Agent, _ int, _ map[string]any) (bool, string) {
	return gatherCheckCanStart(w, a, g.resourceOf)
}

func (g *gatherInstance) Start(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) (*world.Event, error) {
	g.DurationReduction, _ = effects.EffectiveEffects(a, g.lookup)["duration_reduction"].(float64)
	g.StartMonth = clockNow
	return nil, nil
}

func (g *gatherInstance) Step(_ context.Context, w *world.World, a *world.Agent, clockNow int, _ map[string]any) (Result, error) {
	gained, err := gatherExecute(w, a, g.resourceOf, g.rng)
	if err != nil {
		return Result{Status: world.StatusFailed}, nil
	}
	for k, v := range gained {
		g.gainedMaterials[k] += v
	}
	if g.complete(clockNow) {
		return Result{Status: world.StatusCompleted}, nil
	}
	return Running(), nil
}

func (g *gatherInstance) Finish(_ context.Context, _ *world.World, a *world.Agent, clockNow int, _ map[string]any) ([]world.Event, error) {
	a.Inventory.AddMaterials(g.gainedMaterials)
	content := fmt.Sprintf("%s returns from the %s having gathered %d kinds of materials", a.Name, g.noun, len(g.gainedMaterials))
	return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{a.ID}}}, nil
}

func (g *gatherInstance) GetSaveData() map[string]any {
	data := g.saveData()
	data["gained_materials"] = g.gainedMaterials
	return data
}

func (g *gatherInstance) LoadSaveData(data map[string]any) error {
	g.loadData(data)
	if gm, ok := data["gained_materials"].(map[string]int); ok {
		g.gainedMaterials = gm
	} else if gm, ok := data["gained_materials"].(map[string]any); ok {
		g.gainedMaterials = make(map[string]int, len(gm))
		for k, v := range gm {
			if f, ok := v.(float64); ok {
				g.gainedMaterials[k] = int(f)
			}
		}
	}
	return nil
}
