package action

import (
	"context"
	"errors"

	"cultivation-world-simulator/world"
)

// moveInstance backs every movement action as a thin wrapper over the
// moveOneStep/awayFrom Chunk primitives (spec §4.2 "Chunk: not directly
// schedulable; used as a sub-primitive by other actions").
type moveInstance struct {
	dstFn func(w *world.World, a *world.Agent, params map[string]any) (world.Position, error)
}

func newMoveSpec(name string, dstFn func(w *world.World, a *world.Agent, params map[string]any) (world.Position, error)) Spec {
	return Spec{
		Name:             name,
		IsMajor:          false,
		AllowGathering:   true,
		AllowWorldEvents: true,
		Actual:           true,
		New:              func() Instance { return &moveInstance{dstFn: dstFn} },
	}
}

// NewMoveAwayFromAvatarSpec moves a one tile away from params["target"]'s
// current position; the destination is that single adjacent tile, so the
// action completes after one step.
func NewMoveAwayFromAvatarSpec() Spec {
	return newMoveSpec("move_away_from_avatar", func(w *world.World, a *world.Agent, params map[string]any) (world.Position, error) {
		target, ok := targetAgent(w, a, params)
		if !ok {
			return world.Position{}, errNoTarget
		}
		return awayFrom(w, a.Position, target.Position), nil
	})
}

// NewMoveToRegionSpec moves a toward the first tile belonging to
// params["region_id"].
func NewMoveToRegionSpec() Spec {
	return newMoveSpec("move_to_region", func(w *world.World, a *world.Agent, params map[string]any) (world.Position, error) {
		id, ok := params["region_id"].(float64)
		if !ok {
			return world.Position{}, errNoTarget
		}
		return findRegionTile(w, world.RegionID(int(id)))
	})
}

func (m *moveInstance) CanStart(_ context.Context, w *world.World, a *world.Agent, _ int, params map[string]any) (bool, string) {
	if _, err := m.dstFn(w, a, params); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (m *moveInstance) Start(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) (*world.Event, error) {
	return nil, nil
}

func (m *moveInstance) Step(_ context.Context, w *world.World, a *world.Agent, _ int, params map[string]any) (Result, error) {
	dst, err := m.dstFn(w, a, params)
	if err != nil {
		return Result{Status: world.StatusFailed}, nil
	}
	arrived, err := moveOneStep(w, a, dst)
	if err != nil {
		return Result{Status: world.StatusFailed}, nil
	}
	if arrived {
		return Result{Status: world.StatusCompleted}, nil
	}
	return Running(), nil
}

func (m *moveInstance) Finish(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) ([]world.Event, error) {
	return nil, nil
}

func (m *moveInstance) GetSaveData() map[string]any       { return nil }
func (m *moveInstance) LoadSaveData(map[string]any) error { return nil }

var errNoTarget = errors.New("move destination unavailable")

func findRegionTile(w *world.World, id world.RegionID) (world.Position, error) {
	for y := 0; y < w.Map.Height; y++ {
		for x := 0; x < w.Map.Width; x++ {
			t, err := w.Map.Tile(world.Position{X: x, Y: y})
			if err == nil && t.RegionID == id {
				return world.Position{X: x, Y: y}, nil
			}
		}
	}
	return world.Position{}, errNoTarget
}
