package action

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivation-world-simulator/world"
)

// gatherCheckCanStart is the shared precondition for Hunt/Harvest/Mine:
// the agent's current region must carry at least one resource of the
// requested kind, grounded on original_source's
// check_can_start_gather/execute_gather helpers (hunt.py).
func gatherCheckCanStart(w *world.World, a *world.Agent, resourceOf func(*world.Region) []string) (bool, string) {
	r, err := w.RegionAt(a.Position)
	if err != nil {
		return false, "agent is not on a valid region"
	}
	if len(resourceOf(r)) == 0 {
		return false, "region has nothing to gather here"
	}
	return true, ""
}

// gatherExecute picks one resource id from the region's list (uniformly,
// via the supplied RNG) and returns a small materials yield, mirroring
// hunt.py's gained_materials accumulation.
func gatherExecute(w *world.World, a *world.Agent, resourceOf func(*world.Region) []string, rng *rand.Rand) (map[string]int, error) {
	r, err := w.RegionAt(a.Position)
	if err != nil {
		return nil, err
	}
	ids := resourceOf(r)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no resource available to gather")
	}
	chosen := ids[rng.IntN(len(ids))]
	amount := 1 + rng.IntN(3)
	return map[string]int{chosen: amount}, nil
}

// moveOneStep is the Chunk sub-primitive every movement action composes
// (spec §4.2 "Chunk: not directly schedulable; used as a sub-primitive").
// It advances a's position by at most one tile toward dst per call,
// returning true once a has arrived.
func moveOneStep(w *world.World, a *world.Agent, dst world.Position) (arrived bool, err error) {
	if a.Position == dst {
		return true, nil
	}
	next := a.Position
	switch {
	case next.X < dst.X:
		next.X++
	case next.X > dst.X:
		next.X--
	}
	switch {
	case next.Y < dst.Y:
		next.Y++
	case next.Y > dst.Y:
		next.Y--
	}
	if !next.InBounds(w.Map.Width, w.Map.Height) {
		return false, fmt.Errorf("move destination out of bounds")
	}
	a.Position = next
	return a.Position == dst, nil
}

// awayFrom computes a position one tile further from avoid than pos,
// clamped to the map, used by MoveAwayFromAvatar.
func awayFrom(w *world.World, pos, avoid world.Position) world.Position {
	next := pos
	switch {
	case pos.X >= avoid.X:
		next.X++
	default:
		next.X--
	}
	switch {
	case pos.Y >= avoid.Y:
		next.Y++
	default:
		next.Y--
	}
	if next.X < 0 {
		next.X = 0
	}
	if next.X >= w.Map.Width {
		next.X = w.Map.Width - 1
	}
	if next.Y < 0 {
		next.Y = 0
	}
	if next.Y >= w.Map.Height {
		next.Y = w.Map.Height - 1
	}
	return next
}
