package save

import (
	"cultivation-world-simulator/action"
	"cultivation-world-simulator/clock"
	"cultivation-world-simulator/world"
)

// ToSnapshot captures w, the clock, and every living agent's in-memory
// event ring into a Snapshot ready to hand to a Store. The durable
// eventlog.Log is not read.
func ToSnapshot(w *world.World, c *clock.Clock, language string, eventsPerAgent int) Snapshot {
	snap := Snapshot{
		Meta: Meta{
			Version:  FormatVersion,
			GameTime: c.Now(),
			Language: language,
		},
		World: WorldSnapshot{
			Mortals: mortalSnapshots(w),
		},
	}

	if w.Phenomenon != nil {
		p := *w.Phenomenon
		snap.World.Phenomenon = &p
	}

	for _, r := range w.Regions {
		snap.World.Regions = append(snap.World.Regions, regionSnapshot(r))
	}

	agents := w.AliveAgents()
	for _, a := range agents {
		snap.Avatars = append(snap.Avatars, agentSnapshot(a))
	}
	snap.Meta.EventCount = eventsPerAgent

	return snap
}

func regionSnapshot(r *world.Region) RegionSnapshot {
	return RegionSnapshot{
		ID:          r.ID,
		Kind:        r.Kind,
		Name:        r.Name,
		Huntable:    r.Huntable,
		Harvestable: r.Harvestable,
		Mineable:    r.Mineable,
		Essence:     r.Essence,
		Density:     r.Density,
		Host:        r.Host,
		StoreItems:  r.StoreItems,
		Prosperity:  r.Prosperity,
		Sect:        r.Sect,
	}
}

func mortalSnapshots(w *world.World) []MortalSnapshot {
	var out []MortalSnapshot
	for _, m := range allMortals(w) {
		out = append(out, MortalSnapshot{
			ID:         m.ID,
			Name:       m.Name,
			BirthMonth: m.BirthMonth,
			RegionID:   m.RegionID,
			Promoted:   m.Promoted,
		})
	}
	return out
}

// allMortals returns the unpromoted mortals, the only ones world.Mortals
// exposes; promoted mortals are not persisted here (spec §4.10 lists
// clock/regions/agents as must-preserve; promoted mortals become Agents
// and are saved via Avatars instead).
func allMortals(w *world.World) []*world.Mortal {
	return w.Mortals.Unpromoted()
}

func agentSnapshot(a *world.Agent) AgentSnapshot {
	snap := AgentSnapshot{
		ID:               a.ID,
		Name:             a.Name,
		BirthMonth:       a.BirthMonth,
		Alive:            a.Alive,
		MaxLifespanYears: a.MaxLifespanYears,
		Realm:            a.Realm,
		Experience:       a.Experience,
		HP:               a.HP,
		Essence:          a.Essence,
		Persona:          a.Persona,
		SpiritAnimal:     a.SpiritAnimal,
		Position:         a.Position,
		SectID:           a.SectID,
		Inventory:        a.Inventory,
		Relations:        a.Relations,
		ShortTermGoal:    a.ShortTermGoal,
		LongTermGoal:     a.LongTermGoal,
		Nickname:         a.Nickname,
		Events:           a.Events.All(),
		Thinking:         a.Thinking,
		TemporaryEffects: a.TemporaryEffects,
		PlanQueue:        a.PlanQueue,
		CooldownUntil:    a.CooldownUntil,
	}

	for id := range a.KnownRegions {
		snap.KnownRegions = append(snap.KnownRegions, id)
	}

	if a.CurrentAction != nil {
		inst, ok := a.CurrentAction.Object.(action.Instance)
		var custom map[string]any
		if ok {
			custom = inst.GetSaveData()
		}
		snap.CurrentAction = &ActionInstanceSnapshot{
			ActionName:     a.CurrentAction.ActionName,
			Params:         a.CurrentAction.Params,
			Status:         a.CurrentAction.Status,
			CustomSaveData: custom,
		}
	}

	return snap
}

// FromSnapshot reconstructs a World and Clock from snap, reinstantiating
// every running action via registry and restoring its execution state
// (spec §4.10 "reinstantiates action objects by name, restores execution
// state via load_save_data, and leaves them in RUNNING state"). Saved
// events are pushed back onto each agent's in-memory ring; the durable
// eventlog.Log is not touched.
func FromSnapshot(snap Snapshot, registry *action.Registry, regions map[world.RegionID]*world.Region, m *world.Map) (*world.World, *clock.Clock) {
	w := world.NewWorld(m)
	w.Regions = regions
	applyRegionSnapshots(w, snap.World.Regions)

	if snap.World.Phenomenon != nil {
		p := *snap.World.Phenomenon
		w.Phenomenon = &p
	}
	for _, ms := range snap.World.Mortals {
		w.Mortals.Add(&world.Mortal{
			ID:         ms.ID,
			Name:       ms.Name,
			BirthMonth: ms.BirthMonth,
			RegionID:   ms.RegionID,
			Promoted:   ms.Promoted,
		})
	}

	for _, as := range snap.Avatars {
		w.AddAgent(restoreAgent(as, registry))
	}

	return w, clock.New(snap.Meta.GameTime)
}

func applyRegionSnapshots(w *world.World, regions []RegionSnapshot) {
	for _, rs := range regions {
		r, ok := w.Regions[rs.ID]
		if !ok {
			continue
		}
		r.Prosperity = rs.Prosperity
		r.Host = rs.Host
	}
}

func restoreAgent(as AgentSnapshot, registry *action.Registry) *world.Agent {
	a := world.NewAgent(as.ID, as.Name, as.BirthMonth, as.Position, as.HP.Max)
	a.Alive = as.Alive
	a.MaxLifespanYears = as.MaxLifespanYears
	a.Realm = as.Realm
	a.Experience = as.Experience
	a.HP = as.HP
	a.Essence = as.Essence
	a.Persona = as.Persona
	a.SpiritAnimal = as.SpiritAnimal
	a.SectID = as.SectID
	a.Inventory = as.Inventory
	if as.Relations != nil {
		a.Relations = as.Relations
	}
	a.ShortTermGoal = as.ShortTermGoal
	a.LongTermGoal = as.LongTermGoal
	a.Nickname = as.Nickname
	a.Thinking = as.Thinking
	a.TemporaryEffects = as.TemporaryEffects
	a.PlanQueue = as.PlanQueue
	a.CooldownUntil = as.CooldownUntil

	for _, rid := range as.KnownRegions {
		a.KnownRegions[rid] = struct{}{}
	}
	for _, e := range as.Events {
		a.Events.Push(e)
	}

	if as.CurrentAction != nil {
		restoreCurrentAction(a, as.CurrentAction, registry)
	}

	return a
}

func restoreCurrentAction(a *world.Agent, cas *ActionInstanceSnapshot, registry *action.Registry) {
	spec, ok := registry.ByName(cas.ActionName)
	if !ok {
		return
	}
	inst := spec.New()
	if cas.CustomSaveData != nil {
		_ = inst.LoadSaveData(cas.CustomSaveData)
	}
	a.CurrentAction = &world.ActionInstance{
		ActionName: cas.ActionName,
		Params:     cas.Params,
		Status:     world.StatusRunning,
		Object:     inst,
	}
}
