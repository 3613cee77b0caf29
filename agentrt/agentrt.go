// Package agentrt implements the per-agent runtime operations that sit
// between the tick engine and an individual action instance (spec §4.4):
// promoting plans, advancing the current action, preemption, and the
// decide-result-chain used by AI-driven replanning. It is the only
// package allowed to mutate world.Agent.PlanQueue/CurrentAction, and the
// only consumer of action.PlanInstall directives (spec §9 "Dynamic
// dispatch").
package agentrt

import (
	"context"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/eventlog"
	"cultivation-world-simulator/world"
)

// Runtime wires a Registry and a durable event Log to the per-agent
// operations below. One Runtime serves every agent in a World.
type Runtime struct {
	registry *action.Registry
	log      *eventlog.Log
}

// New returns a Runtime over registry, appending every emitted event to log.
func New(registry *action.Registry, log *eventlog.Log) *Runtime {
	return &Runtime{registry: registry, log: log}
}

// appendEvent tags an event with the acting spec's is_major declaration
// and appends it to both the agent's in-memory ring and the durable log —
// the single method spec §4.4 requires for all event emission.
func (rt *Runtime) appendEvent(ctx context.Context, w *world.World, spec action.Spec, e world.Event) {
	e.IsMajor = spec.IsMajor
	rt.appendRaw(ctx, w, e)
}

// appendRaw appends an already-tagged event without overriding IsMajor
// (appendEvent sets it from the spec first; a failed promotion's event is
// passed as built). It writes through to the durable log and pushes
// onto each related agent's in-memory ring (spec §4.8 nickname eligibility
// reads the ring's major/minor counts).
func (rt *Runtime) appendRaw(ctx context.Context, w *world.World, e world.Event) {
	_ = rt.log.AppendToAgents(ctx, e.RelatedAgentIDs, e)
	for _, id := range e.RelatedAgentIDs {
		if a, ok := w.Agent(id); ok {
			a.Events.Push(e)
		}
	}
}

// PromoteNextPlan pops the highest-priority non-expired plan and attempts
// to start it (spec §4.4). Returns a synthesized failure event if the
// chosen plan exhausted its retries.
func (rt *Runtime) PromoteNextPlan(ctx context.Context, w *world.World, a *world.Agent, clockNow int) *world.Event {
	for {
		plan, ok := popHighestPriority(a, clockNow)
		if !ok {
			return nil
		}

		spec, ok := rt.registry.ByName(plan.ActionName)
		if !ok {
			continue
		}
		if err := action.ValidateParams(spec, plan.Params); err != nil {
			continue
		}

		inst := spec.New()
		canStart, reason := inst.CanStart(ctx, w, a, clockNow, plan.Params)
		if canStart {
			ev, _ := inst.Start(ctx, w, a, clockNow, plan.Params)
			a.CurrentAction = &world.ActionInstance{
				ActionName: plan.ActionName,
				Params:     plan.Params,
				Status:     world.StatusRunning,
				Object:     inst,
			}
			if ev != nil {
				rt.appendEvent(ctx, w, spec, *ev)
			}
			return nil
		}

		plan.AttemptedCount++
		if plan.AttemptedCount <= plan.MaxRetries {
			a.PlanQueue = append(a.PlanQueue, plan)
			continue
		}

		failEvent := world.Event{
			MonthStamp:      clockNow,
			Content:         reason,
			RelatedAgentIDs: []world.AgentID{a.ID},
			IsMajor:         false,
		}
		rt.appendRaw(ctx, w, failEvent)
		return &failEvent
	}
}

// popHighestPriority removes and returns the highest-priority non-expired
// plan from a's queue, skipping (dropping) expired ones along the way.
func popHighestPriority(a *world.Agent, clockNow int) (world.ActionPlan, bool) {
	live := a.PlanQueue[:0]
	var best *world.ActionPlan
	var bestIdx int
	for i, p := range a.PlanQueue {
		if p.Expired(clockNow) {
			continue
		}
		live = append(live, p)
		if best == nil || p.Priority > best.Priority {
			cp := p
			best = &cp
			bestIdx = len(live) - 1
		}
	}
	a.PlanQueue = live
	if best == nil {
		return world.ActionPlan{}, false
	}
	chosen := *best
	a.PlanQueue = append(a.PlanQueue[:bestIdx], a.PlanQueue[bestIdx+1:]...)
	return chosen, true
}

// Advance runs one tick of agent a's current action (spec §4.4). If no
// action is current, it attempts promotion and returns an idle RUNNING
// result. On terminal status, it calls Finish, records cooldown, applies
// any PlanInstall directives, and clears current_action.
func (rt *Runtime) Advance(ctx context.Context, w *world.World, a *world.Agent, clockNow int) action.Result {
	if a.CurrentAction == nil {
		rt.PromoteNextPlan(ctx, w, a, clockNow)
		return action.Running()
	}

	spec, ok := rt.registry.ByName(a.CurrentAction.ActionName)
	if !ok {
		a.CurrentAction = nil
		return action.Running()
	}
	inst, ok := a.CurrentAction.Object.(action.Instance)
	if !ok {
		a.CurrentAction = nil
		return action.Running()
	}

	result, err := inst.Step(ctx, w, a, clockNow, a.CurrentAction.Params)
	if err != nil {
		result = action.Result{Status: world.StatusFailed}
	}
	a.CurrentAction.Status = result.Status

	for _, e := range result.Events {
		rt.appendEvent(ctx, w, spec, e)
	}

	if !result.Status.Terminal() {
		rt.applyInstalls(ctx, w, result.Installs, clockNow)
		return result
	}

	finishEvents, ferr := inst.Finish(ctx, w, a, clockNow, a.CurrentAction.Params)
	if ferr == nil {
		for _, e := range finishEvents {
			rt.appendEvent(ctx, w, spec, e)
		}
	}
	if spec.CooldownMonths > 0 {
		a.SetCooldown(spec.Name, clockNow, spec.CooldownMonths)
	}
	a.CurrentAction = nil

	rt.applyInstalls(ctx, w, result.Installs, clockNow)
	return result
}

// applyInstalls realizes action.PlanInstall directives against the named
// agent — the only bridge between an action's decision and agentrt's
// preempt/load_decide_result_chain primitives (spec §9).
func (rt *Runtime) applyInstalls(ctx context.Context, w *world.World, installs []action.PlanInstall, clockNow int) {
	for _, inst := range installs {
		target, ok := w.Agent(inst.AgentID)
		if !ok {
			continue
		}
		if inst.Preempt {
			rt.Preempt(target)
		}
		rt.LoadDecideResultChain(target, inst.Plans, "", nil, inst.Prepend)
		rt.PromoteNextPlan(ctx, w, target, clockNow)
	}
}

// Preempt force-cancels current_action (without calling Finish) and
// clears the plan queue (spec §4.4). Calling it twice in a row is
// idempotent: the second call finds current_action already nil and the
// queue already empty.
func (rt *Runtime) Preempt(a *world.Agent) {
	if a.CurrentAction != nil {
		a.CurrentAction.Status = world.StatusCancelled
		a.CurrentAction = nil
	}
	a.PlanQueue = nil
}

// LoadDecideResultChain replaces or prepends a's plan queue after an AI
// decision, and updates thinking/short-term objective (spec §4.4).
func (rt *Runtime) LoadDecideResultChain(a *world.Agent, plans []world.ActionPlan, thinking string, shortGoal *world.Objective, prepend bool) {
	if prepend {
		a.PlanQueue = append(append([]world.ActionPlan{}, plans...), a.PlanQueue...)
	} else {
		a.PlanQueue = append([]world.ActionPlan{}, plans...)
	}
	if thinking != "" {
		a.Thinking = thinking
	}
	if shortGoal != nil {
		a.ShortTermGoal = shortGoal
	}
}

// ClearPlans empties the queue but leaves current_action running (spec
// §4.4).
func (rt *Runtime) ClearPlans(a *world.Agent) {
	a.PlanQueue = nil
}
