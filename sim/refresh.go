package sim

import (
	"context"
	"fmt"

	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/world"
)

// phaseNicknameObjectiveRefresh is tick phase 9: per spec §4.8, checks
// nickname eligibility and the long-term objective refresh policy for
// every living agent, dispatching an async LLM call where warranted and
// consuming any call that completed since the last tick.
func (s *Simulator) phaseNicknameObjectiveRefresh(ctx context.Context, clockNow int) {
	year, _ := yearMonth(clockNow)
	for _, a := range s.sortedAliveAgents() {
		s.refreshNickname(ctx, a, year)
		s.refreshObjective(ctx, a, year)
	}
}

func yearMonth(months int) (year, month int) {
	return months/12 + 1, months%12 + 1
}

// refreshNickname implements spec §4.8 "Nickname eligibility": polls any
// in-flight call to completion first, otherwise dispatches a new one when
// eligible.
func (s *Simulator) refreshNickname(ctx context.Context, a *world.Agent, year int) {
	if future, ok := s.pendingNicknames[a.ID]; ok {
		if !future.IsReady() {
			return
		}
		delete(s.pendingNicknames, a.ID)
		result, _ := future.Get(ctx)
		if result.Err != nil {
			s.Logger.Warn(ctx, "nickname refresh failed", "agent", string(a.ID), "error", result.Err.Error())
			return
		}
		a.Nickname = &world.Nickname{
			Text:        stringField(result.Object, "nickname"),
			Reason:      stringField(result.Object, "reason"),
			CreatedYear: year,
		}
		return
	}

	if !s.nicknameEligible(a, year) {
		return
	}
	prompt := s.NicknamePrompt(a)
	s.pendingNicknames[a.ID] = s.Dispatcher.DispatchJSON(ctx, s.Config.NicknameTask, s.Config.NicknameModel, prompt, llmdispatch.ModeDefault)
}

func (s *Simulator) nicknameEligible(a *world.Agent, year int) bool {
	ageEligible := a.Nickname == nil || year-a.Nickname.CreatedYear >= 10
	if !ageEligible {
		return false
	}
	major, minor := a.Events.CountMajorMinor()
	return major >= s.Config.MajorEventThreshold && minor >= s.Config.MinorEventThreshold
}

// refreshObjective implements spec §4.8's long-term objective refresh
// policy.
func (s *Simulator) refreshObjective(ctx context.Context, a *world.Agent, year int) {
	if future, ok := s.pendingObjectives[a.ID]; ok {
		if !future.IsReady() {
			return
		}
		delete(s.pendingObjectives, a.ID)
		result, _ := future.Get(ctx)
		if result.Err != nil {
			s.Logger.Warn(ctx, "objective refresh failed", "agent", string(a.ID), "error", result.Err.Error())
			return
		}
		a.LongTermGoal = &world.Objective{
			Text:        stringField(result.Object, "objective"),
			Origin:      world.ObjectiveFromLLM,
			CreatedYear: year,
		}
		return
	}

	if !s.objectiveRefreshDue(a, year) {
		return
	}
	prompt := s.ObjectivePrompt(a)
	s.pendingObjectives[a.ID] = s.Dispatcher.DispatchJSON(ctx, s.Config.ObjectiveTask, s.Config.ObjectiveModel, prompt, llmdispatch.ModeDefault)
}

// objectiveRefreshDue implements spec §4.8 "Long-term objective refresh
// policy": absent generates, user-origin never auto-regenerates, llm-origin
// younger than 5 years skips, at or past 10 years always regenerates,
// otherwise regenerates with a linearly ramping probability.
func (s *Simulator) objectiveRefreshDue(a *world.Agent, year int) bool {
	if a.LongTermGoal == nil {
		return true
	}
	if a.LongTermGoal.Origin == world.ObjectiveFromUser {
		return false
	}

	age := year - a.LongTermGoal.CreatedYear
	if age < 5 {
		return false
	}
	if age >= 10 {
		return true
	}
	prob := float64(age-5)/5*0.9 + 0.1
	return s.rng.Float64() < prob
}

func stringField(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	v, _ := obj[key].(string)
	return v
}

func defaultNicknamePrompt(a *world.Agent) string {
	return fmt.Sprintf("Propose a nickname and reason for cultivator %s given their recent history: %s", a.Name, a.Thinking)
}

func defaultObjectivePrompt(a *world.Agent) string {
	return fmt.Sprintf("Propose a new long-term cultivation objective for %s (realm %d).", a.Name, a.Realm)
}
