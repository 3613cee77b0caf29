// Package sim implements the simulator tick engine (spec §4.7, C8): the
// ordered per-tick phases that drive every live agent's current action to
// completion, age and retire the population, rotate world phenomena, run
// gatherings, roll random world events, and refresh nicknames/objectives,
// before advancing the clock. It is the only package that calls
// clock.Clock.AdvanceOneMonth.
package sim

import (
	"context"
	"math/rand/v2"
	"sort"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/agentrt"
	"cultivation-world-simulator/clock"
	"cultivation-world-simulator/eventlog"
	"cultivation-world-simulator/gathering"
	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/telemetry"
	"cultivation-world-simulator/world"
)

// Config bundles the tunables phases 5 and 9 need that the core spec
// leaves to static/external configuration (spec §6 "game.*" keys).
type Config struct {
	// AwakeningAgeMonths is the age at which a mortal becomes an eligible
	// promotion candidate (SUPPLEMENTED FEATURES "mortal -> agent
	// promotion", spec §4.7 phase 5).
	AwakeningAgeMonths int

	// MajorEventThreshold/MinorEventThreshold gate nickname eligibility
	// (spec §4.8).
	MajorEventThreshold int
	MinorEventThreshold int

	// NicknameTask/NicknameModel select the template and model used to
	// dispatch a nickname refresh (spec §4.8, §4.5).
	NicknameTask  string
	NicknameModel string

	// ObjectiveTask/ObjectiveModel select the template and model used to
	// dispatch a long-term objective refresh (spec §4.8).
	ObjectiveTask  string
	ObjectiveModel string
}

// DefaultConfig returns conservative defaults; callers normally override
// these from the loaded game config (spec §6).
func DefaultConfig() Config {
	return Config{
		AwakeningAgeMonths:  16 * 12,
		MajorEventThreshold: 3,
		MinorEventThreshold: 8,
		NicknameTask:        "nickname_refresh",
		ObjectiveTask:       "objective_refresh",
	}
}

// Simulator wires every component the tick engine drives: the world, the
// clock it alone advances, agentrt (per-agent lifecycle), the action and
// gathering registries, the LLM dispatcher for nickname/objective refresh,
// and the durable event log every phase writes through.
type Simulator struct {
	World      *world.World
	Clock      *clock.Clock
	Runtime    *agentrt.Runtime
	Actions    *action.Registry
	Gatherings *gathering.Registry
	Dispatcher *llmdispatch.Dispatcher
	Log        *eventlog.Log
	Logger     telemetry.Logger
	Metrics    telemetry.Metrics
	Config     Config

	PhenomenaCandidates []world.PhenomenonCandidate
	WorldEvents         []WorldEventEffect

	// NicknamePrompt/ObjectivePrompt build the LLM prompt for a refresh
	// dispatch (spec §4.8); callers normally set these to a
	// llmdispatch.DispatchTemplate-backed closure reading a configured
	// template path (spec §6 "paths.templates").
	NicknamePrompt  func(a *world.Agent) string
	ObjectivePrompt func(a *world.Agent) string

	rng *rand.Rand

	pendingNicknames  map[world.AgentID]*llmdispatch.Future
	pendingObjectives map[world.AgentID]*llmdispatch.Future
}

// Options configures a new Simulator.
type Options struct {
	World      *world.World
	Clock      *clock.Clock
	Runtime    *agentrt.Runtime
	Actions    *action.Registry
	Gatherings *gathering.Registry
	Dispatcher *llmdispatch.Dispatcher
	Log        *eventlog.Log
	Logger     telemetry.Logger
	Metrics    telemetry.Metrics
	Config     Config

	PhenomenaCandidates []world.PhenomenonCandidate
	WorldEvents         []WorldEventEffect

	NicknamePrompt  func(a *world.Agent) string
	ObjectivePrompt func(a *world.Agent) string

	Seed uint64
}

// New returns a Simulator ready to Tick.
func New(opts Options) *Simulator {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	s := &Simulator{
		World:               opts.World,
		Clock:               opts.Clock,
		Runtime:             opts.Runtime,
		Actions:             opts.Actions,
		Gatherings:          opts.Gatherings,
		Dispatcher:          opts.Dispatcher,
		Log:                 opts.Log,
		Logger:              logger,
		Metrics:             metrics,
		Config:              cfg,
		PhenomenaCandidates: opts.PhenomenaCandidates,
		WorldEvents:         opts.WorldEvents,
		NicknamePrompt:      opts.NicknamePrompt,
		ObjectivePrompt:     opts.ObjectivePrompt,
		rng:                 rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		pendingNicknames:    make(map[world.AgentID]*llmdispatch.Future),
		pendingObjectives:   make(map[world.AgentID]*llmdispatch.Future),
	}
	if s.NicknamePrompt == nil {
		s.NicknamePrompt = defaultNicknamePrompt
	}
	if s.ObjectivePrompt == nil {
		s.ObjectivePrompt = defaultObjectivePrompt
	}
	return s
}

// Report summarizes the side effects of one Tick, for callers (the server
// surface, tests) that want to react without re-scanning world state.
type Report struct {
	Month             int
	DeathEvents       []world.Event
	MortalCandidates  []*world.Mortal
	PhenomenonChanged bool
	GatheringEvents   []world.Event
	WorldEventEvents  []world.Event
}

// Tick runs one full pass of the ten phases in spec §4.7's strict order.
// Phases 1-2 complete for every live agent before phase 3 begins; the clock
// advances last, after phase 9.
func (s *Simulator) Tick(ctx context.Context) (Report, error) {
	clockNow := s.Clock.Now()
	report := Report{Month: clockNow}

	agents := s.sortedAliveAgents()

	s.phaseResolvePromotions(ctx, agents, clockNow)
	s.phaseAdvanceActions(ctx, agents, clockNow)
	s.phaseResourceDrift()
	report.DeathEvents = s.phaseAgingAndMortality(ctx, agents, clockNow)
	report.MortalCandidates = s.phaseMortalPromotion(clockNow)
	report.PhenomenonChanged = s.phasePhenomena(ctx, clockNow)
	report.GatheringEvents = s.phaseGatherings(ctx, clockNow)
	report.WorldEventEvents = s.phaseRandomWorldEvents(ctx, clockNow)
	s.phaseNicknameObjectiveRefresh(ctx, clockNow)

	s.Clock.AdvanceOneMonth()
	s.Metrics.IncCounter("sim.tick", 1)

	return report, nil
}

// sortedAliveAgents returns every living agent ordered by id, giving every
// phase a deterministic iteration order stable across runs and save/load
// (spec §5 "Ordering guarantees").
func (s *Simulator) sortedAliveAgents() []*world.Agent {
	agents := s.World.AliveAgents()
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents
}

// phaseResolvePromotions is tick phase 1.
func (s *Simulator) phaseResolvePromotions(ctx context.Context, agents []*world.Agent, clockNow int) {
	for _, a := range agents {
		if a.CurrentAction == nil {
			s.Runtime.PromoteNextPlan(ctx, s.World, a, clockNow)
		}
	}
}

// phaseAdvanceActions is tick phase 2.
func (s *Simulator) phaseAdvanceActions(ctx context.Context, agents []*world.Agent, clockNow int) {
	for _, a := range agents {
		s.Runtime.Advance(ctx, s.World, a, clockNow)
	}
}

// phaseResourceDrift is tick phase 3: city prosperity climbs back toward
// 100 by one point per tick.
func (s *Simulator) phaseResourceDrift() {
	for _, r := range s.World.Regions {
		if r.Kind != world.RegionCity {
			continue
		}
		if r.Prosperity < 100 {
			r.Prosperity++
			r.ClampProsperity()
		}
	}
}

// emit writes e to the durable log and every related agent's ring, the
// sim-package equivalent of agentrt's unexported appendRaw for events not
// produced by an action step (phenomena, gatherings, world events).
func (s *Simulator) emit(ctx context.Context, e world.Event) {
	_ = s.Log.AppendToAgents(ctx, e.RelatedAgentIDs, e)
	for _, id := range e.RelatedAgentIDs {
		if a, ok := s.World.Agent(id); ok {
			a.Events.Push(e)
		}
	}
}
