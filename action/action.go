// Package action implements the action contract (spec §4.2): every action
// type exposes can_start/start/step/finish plus save hooks, as a capability
// record of closures rather than a class hierarchy (spec §9 "Dynamic
// dispatch"). world.ActionPlan/world.ActionInstance hold the plain data;
// this package supplies the behavior keyed by name.
package action

import (
	"context"

	"cultivation-world-simulator/world"
)

// Result is what Step returns each tick (spec §4.2 "step... MUST return
// COMPLETED, FAILED, CANCELLED, INTERRUPTED, or RUNNING").
type Result struct {
	Status   world.ActionStatus
	Events   []world.Event
	Installs []PlanInstall
}

// PlanInstall is a directive an action hands back to package agentrt
// instead of calling agentrt's preempt/load_decide_result_chain directly
// (which would cycle action<->agentrt). It covers both Escape-style
// self-preemption and mutual-action settle_feedback's cross-agent
// installs (spec §4.4, §4.6).
type PlanInstall struct {
	AgentID world.AgentID
	Preempt bool
	Plans   []world.ActionPlan
	Prepend bool
}

// Running is shorthand for the common "nothing happened yet" result.
func Running() Result { return Result{Status: world.StatusRunning} }

// Instance is the behavioral half of a promoted action: the capability
// record's four lifecycle methods plus save hooks (spec §4.2, §9). A
// concrete type's New() constructs a fresh Instance per execution, so
// per-tick mutable state (start_month, an in-flight LLM handle, collected
// materials) lives on the Instance, never on the Spec.
type Instance interface {
	// CanStart is a pure precondition check; no mutation (spec §4.2).
	CanStart(ctx context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) (ok bool, reason string)
	// Start runs once at promotion time and may emit an announcement event.
	Start(ctx context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) (*world.Event, error)
	// Step advances exactly one tick; must be re-entrant and non-blocking
	// for LLM-backed actions (spec §4.5).
	Step(ctx context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) (Result, error)
	// Finish runs once when Step returns a terminal status.
	Finish(ctx context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) ([]world.Event, error)
	// GetSaveData/LoadSaveData round-trip only execution state, never the
	// world/agent handles (spec §4.10).
	GetSaveData() map[string]any
	LoadSaveData(data map[string]any) error
}

// Spec is the process-wide, class-level declaration for an action type
// (spec §4.2 "Action class-level declarations"). It is immutable and
// shared; Instance is what carries per-execution state.
type Spec struct {
	Name string

	IsMajor          bool
	AllowGathering   bool
	AllowWorldEvents bool
	CooldownMonths   int

	// Actual marks a type directly selectable by AI decisions, as opposed
	// to a chunk/helper sub-primitive (spec §4.3).
	Actual bool

	// ParamSchema, if non-nil, is validated against params at promotion
	// time (see ValidateParams in paramschema.go).
	ParamSchema []byte

	New func() Instance
}
