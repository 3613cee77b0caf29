// Package mutual implements the two-party mutual action protocol (spec
// §4.6): an initiator proposes something to a target, an LLM call decides
// the target's feedback, and that feedback is mapped onto zero or more
// new plans via the same action.PlanInstall directive escape.go and the
// rest of package action already use, keeping mutual free of a direct
// dependency on agentrt (spec §9 "Dynamic dispatch").
package mutual

import (
	"context"
	"fmt"
	"strings"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/world"
)

// Feedback names a target's possible response to a mutual action (spec
// §4.6 "feedback list... e.g. {Accept, Reject} or {Talk, Reject} or
// {Accept, Reject, Escape, Attack}").
type Feedback string

const (
	FeedbackAccept Feedback = "accept"
	FeedbackReject Feedback = "reject"
	FeedbackTalk   Feedback = "talk"
	FeedbackEscape Feedback = "escape"
	FeedbackAttack Feedback = "attack"
	FeedbackMove   Feedback = "move_away"
)

// Declaration is the class-level description of a mutual action type
// (spec §4.6, §4.2 "Action class-level declarations").
type Declaration struct {
	Name             string
	IsMajor          bool
	Feedbacks        []Feedback
	InteractionRange int // Manhattan distance; 0 means same tile required
	Conversation     bool
	CooldownMonths   int

	// PromptTask and Model select the llmdispatch call mode/model used to
	// decide the target's feedback (spec §4.5 "Call modes").
	PromptTask string
	Model      string

	// BuildPrompt renders the decision prompt for initiator/target. Left
	// to the concrete mutual action since its content is out of scope
	// (spec §1 "concrete action content").
	BuildPrompt func(initiator, target *world.Agent) string
}

// instance is the generic action.Instance every mutual action type shares;
// only Declaration varies between e.g. ProposeDuel and Converse.
type instance struct {
	decl       Declaration
	dispatcher *llmdispatch.Dispatcher
	startMonth int
	future     *llmdispatch.Future
	settled    bool
}

// NewSpec builds the process-wide action.Spec for a mutual action type,
// wiring its Declaration to the llmdispatch.Dispatcher every step will
// use to decide the target's feedback.
func NewSpec(decl Declaration, dispatcher *llmdispatch.Dispatcher) action.Spec {
	return action.Spec{
		Name:             decl.Name,
		IsMajor:          decl.IsMajor,
		AllowGathering:   false,
		AllowWorldEvents: true,
		CooldownMonths:   decl.CooldownMonths,
		Actual:           true,
		New: func() action.Instance {
			return &instance{decl: decl, dispatcher: dispatcher}
		},
	}
}

func (m *instance) CanStart(_ context.Context, w *world.World, a *world.Agent, _ int, params map[string]any) (bool, string) {
	target, ok := resolveTarget(w, a, params)
	if !ok {
		return false, "mutual action target not found"
	}
	if !target.Alive {
		return false, "mutual action target is not alive"
	}
	if m.decl.InteractionRange >= 0 && a.Position.Manhattan(target.Position) > m.decl.InteractionRange {
		return false, "mutual action target is out of range"
	}
	return true, ""
}

func (m *instance) Start(_ context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) (*world.Event, error) {
	m.startMonth = clockNow
	if m.decl.Conversation {
		return nil, nil
	}
	target, ok := resolveTarget(w, a, params)
	if !ok {
		return nil, nil
	}
	content := fmt.Sprintf("%s approaches %s", a.Name, target.Name)
	return &world.Event{
		MonthStamp:      clockNow,
		Content:         content,
		RelatedAgentIDs: []world.AgentID{a.ID, target.ID},
	}, nil
}

// Step implements the asynchronous decide-feedback protocol (spec §4.6
// step 3): dispatch once, poll thereafter, settle on ready.
func (m *instance) Step(ctx context.Context, w *world.World, a *world.Agent, clockNow int, params map[string]any) (action.Result, error) {
	target, ok := resolveTarget(w, a, params)
	if !ok {
		return action.Result{Status: world.StatusFailed}, nil
	}

	if m.future == nil {
		prompt := m.decl.BuildPrompt(a, target)
		m.future = m.dispatcher.DispatchJSON(ctx, m.decl.PromptTask, m.decl.Model, prompt, llmdispatch.ModeDefault)
		return action.Running(), nil
	}

	if !m.future.IsReady() {
		return action.Running(), nil
	}

	result, err := m.future.Get(ctx)
	if err != nil || result.Err != nil {
		return action.Result{Status: world.StatusFailed}, nil
	}

	thinking, _ := result.Object["thinking"].(string)
	feedbackRaw, _ := result.Object["feedback"].(string)
	conversationContent, _ := result.Object["conversation_content"].(string)

	feedback := Feedback(strings.ToLower(strings.TrimSpace(feedbackRaw)))
	if !m.decl.allows(feedback) {
		feedback = FeedbackReject
	}

	if thinking != "" {
		target.Thinking = thinking
	}

	events, installs := m.settleFeedback(w, a, target, feedback, conversationContent, clockNow)
	return action.Result{Status: world.StatusCompleted, Events: events, Installs: installs}, nil
}

func (m *instance) Finish(_ context.Context, _ *world.World, _ *world.Agent, _ int, _ map[string]any) ([]world.Event, error) {
	return nil, nil
}

func (m *instance) GetSaveData() map[string]any {
	return map[string]any{"start_month": m.startMonth}
}

func (m *instance) LoadSaveData(data map[string]any) error {
	if v, ok := data["start_month"].(float64); ok {
		m.startMonth = int(v)
	}
	return nil
}

func (d Declaration) allows(f Feedback) bool {
	for _, allowed := range d.Feedbacks {
		if allowed == f {
			return true
		}
	}
	return false
}

func resolveTarget(w *world.World, self *world.Agent, params map[string]any) (*world.Agent, bool) {
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
