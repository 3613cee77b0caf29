package mutual

import (
	"fmt"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/world"
)

// settleFeedback maps a decided Feedback onto events and action.PlanInstall
// directives (spec §4.6 "Feedback mapping primitives"). Idempotence: if
// target's current action already matches what this feedback would
// install, nothing is installed again (spec §4.6 "Idempotence").
func (m *instance) settleFeedback(w *world.World, initiator, target *world.Agent, feedback Feedback, conversationContent string, clockNow int) ([]world.Event, []action.PlanInstall) {
	if m.decl.Conversation {
		return m.settleConversation(initiator, target, conversationContent, clockNow), nil
	}

	switch feedback {
	case FeedbackAccept, FeedbackTalk:
		content := fmt.Sprintf("%s accepts %s's proposal", target.Name, initiator.Name)
		return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{initiator.ID, target.ID}}}, nil

	case FeedbackReject:
		content := fmt.Sprintf("%s rejects %s's proposal", target.Name, initiator.Name)
		return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{initiator.ID, target.ID}}}, nil

	case FeedbackEscape:
		return m.installResponseAction(target, initiator, "escape", clockNow)
	case FeedbackAttack:
		return m.installResponseAction(target, initiator, "attack", clockNow)
	case FeedbackMove:
		return m.installResponseAction(target, initiator, "move_away_from_avatar", clockNow)

	default:
		content := fmt.Sprintf("%s rejects %s's proposal", target.Name, initiator.Name)
		return []world.Event{{MonthStamp: clockNow, Content: content, RelatedAgentIDs: []world.AgentID{initiator.ID, target.ID}}}, nil
	}
}

// installResponseAction preempts target onto actionName targeting
// initiator, unless target's current action already is that exact
// action/target pair (idempotence).
func (m *instance) installResponseAction(target, initiator *world.Agent, actionName string, _ int) ([]world.Event, []action.PlanInstall) {
	if target.CurrentAction != nil && target.CurrentAction.ActionName == actionName {
		if existingTarget, ok := target.CurrentAction.Params["target"].(string); ok && existingTarget == string(initiator.ID) {
			return nil, nil
		}
	}

	install := action.PlanInstall{
		AgentID: target.ID,
		Preempt: true,
		Plans: []world.ActionPlan{
			{ActionName: actionName, Params: map[string]any{"target": string(initiator.ID)}},
		},
	}
	return nil, []action.PlanInstall{install}
}

// settleConversation synthesizes the single dialogue event both sides
// receive once (spec §4.6 "Conversation sub-variant").
func (m *instance) settleConversation(initiator, target *world.Agent, content string, clockNow int) []world.Event {
	if content == "" {
		content = fmt.Sprintf("%s and %s exchange a few words", initiator.Name, target.Name)
	}
	return []world.Event{{
		MonthStamp:      clockNow,
		Content:         content,
		RelatedAgentIDs: []world.AgentID{initiator.ID, target.ID},
	}}
}
