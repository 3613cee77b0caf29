package mutual

import (
	"fmt"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/world"
)

// NewProposeDuelDeclaration describes the "propose_duel" mutual action
// (spec §8 scenario 2 "mutual action with Accept/Reject/Escape/Attack"):
// an initiator challenges a target, who may accept, reject, flee, or
// strike first.
func NewProposeDuelDeclaration() Declaration {
	return Declaration{
		Name:             "propose_duel",
		IsMajor:          true,
		Feedbacks:        []Feedback{FeedbackAccept, FeedbackReject, FeedbackEscape, FeedbackAttack},
		InteractionRange: 1,
		PromptTask:       "propose_duel_feedback",
		BuildPrompt: func(initiator, target *world.Agent) string {
			return fmt.Sprintf(
				"%s challenges %s to a duel. Decide %s's feedback: one of accept, reject, escape, attack. "+
					"Respond as JSON {\"thinking\": str, \"feedback\": str}.",
				initiator.Name, target.Name, target.Name,
			)
		},
	}
}

// NewConverseDeclaration describes the "converse" mutual action (spec §4.6
// "Conversation sub-variant", §8 scenario 3): a no-announcement two-agent
// talk that produces one shared dialogue event.
func NewConverseDeclaration() Declaration {
	return Declaration{
		Name:             "converse",
		IsMajor:          false,
		Feedbacks:        []Feedback{FeedbackTalk, FeedbackReject},
		InteractionRange: 1,
		Conversation:     true,
		PromptTask:       "converse_feedback",
		BuildPrompt: func(initiator, target *world.Agent) string {
			return fmt.Sprintf(
				"%s starts a conversation with %s. Write a short exchange from %s's side. "+
					"Respond as JSON {\"thinking\": str, \"feedback\": \"talk\", \"conversation_content\": str}.",
				initiator.Name, target.Name, target.Name,
			)
		},
	}
}

// NewBuiltinSpecs returns the action.Spec set for every built-in mutual
// action type, wired to dispatcher, ready for action.Registry.Register.
func NewBuiltinSpecs(dispatcher *llmdispatch.Dispatcher) []action.Spec {
	return []action.Spec{
		NewSpec(NewProposeDuelDeclaration(), dispatcher),
		NewSpec(NewConverseDeclaration(), dispatcher),
	}
}
