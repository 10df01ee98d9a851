package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/vocero-ai/vocero/router"
)

// Transition phases, reported to hooks and logs.
const (
	PhasePreTurn  = "pre_turn"
	PhasePostTurn = "post_turn"
)

// Keyword heuristics for the post-turn rules. Matching is substring based
// over the case-folded user text.
var (
	validLocalityTokens   = []string{"córdoba", "cordoba", "capital"}
	invalidLocalityTokens = []string{"buenos aires", "rosario", "lejos"}
	affirmativeTokens     = []string{"sí", "si", "quiero", "agendar", "cita"}
)

// preTurnTransition evaluates the router-driven rules as an ordered decision
// list. The human_handoff label is a global interrupt that wins from any
// state. Returns the target node and whether a transition applies.
func preTurnTransition(current NodeName, label string) (NodeName, bool) {
	if label == router.LabelHumanHandoff {
		return NodeTransferLogic, true
	}
	if current == NodeRootGreeting && label == router.LabelLegalIssueTraffic {
		return NodeQualifyStart, true
	}
	return current, false
}

// postTurnTransition evaluates the heuristic per-state rules against the
// just-completed turn's user text. It must be called with the node that was
// current after the pre-turn phase: the pre-turn transition feeds into this
// one within the same turn.
func postTurnTransition(current NodeName, userText string) (NodeName, bool) {
	text := strings.ToLower(userText)

	switch current {
	case NodeQualifyStart:
		if containsAny(text, validLocalityTokens) {
			return NodeQualifyDetails, true
		}
		if containsAny(text, invalidLocalityTokens) {
			return NodeRejectionLocation, true
		}
	case NodeQualifyDetails:
		// Deliberately coarse: any substantial answer moves the flow along.
		// A real slot-completeness check would live here.
		if utf8.RuneCountInString(userText) > 3 {
			return NodeOfferAppointment, true
		}
	case NodeOfferAppointment:
		if containsAny(text, affirmativeTokens) {
			return NodeBookingProcess, true
		}
	}
	return current, false
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
