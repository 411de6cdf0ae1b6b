package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// Idempotency and delivery resolution. Both are deterministic functions of
// the turn's identity and flags; nothing here reads a clock or random source.

// IdempotencyKey derives the delivery-dedup key for a turn's directive.
func IdempotencyKey(correlationID, turnID string, kind directive.Kind) string {
	return fmt.Sprintf("%s:%s:%s", correlationID, turnID, kind)
}

// idNamespace scopes the name-based UUIDs this engine derives.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("voicecore/decisioncore"))

// ToolRequestID derives the request id for a tool dispatch. Name-based
// (SHA-1) rather than random so identical turns produce identical ids.
func ToolRequestID(correlationID, turnID string) string {
	return "tool_" + uuid.NewSHA1(idNamespace, []byte("tool:"+correlationID+":"+turnID)).String()[:16]
}

// AnswerID derives the id of a resume buffer created on this turn.
func AnswerID(correlationID, turnID string) string {
	return "ans_" + uuid.NewSHA1(idNamespace, []byte("answer:"+correlationID+":"+turnID)).String()[:16]
}

// ResolveDelivery maps the directive kind and policy flags to a delivery
// channel. Wait is always silent regardless of flags; privacy mode and
// do-not-disturb suppress speech for everything else.
func ResolveDelivery(kind directive.Kind, policy turn.Policy) turn.DeliveryHint {
	if kind == directive.KindWait {
		return turn.DeliverySilent
	}
	if policy.PrivacyMode || policy.DoNotDisturb {
		return turn.DeliveryTextOnly
	}
	return turn.DeliveryAudibleText
}
