package turn

import (
	"github.com/voxhall-labs/voicecore/decisioncore/contract"
	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/state"
)

// Response is the engine's complete output for one turn: the single chosen
// directive plus the replacement cross-turn state and delivery metadata.
type Response struct {
	CorrelationID string              `json:"correlation_id"`
	TurnID        string              `json:"turn_id"`
	Directive     directive.Directive `json:"directive"`
	Next          state.State         `json:"next_state"`
	CancelSpeech  bool                `json:"cancel_speech,omitempty"`
	Delivery      DeliveryHint        `json:"delivery"`
	Reason        ReasonCode          `json:"reason"`

	// IdempotencyKey is deterministic over (correlation id, turn id,
	// directive kind) so a replayed turn is safe to deliver twice.
	IdempotencyKey string `json:"idempotency_key"`
}

// Validate checks the response's structural contract before it leaves the
// engine. Output is validated as strictly as input: a malformed response is
// a bug, never something to deliver.
func (r *Response) Validate() error {
	if err := contract.Required(r.CorrelationID, "correlation_id"); err != nil {
		return err
	}
	if err := contract.Required(r.TurnID, "turn_id"); err != nil {
		return err
	}
	if err := r.Directive.Validate(); err != nil {
		return err
	}
	switch r.Delivery {
	case DeliverySilent, DeliveryTextOnly, DeliveryAudibleText:
	default:
		return contract.Invalid("delivery", "unknown hint "+string(r.Delivery))
	}
	if err := contract.Required(string(r.Reason), "reason"); err != nil {
		return err
	}
	return contract.Required(r.IdempotencyKey, "idempotency_key")
}
