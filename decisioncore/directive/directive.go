// Package directive defines the outbound directive variants the decision
// engine can emit, exactly one per turn.
//
// Directive is a closed tagged variant: Kind selects which payload is
// populated. Consumers dispatch exhaustively on Kind so a new variant is a
// compile-visible obligation everywhere it is consumed.
package directive

import (
	"github.com/voxhall-labs/voicecore/decisioncore/contract"
)

// =============================================================================
// Directive Kinds
// =============================================================================

// Kind represents the directive variant.
type Kind string

const (
	// KindRespond speaks/sends a finished answer.
	KindRespond Kind = "respond"
	// KindClarify asks exactly one clarifying question.
	KindClarify Kind = "clarify"
	// KindConfirm asks a yes/no question before an impactful action.
	KindConfirm Kind = "confirm"
	// KindDispatch hands a tool request or simulation candidate downstream.
	KindDispatch Kind = "dispatch"
	// KindWait stays silent this turn.
	KindWait Kind = "wait"
)

// =============================================================================
// Payloads
// =============================================================================

// Respond carries a finished answer.
type Respond struct {
	Text string `json:"text"`
}

// Clarify asks about exactly one missing field and offers 2-3 accepted
// answer formats.
type Clarify struct {
	Question      string   `json:"question"`
	AnswerFormats []string `json:"answer_formats"`
	MissingField  string   `json:"missing_field"`
}

// Confirm restates the understood action and asks for a yes/no.
type Confirm struct {
	Restatement string `json:"restatement"`
}

// ToolRequest asks the tool layer to run a read-only lookup.
type ToolRequest struct {
	RequestID string            `json:"request_id"`
	Tool      string            `json:"tool"`
	Params    map[string]string `json:"params,omitempty"`
}

// SimulationCandidate carries a confirmed intent snapshot for the action
// layer to execute.
type SimulationCandidate struct {
	Intent string            `json:"intent"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Dispatch carries exactly one of a tool request or a simulation candidate.
type Dispatch struct {
	Tool       *ToolRequest         `json:"tool,omitempty"`
	Simulation *SimulationCandidate `json:"simulation,omitempty"`
}

// Wait stays silent; Reason records why for the audit trail.
type Wait struct {
	Reason string `json:"reason"`
}

// =============================================================================
// Directive
// =============================================================================

// Directive is the single outbound instruction for a turn.
type Directive struct {
	Kind     Kind      `json:"kind"`
	Respond  *Respond  `json:"respond,omitempty"`
	Clarify  *Clarify  `json:"clarify,omitempty"`
	Confirm  *Confirm  `json:"confirm,omitempty"`
	Dispatch *Dispatch `json:"dispatch,omitempty"`
	Wait     *Wait     `json:"wait,omitempty"`
}

// =============================================================================
// Builders
// =============================================================================

// NewRespond builds a respond directive.
func NewRespond(text string) Directive {
	return Directive{Kind: KindRespond, Respond: &Respond{Text: text}}
}

// NewClarify builds a clarify directive for a single missing field.
func NewClarify(question, missingField string, answerFormats []string) Directive {
	formats := make([]string, len(answerFormats))
	copy(formats, answerFormats)
	return Directive{Kind: KindClarify, Clarify: &Clarify{
		Question:      question,
		AnswerFormats: formats,
		MissingField:  missingField,
	}}
}

// NewConfirm builds a confirm directive.
func NewConfirm(restatement string) Directive {
	return Directive{Kind: KindConfirm, Confirm: &Confirm{Restatement: restatement}}
}

// NewToolDispatch builds a dispatch directive carrying a tool request.
func NewToolDispatch(requestID, tool string, params map[string]string) Directive {
	return Directive{Kind: KindDispatch, Dispatch: &Dispatch{
		Tool: &ToolRequest{RequestID: requestID, Tool: tool, Params: params},
	}}
}

// NewSimulationDispatch builds a dispatch directive carrying a simulation
// candidate.
func NewSimulationDispatch(intent string, fields map[string]string) Directive {
	return Directive{Kind: KindDispatch, Dispatch: &Dispatch{
		Simulation: &SimulationCandidate{Intent: intent, Fields: fields},
	}}
}

// NewWait builds a wait directive.
func NewWait(reason string) Directive {
	return Directive{Kind: KindWait, Wait: &Wait{Reason: reason}}
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the directive's structural contract: exactly one payload,
// matching the declared kind, with the per-kind shape rules satisfied.
func (d Directive) Validate() error {
	if n := d.payloadCount(); n != 1 {
		return contract.Invalid("directive", "exactly one payload must be set")
	}

	switch d.Kind {
	case KindRespond:
		if d.Respond == nil {
			return contract.Invalid("directive", "kind respond without respond payload")
		}
		return contract.Required(d.Respond.Text, "respond.text")
	case KindClarify:
		if d.Clarify == nil {
			return contract.Invalid("directive", "kind clarify without clarify payload")
		}
		if err := contract.Required(d.Clarify.Question, "clarify.question"); err != nil {
			return err
		}
		if err := contract.Required(d.Clarify.MissingField, "clarify.missing_field"); err != nil {
			return err
		}
		if n := len(d.Clarify.AnswerFormats); n < 2 || n > 3 {
			return contract.Invalid("clarify.answer_formats", "must contain 2-3 entries")
		}
		return nil
	case KindConfirm:
		if d.Confirm == nil {
			return contract.Invalid("directive", "kind confirm without confirm payload")
		}
		return contract.Required(d.Confirm.Restatement, "confirm.restatement")
	case KindDispatch:
		if d.Dispatch == nil {
			return contract.Invalid("directive", "kind dispatch without dispatch payload")
		}
		if (d.Dispatch.Tool == nil) == (d.Dispatch.Simulation == nil) {
			return contract.Invalid("dispatch", "exactly one of tool or simulation must be set")
		}
		if d.Dispatch.Tool != nil {
			if err := contract.Required(d.Dispatch.Tool.RequestID, "dispatch.tool.request_id"); err != nil {
				return err
			}
			return contract.Required(d.Dispatch.Tool.Tool, "dispatch.tool.tool")
		}
		return contract.Required(d.Dispatch.Simulation.Intent, "dispatch.simulation.intent")
	case KindWait:
		if d.Wait == nil {
			return contract.Invalid("directive", "kind wait without wait payload")
		}
		return contract.Required(d.Wait.Reason, "wait.reason")
	default:
		return contract.Invalid("directive.kind", "unknown kind "+string(d.Kind))
	}
}

func (d Directive) payloadCount() int {
	n := 0
	if d.Respond != nil {
		n++
	}
	if d.Clarify != nil {
		n++
	}
	if d.Confirm != nil {
		n++
	}
	if d.Dispatch != nil {
		n++
	}
	if d.Wait != nil {
		n++
	}
	return n
}
