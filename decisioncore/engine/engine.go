// Package engine implements the turn-level decision cascade.
//
// Decide is a pure function: it consumes a turn request plus the prior
// cross-turn state and produces exactly one directive and the replacement
// state. It performs no I/O, holds no state between calls, and never reads
// the clock - "now" comes from the caller. Calling Decide twice with
// identical inputs yields identical outputs.
//
// The cascade is strictly priority-ordered; the first matching rule wins:
//
//	1. stale resume-buffer clearing (always, before any branch)
//	2. session not active          -> wait, silent
//	3. interruption                -> wait + cancel speech
//	4. completed tool result       -> respond / clarify-on-ambiguity
//	5. confirmation answer         -> dispatch / decline / release memory
//	6. prior-turn failure          -> generic retry apology
//	7. understanding result        -> clarify / chat / intent handling
//
// Anything malformed or mismatched fails closed: an error is returned and no
// directive is produced.
package engine

import (
	"github.com/voxhall-labs/voicecore/decisioncore/config"
	"github.com/voxhall-labs/voicecore/decisioncore/contract"
	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/state"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// Engine evaluates the decision cascade. It carries only immutable
// configuration; all per-conversation state lives in the caller.
type Engine struct {
	cfg *config.EngineConfig
}

// New creates an Engine. A nil config uses defaults.
func New(cfg *config.EngineConfig) *Engine {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	return &Engine{cfg: cfg}
}

// outcome is the cascade's intermediate result before response assembly.
type outcome struct {
	directive    directive.Directive
	reason       turn.ReasonCode
	cancelSpeech bool
}

// Decide applies the rule cascade to one turn.
func (e *Engine) Decide(req *turn.Request, prior state.State) (*turn.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	next := prior.Clone()
	// Rule 1: applied unconditionally, before any later rule fires.
	next.DropStaleResume(req.Now)

	out, err := e.evaluate(req, &next)
	if err != nil {
		return nil, err
	}

	resp := &turn.Response{
		CorrelationID:  req.CorrelationID,
		TurnID:         req.TurnID,
		Directive:      out.directive,
		Next:           next,
		CancelSpeech:   out.cancelSpeech,
		Delivery:       ResolveDelivery(out.directive.Kind, req.Policy),
		Reason:         out.reason,
		IdempotencyKey: IdempotencyKey(req.CorrelationID, req.TurnID, out.directive.Kind),
	}
	if err := resp.Validate(); err != nil {
		return nil, contract.Internal("response assembly", err)
	}
	return resp, nil
}

// evaluate runs rules 2-7. next has already had its stale resume buffer
// dropped and is mutated in place as rules fire.
func (e *Engine) evaluate(req *turn.Request, next *state.State) (outcome, error) {
	// Rule 2: suspended/closed sessions produce no conversational output.
	if !req.Session.IsActive() {
		return outcome{
			directive: directive.NewWait(string(turn.ReasonSessionInactive)),
			reason:    turn.ReasonSessionInactive,
		}, nil
	}

	// Rule 3: a barge-in outranks all conversational content. The speech
	// layer must stop talking now; the pending interaction stays untouched
	// so the conversation can pick up where it left off.
	if req.Interruption != nil {
		return outcome{
			directive:    directive.NewWait(string(turn.ReasonInterrupted)),
			reason:       turn.ReasonInterrupted,
			cancelSpeech: true,
		}, nil
	}

	// Rule 4: completed tool result.
	if req.ToolResult != nil {
		return e.resolveToolResult(req, next)
	}

	// Rule 5: confirmation answer.
	if req.Answer != nil {
		return e.resolveAnswer(req, next)
	}

	// Rule 6: a prior turn failed downstream. The apology is deliberately
	// generic; internal failure detail is never echoed to the user.
	if req.FailureCode != "" {
		next.Pending = nil
		return outcome{
			directive: directive.NewRespond(retryApologyText),
			reason:    turn.ReasonPriorFailure,
		}, nil
	}

	// Rule 7: an understanding result must be present by now.
	if req.Understanding == nil {
		return outcome{}, contract.Invalid("request", "no conversational input present")
	}
	return e.resolveUnderstanding(req, next)
}

// =============================================================================
// Rule 4: Tool Results
// =============================================================================

func (e *Engine) resolveToolResult(req *turn.Request, next *state.State) (outcome, error) {
	res := req.ToolResult
	pending := next.Pending
	if pending == nil || pending.Kind != state.PendingKindTool {
		return outcome{}, contract.StateMismatch("tool_result", next.PendingKindString())
	}
	if pending.RequestID != res.RequestID {
		return outcome{}, contract.StateMismatch(
			"tool_result "+res.RequestID, "tool "+pending.RequestID)
	}

	// Structured ambiguity becomes exactly one clarifying question with
	// deterministic answer options.
	if res.Ambiguity != nil {
		formats := clampAnswerOptions(res.Ambiguity.Options, e.cfg.MaxAnswerFormats)
		next.Pending = state.Merge(pending, &state.PendingInteraction{
			Kind:         state.PendingKindClarify,
			MissingField: fieldChoice,
		}, e.cfg.MaxAttempts)
		return outcome{
			directive: directive.NewClarify(res.Ambiguity.Prompt, fieldChoice, formats),
			reason:    turn.ReasonToolAmbiguity,
		}, nil
	}

	next.Pending = nil
	if res.Status == turn.ToolStatusFail {
		return outcome{
			directive: directive.NewRespond(toolFailureText),
			reason:    turn.ReasonToolFailure,
		}, nil
	}
	text := renderToolResult(res.Values)
	return outcome{
		directive: e.finalizeRespond(req, next, text, "tool result"),
		reason:    turn.ReasonToolSuccess,
	}, nil
}

// =============================================================================
// Rule 5: Confirmation Answers
// =============================================================================

func (e *Engine) resolveAnswer(req *turn.Request, next *state.State) (outcome, error) {
	pending := next.Pending
	if pending == nil {
		return outcome{}, contract.StateMismatch("answer", next.PendingKindString())
	}

	switch pending.Kind {
	case state.PendingKindConfirm:
		snapshot := pending.Snapshot
		if snapshot == nil {
			return outcome{}, contract.Invalid("pending.snapshot", "confirm pending without intent snapshot")
		}
		attempts := pending.Attempts
		next.Pending = nil
		if req.Answer.Accepted {
			return outcome{
				directive: directive.NewSimulationDispatch(snapshot.Intent, snapshot.Fields),
				reason:    turn.ReasonConfirmAccepted,
			}, nil
		}
		return outcome{
			directive: directive.NewRespond(declineText(attempts)),
			reason:    turn.ReasonConfirmDeclined,
		}, nil

	case state.PendingKindMemoryPermission:
		deferred := pending.DeferredText
		next.Pending = nil
		if req.Answer.Accepted {
			return outcome{
				directive: e.finalizeRespond(req, next, deferred, ""),
				reason:    turn.ReasonMemoryReleased,
			}, nil
		}
		// The conversation is not abandoned; only the sensitive content is
		// withheld. The deferred text was composed without it.
		return outcome{
			directive: e.finalizeRespond(req, next, memoryDeclinePrefix+deferred, ""),
			reason:    turn.ReasonMemoryWithheld,
		}, nil

	default:
		return outcome{}, contract.StateMismatch("answer", next.PendingKindString())
	}
}

// =============================================================================
// Rule 7: Understanding Results
// =============================================================================

func (e *Engine) resolveUnderstanding(req *turn.Request, next *state.State) (outcome, error) {
	u := req.Understanding
	switch u.Kind {
	case turn.UnderstandingClarify:
		// Adopt the upstream question verbatim.
		next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
			Kind:         state.PendingKindClarify,
			MissingField: u.Clarify.MissingField,
		}, e.cfg.MaxAttempts)
		return outcome{
			directive: directive.NewClarify(
				u.Clarify.Question, u.Clarify.MissingField, formatsForField(u.Clarify.MissingField)),
			reason: turn.ReasonClarifyPassthrough,
		}, nil

	case turn.UnderstandingChat:
		return e.resolveChat(req, next)

	case turn.UnderstandingIntent:
		return e.resolveIntent(req, next)

	default:
		return outcome{}, contract.Invalid("understanding.kind", "unknown kind "+string(u.Kind))
	}
}

func (e *Engine) resolveChat(req *turn.Request, next *state.State) (outcome, error) {
	composed := e.composeChat(req)

	// Sensitive personal data is never used silently and never silently
	// discarded: the composed answer is parked and one permission question
	// is asked instead.
	if hasFreshSensitive(req) {
		next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
			Kind:         state.PendingKindMemoryPermission,
			DeferredText: composed,
		}, e.cfg.MaxAttempts)
		return outcome{
			directive: directive.NewRespond(memoryPermissionQuestion),
			reason:    turn.ReasonMemoryPermission,
		}, nil
	}

	return outcome{
		directive: e.finalizeRespond(req, next, composed, ""),
		reason:    turn.ReasonChat,
	}, nil
}

func (e *Engine) resolveIntent(req *turn.Request, next *state.State) (outcome, error) {
	draft := req.Understanding.Intent

	// 7a: continue/more-detail consume the resume buffer.
	if turn.IsResumeIntent(draft.Name) {
		buf := next.Resume
		if buf == nil {
			// Nothing to resume: fail closed into a single clarify.
			next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
				Kind:         state.PendingKindClarify,
				MissingField: fieldReference,
			}, e.cfg.MaxAttempts)
			return outcome{
				directive: directive.NewClarify(
					questionForField(fieldReference), fieldReference, formatsForField(fieldReference)),
				reason: turn.ReasonResumeMissing,
			}, nil
		}
		text := buf.Remainder
		if draft.Name == turn.IntentMoreDetail {
			text = moreDetailPrefix + text
		}
		next.Resume = nil
		return outcome{
			directive: e.finalizeRespond(req, next, text, buf.Topic),
			reason:    turn.ReasonResumeContinued,
		}, nil
	}

	// 7b: low confidence or missing fields produce exactly one clarify.
	if draft.Confidence < e.cfg.ClarificationThreshold {
		next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
			Kind:         state.PendingKindClarify,
			MissingField: fieldIntent,
		}, e.cfg.MaxAttempts)
		return outcome{
			directive: directive.NewClarify(
				lowConfidenceQuestion, fieldIntent, formatsForField(fieldIntent)),
			reason: turn.ReasonLowConfidence,
		}, nil
	}
	if len(draft.MissingFields) > 0 {
		field := primaryMissingField(draft.MissingFields)
		next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
			Kind:         state.PendingKindClarify,
			MissingField: field,
		}, e.cfg.MaxAttempts)
		return outcome{
			directive: directive.NewClarify(
				questionForField(field), field, formatsForField(field)),
			reason: turn.ReasonMissingField,
		}, nil
	}

	// 7c: read-only queries dispatch straight to the tool layer.
	if tool, ok := turn.ReadOnlyTool(draft.Name); ok {
		requestID := ToolRequestID(req.CorrelationID, req.TurnID)
		next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
			Kind:      state.PendingKindTool,
			RequestID: requestID,
		}, e.cfg.MaxAttempts)
		return outcome{
			directive: directive.NewToolDispatch(requestID, tool, copyFields(draft.Fields)),
			reason:    turn.ReasonToolDispatched,
		}, nil
	}

	// 7d: everything else is impactful and requires explicit confirmation.
	next.Pending = state.Merge(next.Pending, &state.PendingInteraction{
		Kind: state.PendingKindConfirm,
		Snapshot: &state.IntentSnapshot{
			Intent: draft.Name,
			Fields: copyFields(draft.Fields),
		},
	}, e.cfg.MaxAttempts)
	return outcome{
		directive: directive.NewConfirm(restatement(draft.Name, draft.Fields)),
		reason:    turn.ReasonConfirmationWanted,
	}, nil
}

func copyFields(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
