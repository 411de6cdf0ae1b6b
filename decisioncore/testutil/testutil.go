// Package testutil provides shared fixtures for decision-core tests.
//
// Builders here construct well-formed turn requests so tests only spell out
// the fields they are exercising.
package testutil

import (
	"time"

	"github.com/voxhall-labs/voicecore/decisioncore/state"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// BaseTime is the fixed "now" used across tests; decisions depend only on
// caller-supplied time, so fixtures pin it.
var BaseTime = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

// RequestOption mutates a request fixture.
type RequestOption func(*turn.Request)

// NewRequest builds a valid active-session request for conversation conv-1.
func NewRequest(opts ...RequestOption) *turn.Request {
	req := &turn.Request{
		CorrelationID: "conv-1",
		TurnID:        "turn-1",
		Now:           BaseTime,
		Session:       turn.SessionActive,
		Identity:      turn.Identity{TextUserID: "user-1"},
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// WithTurnID sets the turn id.
func WithTurnID(id string) RequestOption {
	return func(r *turn.Request) { r.TurnID = id }
}

// WithNow sets the caller-supplied clock.
func WithNow(now time.Time) RequestOption {
	return func(r *turn.Request) { r.Now = now }
}

// WithSession sets the session lifecycle state.
func WithSession(s turn.SessionState) RequestOption {
	return func(r *turn.Request) { r.Session = s }
}

// WithVoice replaces the text identity with a voice speaker assertion.
func WithVoice(match turn.SpeakerMatch) RequestOption {
	return func(r *turn.Request) {
		r.Identity = turn.Identity{Voice: &turn.VoiceAssertion{SpeakerID: "spk-1", Match: match}}
	}
}

// WithPolicy sets the policy flags.
func WithPolicy(privacy, dnd bool) RequestOption {
	return func(r *turn.Request) {
		r.Policy = turn.Policy{PrivacyMode: privacy, DoNotDisturb: dnd}
	}
}

// WithMemory appends memory candidates.
func WithMemory(candidates ...turn.MemoryCandidate) RequestOption {
	return func(r *turn.Request) { r.Memory = append(r.Memory, candidates...) }
}

// WithChat sets a chat understanding result.
func WithChat(text string) RequestOption {
	return func(r *turn.Request) {
		r.Understanding = &turn.Understanding{
			Kind: turn.UnderstandingChat,
			Chat: &turn.ChatDraft{Text: text},
		}
	}
}

// WithClarifyDraft sets an upstream clarify understanding result.
func WithClarifyDraft(question, missingField string) RequestOption {
	return func(r *turn.Request) {
		r.Understanding = &turn.Understanding{
			Kind:    turn.UnderstandingClarify,
			Clarify: &turn.ClarifyDraft{Question: question, MissingField: missingField},
		}
	}
}

// WithIntent sets an intent-draft understanding result.
func WithIntent(name string, confidence float64, fields map[string]string, missing ...string) RequestOption {
	return func(r *turn.Request) {
		r.Understanding = &turn.Understanding{
			Kind: turn.UnderstandingIntent,
			Intent: &turn.IntentDraft{
				Name:          name,
				Confidence:    confidence,
				Fields:        fields,
				MissingFields: missing,
			},
		}
	}
}

// WithAnswer sets a confirmation answer.
func WithAnswer(accepted bool) RequestOption {
	return func(r *turn.Request) {
		r.Answer = &turn.ConfirmationAnswer{Accepted: accepted}
	}
}

// WithToolResult sets a completed tool result.
func WithToolResult(res *turn.ToolResult) RequestOption {
	return func(r *turn.Request) { r.ToolResult = res }
}

// WithInterruption sets a barge-in.
func WithInterruption() RequestOption {
	return func(r *turn.Request) { r.Interruption = &turn.Interruption{Source: "barge_in"} }
}

// WithFailure sets a prior-turn failure code.
func WithFailure(code string) RequestOption {
	return func(r *turn.Request) { r.FailureCode = code }
}

// =============================================================================
// MEMORY CANDIDATE FIXTURES
// =============================================================================

// NameCandidate is an always-usable preferred-name fact.
func NameCandidate(value string) turn.MemoryCandidate {
	return turn.MemoryCandidate{
		Key:         "preferred_name",
		Value:       value,
		Confidence:  0.95,
		Sensitivity: turn.SensitivityLow,
		UsePolicy:   turn.UseAlways,
	}
}

// SensitiveCandidate is a fresh sensitivity-flagged fact.
func SensitiveCandidate(key, value string) turn.MemoryCandidate {
	return turn.MemoryCandidate{
		Key:         key,
		Value:       value,
		Confidence:  0.95,
		Sensitivity: turn.SensitivitySensitive,
		UsePolicy:   turn.UseAskFirst,
		ExpiresAt:   BaseTime.Add(24 * time.Hour),
	}
}

// ExpiredCandidate is a candidate whose freshness window has passed.
func ExpiredCandidate(key, value string) turn.MemoryCandidate {
	c := SensitiveCandidate(key, value)
	c.ExpiresAt = BaseTime.Add(-time.Minute)
	return c
}

// =============================================================================
// STATE FIXTURES
// =============================================================================

// PendingTool builds a state awaiting a tool result.
func PendingTool(requestID string) state.State {
	return state.State{Pending: &state.PendingInteraction{
		Kind:      state.PendingKindTool,
		RequestID: requestID,
		Attempts:  1,
	}}
}

// PendingConfirm builds a state awaiting a yes/no confirmation.
func PendingConfirm(intent string, fields map[string]string) state.State {
	return state.State{Pending: &state.PendingInteraction{
		Kind:     state.PendingKindConfirm,
		Snapshot: &state.IntentSnapshot{Intent: intent, Fields: fields},
		Attempts: 1,
	}}
}

// PendingPermission builds a state awaiting a memory-permission answer.
func PendingPermission(deferred string) state.State {
	return state.State{Pending: &state.PendingInteraction{
		Kind:         state.PendingKindMemoryPermission,
		DeferredText: deferred,
		Attempts:     1,
	}}
}

// FreshResume builds a state holding a consumable resume buffer.
func FreshResume(remainder string) state.State {
	return state.State{Resume: &state.ResumeBuffer{
		AnswerID:  "ans-1",
		Topic:     "test topic",
		Spoken:    "the spoken part.",
		Remainder: remainder,
		ExpiresAt: BaseTime.Add(time.Minute),
	}}
}

// StaleResume builds a state holding an expired resume buffer.
func StaleResume() state.State {
	s := FreshResume("stale remainder")
	s.Resume.ExpiresAt = BaseTime.Add(-time.Second)
	return s
}
