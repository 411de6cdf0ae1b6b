// Package state holds the cross-turn conversational state threaded through
// the decision engine.
//
// The orchestrator owns a State value per conversation, passes it into every
// Decide call, and replaces it with the returned value. The engine never
// keeps state between calls.
//
// Key concepts:
//   - PendingInteraction: the single outstanding multi-turn exchange
//     (clarifying question, confirmation, memory permission, tool call)
//   - ResumeBuffer: the unspoken remainder of a long answer, resumable
//     within a time window
package state

import "time"

// =============================================================================
// Pending Interaction
// =============================================================================

// PendingKind represents the kind of outstanding interaction.
type PendingKind string

const (
	// PendingKindClarify is an outstanding clarifying question.
	PendingKindClarify PendingKind = "clarify"
	// PendingKindConfirm is an outstanding yes/no gate before an impactful action.
	PendingKindConfirm PendingKind = "confirm"
	// PendingKindMemoryPermission is an outstanding yes/no gate before
	// sensitive personal data may be used.
	PendingKindMemoryPermission PendingKind = "memory_permission"
	// PendingKindTool is an outstanding tool dispatch awaiting its result.
	PendingKindTool PendingKind = "tool"
)

// IntentSnapshot retains only the extracted structured fields of an intent
// awaiting confirmation. Raw evidence text is never held across turns.
type IntentSnapshot struct {
	Intent string            `json:"intent"`
	Fields map[string]string `json:"fields,omitempty"`
}

// PendingInteraction is a tagged variant; Kind selects which payload fields
// are meaningful. At most one pending interaction exists at any time.
type PendingInteraction struct {
	Kind     PendingKind `json:"kind"`
	Attempts int         `json:"attempts"`

	// Clarify
	MissingField string `json:"missing_field,omitempty"`

	// Confirm
	Snapshot *IntentSnapshot `json:"snapshot,omitempty"`

	// MemoryPermission. The already-composed response held verbatim until
	// the user answers.
	DeferredText string `json:"deferred_text,omitempty"`

	// Tool
	RequestID string `json:"request_id,omitempty"`
}

// key returns the identity used for attempt merging within a kind.
func (p *PendingInteraction) key() string {
	switch p.Kind {
	case PendingKindClarify:
		return p.MissingField
	case PendingKindConfirm:
		if p.Snapshot != nil {
			return p.Snapshot.Intent
		}
		return ""
	case PendingKindTool:
		return p.RequestID
	default:
		return ""
	}
}

// Clone returns a deep copy of the pending interaction.
func (p *PendingInteraction) Clone() *PendingInteraction {
	if p == nil {
		return nil
	}
	clone := &PendingInteraction{
		Kind:         p.Kind,
		Attempts:     p.Attempts,
		MissingField: p.MissingField,
		DeferredText: p.DeferredText,
		RequestID:    p.RequestID,
	}
	if p.Snapshot != nil {
		clone.Snapshot = &IntentSnapshot{
			Intent: p.Snapshot.Intent,
			Fields: copyStringMap(p.Snapshot.Fields),
		}
	}
	return clone
}

// =============================================================================
// Attempt Merging
// =============================================================================

// DefaultMaxAttempts caps the attempt counter so repeated re-asks cannot
// grow it without bound.
const DefaultMaxAttempts = 5

// Merge resolves the attempt counter for a newly requested pending
// interaction against the previous one. Resuming the same kind and key bumps
// the counter (capped); anything else resets it to 1. A cap <= 0 uses
// DefaultMaxAttempts.
//
// Implemented as a pure function over the (previous, next) pair so the merge
// rule is independently testable.
func Merge(prev, next *PendingInteraction, cap int) *PendingInteraction {
	if cap <= 0 {
		cap = DefaultMaxAttempts
	}
	merged := next.Clone()
	merged.Attempts = 1
	if prev != nil && prev.Kind == next.Kind && prev.key() == next.key() {
		merged.Attempts = prev.Attempts + 1
		if merged.Attempts > cap {
			merged.Attempts = cap
		}
	}
	return merged
}

// =============================================================================
// Resume Buffer
// =============================================================================

// ResumeBuffer holds the unsaid remainder of an answer that was too long to
// speak in one turn. A later "continue" request consumes it while fresh.
type ResumeBuffer struct {
	AnswerID  string    `json:"answer_id"`
	Topic     string    `json:"topic,omitempty"`
	Spoken    string    `json:"spoken"`
	Remainder string    `json:"remainder"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsFresh reports whether the buffer is still consumable at the given time.
func (r *ResumeBuffer) IsFresh(now time.Time) bool {
	return r != nil && now.Before(r.ExpiresAt)
}

// Clone returns a copy of the buffer.
func (r *ResumeBuffer) Clone() *ResumeBuffer {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// =============================================================================
// Cross-Turn State
// =============================================================================

// State is the complete cross-turn conversational state. Plain data: no
// handles, no shared mutable stores.
type State struct {
	Pending *PendingInteraction `json:"pending,omitempty"`
	Resume  *ResumeBuffer       `json:"resume,omitempty"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Pending: s.Pending.Clone(),
		Resume:  s.Resume.Clone(),
	}
}

// DropStaleResume removes an expired resume buffer. Applied unconditionally
// at the start of every turn, before any rule branches.
func (s *State) DropStaleResume(now time.Time) {
	if s.Resume != nil && !s.Resume.ExpiresAt.After(now) {
		s.Resume = nil
	}
}

// PendingKindString returns the pending kind for mismatch diagnostics, or
// "none" when no interaction is pending.
func (s State) PendingKindString() string {
	if s.Pending == nil {
		return "none"
	}
	return string(s.Pending.Kind)
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
