package turn

import (
	"time"

	"github.com/voxhall-labs/voicecore/decisioncore/contract"
)

// =============================================================================
// Identity and Policy Context
// =============================================================================

// VoiceAssertion is the speaker-identification result for a voice turn.
type VoiceAssertion struct {
	SpeakerID string       `json:"speaker_id,omitempty"`
	Match     SpeakerMatch `json:"match"`
}

// Identity carries who is speaking this turn: either an authenticated text
// user or a voice speaker assertion.
type Identity struct {
	TextUserID string          `json:"text_user_id,omitempty"`
	Voice      *VoiceAssertion `json:"voice,omitempty"`
}

// AuthorizesPersonalization reports whether memory may be used silently.
// A text-channel identity always authorizes; a voice identity authorizes only
// on a confirmed single-speaker assertion, never on ambiguous or unknown.
func (id Identity) AuthorizesPersonalization() bool {
	if id.TextUserID != "" {
		return true
	}
	return id.Voice != nil && id.Voice.Match == SpeakerConfirmed
}

// Policy carries the privacy and delivery flags in effect for this turn.
type Policy struct {
	PrivacyMode  bool   `json:"privacy_mode"`
	DoNotDisturb bool   `json:"do_not_disturb"`
	SafetyTier   string `json:"safety_tier,omitempty"`
}

// =============================================================================
// Memory Candidates
// =============================================================================

// MemoryCandidate is a fact the memory layer offers for this turn. The
// engine never mutates candidates; it only filters and selects.
type MemoryCandidate struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Confidence  float64     `json:"confidence"`
	Sensitivity Sensitivity `json:"sensitivity"`
	UsePolicy   UsePolicy   `json:"use_policy"`
	ExpiresAt   time.Time   `json:"expires_at,omitempty"`
}

// IsFresh reports whether the candidate is usable at the given time.
// A zero expiry means the fact does not expire.
func (c MemoryCandidate) IsFresh(now time.Time) bool {
	return c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt)
}

// =============================================================================
// Upstream Inputs (at most one per turn)
// =============================================================================

// ClarifyDraft is an upstream request to ask the user a clarifying question.
type ClarifyDraft struct {
	Question     string `json:"question"`
	MissingField string `json:"missing_field"`
}

// ChatDraft is upstream freeform conversational text.
type ChatDraft struct {
	Text string `json:"text"`
}

// IntentDraft is a structured intent extracted upstream. Fields holds only
// already-extracted values; the engine never re-interprets raw text.
type IntentDraft struct {
	Name          string            `json:"name"`
	Confidence    float64           `json:"confidence"`
	Fields        map[string]string `json:"fields,omitempty"`
	MissingFields []string          `json:"missing_fields,omitempty"`
}

// Understanding is the tagged NLU result: Kind selects the populated payload.
type Understanding struct {
	Kind    UnderstandingKind `json:"kind"`
	Clarify *ClarifyDraft     `json:"clarify,omitempty"`
	Chat    *ChatDraft        `json:"chat,omitempty"`
	Intent  *IntentDraft      `json:"intent,omitempty"`
}

// Validate checks that exactly the payload matching Kind is populated.
func (u *Understanding) Validate() error {
	n := 0
	if u.Clarify != nil {
		n++
	}
	if u.Chat != nil {
		n++
	}
	if u.Intent != nil {
		n++
	}
	if n != 1 {
		return contract.Invalid("understanding", "exactly one payload must be set")
	}
	switch u.Kind {
	case UnderstandingClarify:
		if u.Clarify == nil {
			return contract.Invalid("understanding", "kind clarify without clarify payload")
		}
		if err := contract.Required(u.Clarify.Question, "understanding.clarify.question"); err != nil {
			return err
		}
		return contract.Required(u.Clarify.MissingField, "understanding.clarify.missing_field")
	case UnderstandingChat:
		if u.Chat == nil {
			return contract.Invalid("understanding", "kind chat without chat payload")
		}
		return contract.Required(u.Chat.Text, "understanding.chat.text")
	case UnderstandingIntent:
		if u.Intent == nil {
			return contract.Invalid("understanding", "kind intent without intent payload")
		}
		if err := contract.Required(u.Intent.Name, "understanding.intent.name"); err != nil {
			return err
		}
		if u.Intent.Confidence < 0 || u.Intent.Confidence > 1 {
			return contract.Invalid("understanding.intent.confidence", "must be in [0,1]")
		}
		return nil
	default:
		return contract.Invalid("understanding.kind", "unknown kind "+string(u.Kind))
	}
}

// ToolAmbiguity is a structured disambiguation request from the tool layer.
type ToolAmbiguity struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// ToolResult is a completed tool call, correlated to the pending tool
// dispatch by RequestID.
type ToolResult struct {
	RequestID string            `json:"request_id"`
	Status    ToolStatus        `json:"status"`
	Ambiguity *ToolAmbiguity    `json:"ambiguity,omitempty"`
	Values    map[string]string `json:"values,omitempty"`
}

// Validate checks the tool result's structural contract.
func (r *ToolResult) Validate() error {
	if err := contract.Required(r.RequestID, "tool_result.request_id"); err != nil {
		return err
	}
	switch r.Status {
	case ToolStatusOK, ToolStatusFail:
	default:
		return contract.Invalid("tool_result.status", "must be ok or fail")
	}
	if r.Ambiguity != nil {
		return contract.Required(r.Ambiguity.Prompt, "tool_result.ambiguity.prompt")
	}
	return nil
}

// ConfirmationAnswer is the user's yes/no answer to an outstanding
// confirmation or memory-permission question.
type ConfirmationAnswer struct {
	Accepted bool `json:"accepted"`
}

// Interruption signals the user barged in while the assistant was speaking.
type Interruption struct {
	Source string `json:"source,omitempty"`
}

// =============================================================================
// Turn Request
// =============================================================================

// Request is everything known about the current conversational turn.
type Request struct {
	CorrelationID string       `json:"correlation_id"`
	TurnID        string       `json:"turn_id"`
	Now           time.Time    `json:"now"`
	Session       SessionState `json:"session"`
	Identity      Identity     `json:"identity"`
	Policy        Policy       `json:"policy"`

	Memory []MemoryCandidate `json:"memory,omitempty"`

	// At most one of the following four may be set per turn.
	Answer        *ConfirmationAnswer `json:"answer,omitempty"`
	Understanding *Understanding      `json:"understanding,omitempty"`
	ToolResult    *ToolResult         `json:"tool_result,omitempty"`
	Interruption  *Interruption       `json:"interruption,omitempty"`

	FailureCode string `json:"failure_code,omitempty"`
	Locale      string `json:"locale,omitempty"`
}

// Validate checks the request's structural contract. The engine fails closed
// on any violation and never silently proceeds.
func (r *Request) Validate() error {
	if err := contract.Required(r.CorrelationID, "correlation_id"); err != nil {
		return err
	}
	if err := contract.Required(r.TurnID, "turn_id"); err != nil {
		return err
	}
	if r.Now.IsZero() {
		return contract.Invalid("now", "timestamp must be set")
	}
	if _, err := SessionStateFromString(string(r.Session)); err != nil {
		return contract.Invalid("session", err.Error())
	}
	if r.Locale != "" && len(r.Locale) < 2 {
		return contract.Invalid("locale", "must be a BCP 47 tag when present")
	}

	set := make([]string, 0, 4)
	if r.Answer != nil {
		set = append(set, "answer")
	}
	if r.Understanding != nil {
		set = append(set, "understanding")
	}
	if r.ToolResult != nil {
		set = append(set, "tool_result")
	}
	if r.Interruption != nil {
		set = append(set, "interruption")
	}
	if len(set) > 1 {
		return contract.MutuallyExclusive(set...)
	}

	if r.Understanding != nil {
		if err := r.Understanding.Validate(); err != nil {
			return err
		}
	}
	if r.ToolResult != nil {
		if err := r.ToolResult.Validate(); err != nil {
			return err
		}
	}
	for _, c := range r.Memory {
		if c.Key == "" {
			return contract.Invalid("memory", "candidate key must be non-empty")
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			return contract.Invalid("memory", "candidate confidence must be in [0,1]")
		}
	}
	return nil
}
