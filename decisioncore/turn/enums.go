// Package turn defines the turn request/response data model consumed and
// produced by the decision engine.
package turn

import (
	"fmt"
	"strings"
)

// SessionState represents the conversation's session lifecycle state.
type SessionState string

const (
	// SessionActive indicates the session accepts conversational turns.
	SessionActive SessionState = "active"
	// SessionSuspended indicates the session is paused; the assistant stays silent.
	SessionSuspended SessionState = "suspended"
	// SessionClosed indicates the session has ended.
	SessionClosed SessionState = "closed"
)

// IsActive reports whether conversational turns may produce audible output.
func (s SessionState) IsActive() bool {
	return s == SessionActive
}

// SessionStateFromString parses a session state string.
func SessionStateFromString(value string) (SessionState, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active":
		return SessionActive, nil
	case "suspended":
		return SessionSuspended, nil
	case "closed":
		return SessionClosed, nil
	default:
		return "", fmt.Errorf("invalid session state '%s'. Must be one of: active, suspended, closed", value)
	}
}

// SpeakerMatch represents the outcome of a voice speaker assertion.
type SpeakerMatch string

const (
	// SpeakerConfirmed indicates a confirmed single-speaker match.
	SpeakerConfirmed SpeakerMatch = "confirmed"
	// SpeakerAmbiguous indicates multiple plausible speakers.
	SpeakerAmbiguous SpeakerMatch = "ambiguous"
	// SpeakerUnknown indicates no recognized speaker.
	SpeakerUnknown SpeakerMatch = "unknown"
)

// Sensitivity classifies how freely a memory candidate may be used.
type Sensitivity string

const (
	// SensitivityLow marks data safe for silent personalization.
	SensitivityLow Sensitivity = "low"
	// SensitivitySensitive marks personal data requiring explicit permission.
	SensitivitySensitive Sensitivity = "sensitive"
)

// UsePolicy tags how a memory candidate may be applied.
type UsePolicy string

const (
	// UseAlways allows silent use whenever the identity gate passes.
	UseAlways UsePolicy = "always"
	// UseAskFirst requires an explicit permission question before use.
	UseAskFirst UsePolicy = "ask_first"
	// UseNever forbids use entirely.
	UseNever UsePolicy = "never"
)

// UnderstandingKind represents the shape of the upstream NLU result.
type UnderstandingKind string

const (
	// UnderstandingClarify passes through an upstream clarifying question.
	UnderstandingClarify UnderstandingKind = "clarify"
	// UnderstandingChat is freeform conversational text.
	UnderstandingChat UnderstandingKind = "chat"
	// UnderstandingIntent is a structured intent draft.
	UnderstandingIntent UnderstandingKind = "intent"
)

// ToolStatus represents the outcome of a completed tool call.
type ToolStatus string

const (
	// ToolStatusOK indicates the tool produced a usable result.
	ToolStatusOK ToolStatus = "ok"
	// ToolStatusFail indicates the tool failed.
	ToolStatusFail ToolStatus = "fail"
)

// DeliveryHint tells the delivery layer which channel to use.
type DeliveryHint string

const (
	// DeliverySilent produces no user-visible output.
	DeliverySilent DeliveryHint = "silent"
	// DeliveryTextOnly suppresses speech (privacy mode / do-not-disturb).
	DeliveryTextOnly DeliveryHint = "text_only"
	// DeliveryAudibleText speaks and shows the output.
	DeliveryAudibleText DeliveryHint = "audible_text"
)

// =============================================================================
// Intents
// =============================================================================

// Well-known intent names the engine treats specially. All other intent names
// flow through the impactful-intent confirmation path.
const (
	IntentContinue   = "continue"
	IntentMoreDetail = "more_detail"
	IntentTimeQuery  = "time_query"
	IntentWeather    = "weather_query"
	IntentWebSearch  = "web_search"
)

// readOnlyTools maps read-only query intents to the tool that serves them.
var readOnlyTools = map[string]string{
	IntentTimeQuery: "time",
	IntentWeather:   "weather",
	IntentWebSearch: "web_search",
}

// ReadOnlyTool returns the tool name serving a read-only query intent, or
// false for impactful intents.
func ReadOnlyTool(intent string) (string, bool) {
	tool, ok := readOnlyTools[intent]
	return tool, ok
}

// IsResumeIntent reports whether the intent consumes the resume buffer.
func IsResumeIntent(intent string) bool {
	return intent == IntentContinue || intent == IntentMoreDetail
}

// =============================================================================
// Reason Codes
// =============================================================================

// ReasonCode records which cascade rule produced the directive.
type ReasonCode string

const (
	ReasonSessionInactive     ReasonCode = "session_inactive"
	ReasonInterrupted         ReasonCode = "interrupted"
	ReasonToolAmbiguity       ReasonCode = "tool_ambiguity"
	ReasonToolSuccess         ReasonCode = "tool_success"
	ReasonToolFailure         ReasonCode = "tool_failure"
	ReasonConfirmAccepted     ReasonCode = "confirm_accepted"
	ReasonConfirmDeclined     ReasonCode = "confirm_declined"
	ReasonMemoryReleased      ReasonCode = "memory_released"
	ReasonMemoryWithheld      ReasonCode = "memory_withheld"
	ReasonPriorFailure        ReasonCode = "prior_failure"
	ReasonClarifyPassthrough  ReasonCode = "clarify_passthrough"
	ReasonChat                ReasonCode = "chat"
	ReasonMemoryPermission    ReasonCode = "memory_permission_requested"
	ReasonResumeContinued     ReasonCode = "resume_continued"
	ReasonResumeMissing       ReasonCode = "resume_missing"
	ReasonLowConfidence       ReasonCode = "low_confidence"
	ReasonMissingField        ReasonCode = "missing_field"
	ReasonToolDispatched      ReasonCode = "tool_dispatched"
	ReasonConfirmationWanted  ReasonCode = "confirmation_requested"
)
