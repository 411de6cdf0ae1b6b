package engine

import (
	"fmt"
	"sort"
	"strings"
)

// All user-facing wording lives here. Texts are fixed so decisions stay
// byte-for-byte reproducible; internal error detail and provider identity
// never appear in any of them.

// =============================================================================
// Fixed Texts
// =============================================================================

const (
	retryApologyText = "Sorry, that didn't work just now. Could you try asking again?"
	toolFailureText  = "Sorry, I couldn't look that up right now. Want to try again in a moment?"

	memoryPermissionQuestion = "Before I answer - I have something personal saved that might be relevant. Do you want me to use it?"
	memoryDeclinePrefix      = "No problem, I'll leave that out. "

	lowConfidenceQuestion = "Sorry, I didn't quite catch that. What would you like me to do?"

	moreDetailPrefix = "In more detail: "
)

// declineText varies slightly with how often the same confirmation was asked.
func declineText(attempts int) string {
	if attempts > 1 {
		return "Understood, I'll leave it alone."
	}
	return "Okay, I won't do that."
}

// =============================================================================
// Missing-Field Selection
// =============================================================================

// Well-known field names.
const (
	fieldChoice    = "choice"
	fieldReference = "reference_target"
	fieldIntent    = "intent"
)

// FieldPriority is the fixed precedence for picking the single field to ask
// about: choice-ambiguity and reference targets outrank content fields, which
// outrank temporal fields. Exported as a slice so an injected per-tenant
// ordering stays a mechanical change.
var FieldPriority = []string{
	fieldChoice,
	fieldReference,
	"recipient",
	"contact",
	"content",
	"message",
	"amount",
	"query",
	"location",
	"datetime",
	"date",
	"time",
	"duration",
}

// primaryMissingField selects the single highest-priority missing field.
// Fields outside the priority list rank last, ordered lexicographically so
// selection stays deterministic.
func primaryMissingField(missing []string) string {
	rank := make(map[string]int, len(FieldPriority))
	for i, f := range FieldPriority {
		rank[f] = i
	}

	best := ""
	bestRank := len(FieldPriority) + 1
	for _, f := range missing {
		r, known := rank[f]
		if !known {
			r = len(FieldPriority)
		}
		if best == "" || r < bestRank || (r == bestRank && f < best) {
			best = f
			bestRank = r
		}
	}
	return best
}

// =============================================================================
// Clarify Questions and Answer Formats
// =============================================================================

var fieldQuestions = map[string]string{
	fieldChoice:    "Which one did you mean?",
	fieldReference: "What would you like me to continue with?",
	"recipient":    "Who should it go to?",
	"contact":      "Who should it go to?",
	"content":      "What should it say?",
	"message":      "What should it say?",
	"amount":       "How much?",
	"query":        "What should I look up?",
	"location":     "Where?",
	"datetime":     "When should that be?",
	"date":         "When should that be?",
	"time":         "When should that be?",
	"duration":     "For how long?",
}

func questionForField(field string) string {
	if q, ok := fieldQuestions[field]; ok {
		return q
	}
	return fmt.Sprintf("What should I use for the %s?", humanize(field))
}

var fieldFormats = map[string][]string{
	fieldChoice:    {"One of the options by name", "A position, like \"the second one\""},
	fieldReference: {"The topic you mean", "A short phrase, like \"the weather answer\""},
	fieldIntent:    {"A short rephrased request", "A single action, like \"set a timer\""},
	"recipient":    {"A contact name", "A phone number"},
	"contact":      {"A contact name", "A phone number"},
	"content":      {"The exact text to send", "A short summary of it"},
	"message":      {"The exact text to send", "A short summary of it"},
	"amount":       {"An amount, like \"$20\"", "A plain number"},
	"query":        {"A few search words", "A full question"},
	"location":     {"A city name", "A street address"},
	"datetime":     {"A time, like \"7 am\"", "A phrase, like \"tomorrow morning\""},
	"date":         {"A date, like \"March 3rd\"", "A phrase, like \"next Friday\""},
	"time":         {"A time, like \"7 am\"", "A phrase, like \"in an hour\""},
	"duration":     {"A length, like \"10 minutes\"", "An end time"},
}

var defaultFormats = []string{"A short answer", "The exact value to use"}

func formatsForField(field string) []string {
	if f, ok := fieldFormats[field]; ok {
		return f
	}
	return defaultFormats
}

// genericChoiceOptions pad a tool ambiguity that offered fewer than two real
// alternatives; the clarify contract requires 2-3 accepted answer formats.
var genericChoiceOptions = []string{"The first one", "None of those"}

// clampAnswerOptions trims ambiguity options to the configured ceiling and
// pads with generic options up to the minimum of two.
func clampAnswerOptions(options []string, max int) []string {
	out := make([]string, 0, max)
	for _, o := range options {
		if o == "" {
			continue
		}
		out = append(out, o)
		if len(out) == max {
			return out
		}
	}
	for _, g := range genericChoiceOptions {
		if len(out) >= 2 {
			break
		}
		out = append(out, g)
	}
	return out
}

// =============================================================================
// Restatements
// =============================================================================

// restatement builds the confirmation wording from already-extracted field
// values only; nothing is re-interpreted.
func restatement(intent string, fields map[string]string) string {
	switch intent {
	case "send_money":
		if amount, recipient := fields["amount"], fields["recipient"]; amount != "" && recipient != "" {
			return fmt.Sprintf("You want to send %s to %s. Is that right?", amount, recipient)
		}
	case "send_message":
		if content, recipient := fields["content"], fields["recipient"]; content != "" && recipient != "" {
			return fmt.Sprintf("You want to send %q to %s. Is that right?", content, recipient)
		}
	case "set_alarm":
		if at := firstNonEmpty(fields["datetime"], fields["time"]); at != "" {
			return fmt.Sprintf("You want an alarm at %s. Is that right?", at)
		}
	case "set_reminder":
		if content, at := fields["content"], firstNonEmpty(fields["datetime"], fields["time"]); content != "" && at != "" {
			return fmt.Sprintf("You want a reminder to %s at %s. Is that right?", content, at)
		}
	}

	text := "You want me to " + humanize(intent)
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, k := range sortedKeys(fields) {
			parts = append(parts, fmt.Sprintf("%s: %s", humanize(k), fields[k]))
		}
		text += " (" + strings.Join(parts, ", ") + ")"
	}
	return text + ". Is that right?"
}

// =============================================================================
// Tool Result Rendering
// =============================================================================

// renderToolResult turns a tool's structured values into a spoken sentence.
// Provider-agnostic and deterministic: a "summary" value is used verbatim,
// otherwise values are listed in sorted key order.
func renderToolResult(values map[string]string) string {
	if summary, ok := values["summary"]; ok && summary != "" {
		return summary
	}
	if len(values) == 0 {
		return "Done. That's taken care of."
	}
	parts := make([]string, 0, len(values))
	for _, k := range sortedKeys(values) {
		parts = append(parts, fmt.Sprintf("%s is %s", humanize(k), values[k]))
	}
	return "Here's what I found: " + strings.Join(parts, ", ") + "."
}

// =============================================================================
// Helpers
// =============================================================================

func humanize(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
