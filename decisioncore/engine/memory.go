package engine

import (
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// Silent personalization is deliberately narrow: it only ever fires when the
// identity gate passes, and only with candidates that are fresh,
// low-sensitivity, high-confidence, and tagged always-usable. Everything
// else either waits for permission or is ignored.

// usableCandidate reports whether a candidate qualifies for silent use.
func (e *Engine) usableCandidate(c turn.MemoryCandidate, req *turn.Request) bool {
	return c.IsFresh(req.Now) &&
		c.Sensitivity == turn.SensitivityLow &&
		c.Confidence >= e.cfg.HighConfidenceThreshold &&
		c.UsePolicy == turn.UseAlways
}

// hasFreshSensitive reports whether any fresh candidate is sensitivity-flagged.
// Presence alone is enough to force the permission question: sensitive data is
// never silently used and never silently discarded.
func hasFreshSensitive(req *turn.Request) bool {
	for _, c := range req.Memory {
		if c.IsFresh(req.Now) && c.Sensitivity == turn.SensitivitySensitive {
			return true
		}
	}
	return false
}

// preferredNameKey is the one candidate key silent personalization reads.
const preferredNameKey = "preferred_name"

// composeChat builds the chat response text, applying silent personalization
// only when the identity context authorizes it. Composition never touches
// sensitive candidates, so a later permission decline can release the text
// unchanged.
func (e *Engine) composeChat(req *turn.Request) string {
	text := req.Understanding.Chat.Text
	if !req.Identity.AuthorizesPersonalization() {
		return text
	}
	for _, c := range req.Memory {
		if c.Key == preferredNameKey && e.usableCandidate(c, req) {
			return c.Value + ", " + text
		}
	}
	return text
}
