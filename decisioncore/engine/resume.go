package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/state"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// finalizeRespond builds a respond directive, splitting answers too long to
// speak in one turn. The spoken head goes out now; the remainder is parked in
// the resume buffer for a later "continue". Splits happen at sentence
// boundaries where possible, word boundaries otherwise, so the cut is
// deterministic and never mid-word.
func (e *Engine) finalizeRespond(req *turn.Request, next *state.State, text, topic string) directive.Directive {
	if utf8.RuneCountInString(text) <= e.cfg.MaxSpokenRunes {
		return directive.NewRespond(text)
	}

	spoken, remainder := splitSpoken(text, e.cfg.MaxSpokenRunes)
	if utf8.RuneCountInString(remainder) < e.cfg.MinRemainderLen {
		// A trailing scrap is not worth a follow-up turn.
		return directive.NewRespond(text)
	}

	next.Resume = &state.ResumeBuffer{
		AnswerID:  AnswerID(req.CorrelationID, req.TurnID),
		Topic:     topic,
		Spoken:    spoken,
		Remainder: remainder,
		ExpiresAt: req.Now.Add(e.cfg.ResumeTTL),
	}
	return directive.NewRespond(spoken)
}

// sentence terminators recognized by the splitter.
var sentenceEnds = []string{". ", "! ", "? "}

// splitSpoken cuts text at the latest sentence end within maxRunes, falling
// back to the latest space, falling back to a hard rune cut.
func splitSpoken(text string, maxRunes int) (spoken, remainder string) {
	head := runePrefix(text, maxRunes)

	cut := -1
	for _, end := range sentenceEnds {
		if i := strings.LastIndex(head, end); i >= 0 && i+1 > cut {
			cut = i + 1 // keep the terminator with the spoken part
		}
	}
	if cut < 0 {
		cut = strings.LastIndex(head, " ")
	}
	if cut <= 0 {
		cut = len(head)
	}

	spoken = strings.TrimRight(text[:cut], " ")
	remainder = strings.TrimLeft(text[cut:], " ")
	return spoken, remainder
}

// runePrefix returns the byte prefix of s holding at most n runes.
func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
