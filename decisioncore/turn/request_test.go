package turn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		CorrelationID: "conv-1",
		TurnID:        "turn-1",
		Now:           testNow,
		Session:       SessionActive,
		Understanding: &Understanding{
			Kind: UnderstandingChat,
			Chat: &ChatDraft{Text: "hello"},
		},
	}
}

func TestRequest_Validate(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestRequest_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing correlation id", func(r *Request) { r.CorrelationID = "" }},
		{"missing turn id", func(r *Request) { r.TurnID = "" }},
		{"zero now", func(r *Request) { r.Now = time.Time{} }},
		{"unknown session", func(r *Request) { r.Session = "paused" }},
		{"one-char locale", func(r *Request) { r.Locale = "e" }},
		{"answer plus understanding", func(r *Request) {
			r.Answer = &ConfirmationAnswer{Accepted: true}
		}},
		{"tool result plus understanding", func(r *Request) {
			r.ToolResult = &ToolResult{RequestID: "r", Status: ToolStatusOK}
		}},
		{"interruption plus understanding", func(r *Request) {
			r.Interruption = &Interruption{}
		}},
		{"chat without text", func(r *Request) {
			r.Understanding = &Understanding{Kind: UnderstandingChat, Chat: &ChatDraft{}}
		}},
		{"clarify without question", func(r *Request) {
			r.Understanding = &Understanding{
				Kind:    UnderstandingClarify,
				Clarify: &ClarifyDraft{MissingField: "recipient"},
			}
		}},
		{"intent without name", func(r *Request) {
			r.Understanding = &Understanding{Kind: UnderstandingIntent, Intent: &IntentDraft{Confidence: 0.9}}
		}},
		{"confidence above one", func(r *Request) {
			r.Understanding = &Understanding{
				Kind:   UnderstandingIntent,
				Intent: &IntentDraft{Name: "send_money", Confidence: 1.5},
			}
		}},
		{"understanding kind/payload mismatch", func(r *Request) {
			r.Understanding = &Understanding{Kind: UnderstandingIntent, Chat: &ChatDraft{Text: "x"}}
		}},
		{"two understanding payloads", func(r *Request) {
			r.Understanding = &Understanding{
				Kind:   UnderstandingChat,
				Chat:   &ChatDraft{Text: "x"},
				Intent: &IntentDraft{Name: "n", Confidence: 0.9},
			}
		}},
		{"memory candidate without key", func(r *Request) {
			r.Memory = []MemoryCandidate{{Value: "v", Confidence: 0.9}}
		}},
		{"memory confidence out of range", func(r *Request) {
			r.Memory = []MemoryCandidate{{Key: "k", Confidence: 1.2}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			assert.Error(t, req.Validate())
		})
	}
}

func TestToolResult_Validate(t *testing.T) {
	ok := &ToolResult{RequestID: "r", Status: ToolStatusOK}
	require.NoError(t, ok.Validate())

	tests := []struct {
		name string
		res  *ToolResult
	}{
		{"missing request id", &ToolResult{Status: ToolStatusOK}},
		{"unknown status", &ToolResult{RequestID: "r", Status: "pending"}},
		{"ambiguity without prompt", &ToolResult{
			RequestID: "r", Status: ToolStatusOK, Ambiguity: &ToolAmbiguity{Options: []string{"a"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.res.Validate())
		})
	}
}

func TestIdentity_AuthorizesPersonalization(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"text user", Identity{TextUserID: "user-1"}, true},
		{"confirmed voice", Identity{Voice: &VoiceAssertion{Match: SpeakerConfirmed}}, true},
		{"ambiguous voice", Identity{Voice: &VoiceAssertion{Match: SpeakerAmbiguous}}, false},
		{"unknown voice", Identity{Voice: &VoiceAssertion{Match: SpeakerUnknown}}, false},
		{"no identity", Identity{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.AuthorizesPersonalization())
		})
	}
}

func TestMemoryCandidate_IsFresh(t *testing.T) {
	// Zero expiry never expires.
	never := MemoryCandidate{Key: "k"}
	assert.True(t, never.IsFresh(testNow))

	expiring := MemoryCandidate{Key: "k", ExpiresAt: testNow.Add(time.Minute)}
	assert.True(t, expiring.IsFresh(testNow))
	assert.False(t, expiring.IsFresh(testNow.Add(time.Minute)), "candidate at expiry is stale")
}

func TestSessionStateFromString(t *testing.T) {
	for _, s := range []string{"active", "Active", " SUSPENDED ", "closed"} {
		_, err := SessionStateFromString(s)
		assert.NoError(t, err, "%q should parse", s)
	}

	_, err := SessionStateFromString("dormant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dormant")
}

func TestReadOnlyTool(t *testing.T) {
	tests := []struct {
		intent string
		tool   string
		ok     bool
	}{
		{IntentTimeQuery, "time", true},
		{IntentWeather, "weather", true},
		{IntentWebSearch, "web_search", true},
		{"send_money", "", false},
		{IntentContinue, "", false},
	}
	for _, tt := range tests {
		tool, ok := ReadOnlyTool(tt.intent)
		assert.Equal(t, tt.tool, tool, "ReadOnlyTool(%s)", tt.intent)
		assert.Equal(t, tt.ok, ok, "ReadOnlyTool(%s)", tt.intent)
	}
}

func TestIsResumeIntent(t *testing.T) {
	assert.True(t, IsResumeIntent(IntentContinue))
	assert.True(t, IsResumeIntent(IntentMoreDetail))
	assert.False(t, IsResumeIntent("send_money"))
	assert.False(t, IsResumeIntent(IntentWeather))
}
