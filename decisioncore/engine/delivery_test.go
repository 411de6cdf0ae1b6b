package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

func TestToolRequestID_Deterministic(t *testing.T) {
	a := ToolRequestID("conv-1", "turn-1")
	b := ToolRequestID("conv-1", "turn-1")

	assert.Equal(t, a, b, "same turn must derive the same request id")
	assert.True(t, strings.HasPrefix(a, "tool_"), "unexpected prefix: %q", a)
	assert.NotEqual(t, a, ToolRequestID("conv-1", "turn-2"), "different turns must derive different ids")
	assert.NotEqual(t, a, ToolRequestID("conv-2", "turn-1"), "different conversations must derive different ids")
}

func TestAnswerID_DistinctFromToolID(t *testing.T) {
	assert.NotEqual(t, ToolRequestID("conv-1", "turn-1"), AnswerID("conv-1", "turn-1"),
		"answer and tool ids must not collide for the same turn")
	assert.True(t, strings.HasPrefix(AnswerID("conv-1", "turn-1"), "ans_"), "answer ids carry the ans_ prefix")
}

func TestResolveDelivery(t *testing.T) {
	tests := []struct {
		name   string
		kind   directive.Kind
		policy turn.Policy
		want   turn.DeliveryHint
	}{
		{"respond default", directive.KindRespond, turn.Policy{}, turn.DeliveryAudibleText},
		{"respond privacy", directive.KindRespond, turn.Policy{PrivacyMode: true}, turn.DeliveryTextOnly},
		{"respond dnd", directive.KindRespond, turn.Policy{DoNotDisturb: true}, turn.DeliveryTextOnly},
		{"clarify privacy", directive.KindClarify, turn.Policy{PrivacyMode: true}, turn.DeliveryTextOnly},
		{"wait default", directive.KindWait, turn.Policy{}, turn.DeliverySilent},
		{"wait privacy stays silent", directive.KindWait, turn.Policy{PrivacyMode: true}, turn.DeliverySilent},
		{"dispatch default", directive.KindDispatch, turn.Policy{}, turn.DeliveryAudibleText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDelivery(tt.kind, tt.policy))
		})
	}
}
