package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Builders(t *testing.T) {
	tests := []struct {
		name string
		d    Directive
	}{
		{"respond", NewRespond("hello")},
		{"clarify", NewClarify("Who?", "recipient", []string{"A name", "A number"})},
		{"confirm", NewConfirm("You want to send $20 to Alex. Is that right?")},
		{"tool dispatch", NewToolDispatch("tool_1", "weather", map[string]string{"location": "Lisbon"})},
		{"simulation dispatch", NewSimulationDispatch("send_money", nil)},
		{"wait", NewWait("interrupted")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.d.Validate())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		d    Directive
	}{
		{"empty", Directive{}},
		{"kind without payload", Directive{Kind: KindRespond}},
		{"payload without kind", Directive{Respond: &Respond{Text: "x"}}},
		{"mismatched payload", Directive{Kind: KindRespond, Wait: &Wait{Reason: "x"}}},
		{"two payloads", Directive{
			Kind:    KindRespond,
			Respond: &Respond{Text: "x"},
			Wait:    &Wait{Reason: "x"},
		}},
		{"empty respond text", NewRespond("")},
		{"empty wait reason", NewWait("")},
		{"empty restatement", NewConfirm("")},
		{"clarify one format", NewClarify("Who?", "recipient", []string{"A name"})},
		{"clarify four formats", NewClarify("Who?", "recipient", []string{"a", "b", "c", "d"})},
		{"clarify no field", NewClarify("Who?", "", []string{"a", "b"})},
		{"dispatch both payloads", Directive{Kind: KindDispatch, Dispatch: &Dispatch{
			Tool:       &ToolRequest{RequestID: "r", Tool: "t"},
			Simulation: &SimulationCandidate{Intent: "i"},
		}}},
		{"dispatch neither payload", Directive{Kind: KindDispatch, Dispatch: &Dispatch{}}},
		{"tool dispatch without request id", NewToolDispatch("", "weather", nil)},
		{"simulation without intent", NewSimulationDispatch("", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.d.Validate())
		})
	}
}

func TestNewClarify_CopiesFormats(t *testing.T) {
	formats := []string{"A name", "A number"}
	d := NewClarify("Who?", "recipient", formats)
	formats[0] = "changed"

	assert.Equal(t, "A name", d.Clarify.AnswerFormats[0])
}
