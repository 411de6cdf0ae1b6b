package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRequired(t *testing.T) {
	// Test non-empty field passes.
	assert.NoError(t, Required("value", "field"))

	// Test empty field fails with a structural violation naming the field.
	err := Required("", "correlation_id")
	require.Error(t, err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "correlation_id")
}

func TestViolationCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"invalid", Invalid("session", "unknown value"), codes.InvalidArgument},
		{"mutually exclusive", MutuallyExclusive("answer", "tool_result"), codes.InvalidArgument},
		{"state mismatch", StateMismatch("answer", "none"), codes.FailedPrecondition},
		{"not found", NotFound("conversation", "conv-9"), codes.NotFound},
		{"internal", Internal("response assembly", errors.New("boom")), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
		})
	}
}

func TestIsViolation(t *testing.T) {
	assert.True(t, IsViolation(Invalid("f", "bad")))
	assert.True(t, IsViolation(StateMismatch("answer", "none")))

	// Internal failures and nil are not caller contract violations.
	assert.False(t, IsViolation(Internal("op", errors.New("boom"))))
	assert.False(t, IsViolation(nil))
}

func TestIsStateMismatch(t *testing.T) {
	assert.True(t, IsStateMismatch(StateMismatch("answer", "tool")))
	assert.False(t, IsStateMismatch(Invalid("f", "bad")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "ok", Code(nil))
	assert.Equal(t, "InvalidArgument", Code(Invalid("f", "bad")))
	assert.Equal(t, "FailedPrecondition", Code(StateMismatch("answer", "none")))
	assert.Equal(t, "unknown", Code(errors.New("plain")))
}
