// Package contract provides structural-contract validation helpers for the
// turn boundary.
//
// Every input crossing into the decision engine is validated here before any
// rule runs, so engine code contains only decision logic. The engine fails
// closed: a contract violation means no directive is produced at all.
//
// Error builders return gRPC status errors so violations carry stable,
// machine-readable codes across the orchestrator boundary.
package contract

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// =============================================================================
// FIELD VALIDATION
// =============================================================================

// Required checks that a field is non-empty.
// Returns a gRPC InvalidArgument error if empty.
func Required(field, fieldName string) error {
	if field == "" {
		return status.Errorf(codes.InvalidArgument, "%s is required", fieldName)
	}
	return nil
}

// =============================================================================
// VIOLATION BUILDERS
// =============================================================================
//
// Two violation classes exist at the turn boundary:
//   - structural violations: a malformed request or directive (InvalidArgument)
//   - state mismatches: an answer or tool result that does not correspond to
//     the pending interaction (FailedPrecondition) - a coordination bug, never
//     a recoverable case

// Invalid returns a structural-contract violation for a malformed field.
func Invalid(fieldName, detail string) error {
	return status.Errorf(codes.InvalidArgument, "%s invalid: %s", fieldName, detail)
}

// MutuallyExclusive reports more than one of the per-turn optional inputs set.
func MutuallyExclusive(fields ...string) error {
	return status.Errorf(codes.InvalidArgument,
		"at most one of %v may be set per turn", fields)
}

// StateMismatch reports an input that does not match the pending interaction.
func StateMismatch(input, pendingKind string) error {
	return status.Errorf(codes.FailedPrecondition,
		"%s arrived but pending interaction is %s", input, pendingKind)
}

// NotFound reports a referenced resource that does not exist.
func NotFound(resourceType, id string) error {
	return status.Errorf(codes.NotFound, "%s not found: %s", resourceType, id)
}

// Internal wraps an unexpected internal failure with context.
func Internal(operation string, cause error) error {
	return status.Errorf(codes.Internal, "%s failed: %v", operation, cause)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// IsViolation reports whether err is any contract violation.
func IsViolation(err error) bool {
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return true
	default:
		return false
	}
}

// IsStateMismatch reports whether err is a state-mismatch violation.
func IsStateMismatch(err error) bool {
	s, ok := status.FromError(err)
	return ok && s.Code() == codes.FailedPrecondition
}

// Code returns the violation code string for metrics labels, or "ok" for nil.
func Code(err error) string {
	if err == nil {
		return "ok"
	}
	s, ok := status.FromError(err)
	if !ok {
		return "unknown"
	}
	return s.Code().String()
}
