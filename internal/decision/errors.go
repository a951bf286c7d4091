package decision

import (
	"errors"
	"fmt"

	"github.com/roach88/megac/internal/graph"
)

// ErrorCode categorizes decision compilation errors.
type ErrorCode string

const (
	// ErrCodeDeciderResolution indicates no decider matches the variables
	// of a non-singular choice.
	ErrCodeDeciderResolution ErrorCode = "DECIDER_RESOLUTION"

	// ErrCodeTruthTableExhaustion indicates no truth table row is compatible
	// with a partial assignment.
	ErrCodeTruthTableExhaustion ErrorCode = "TRUTH_TABLE_EXHAUSTION"

	// ErrCodeNoCommonAncestor indicates the context and its targets share no
	// usable ancestor state.
	ErrCodeNoCommonAncestor ErrorCode = "NO_COMMON_ANCESTOR"

	// ErrCodeInvalidTransition indicates a transition derivation with zero
	// or several targets, or a target that is not a state.
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// ErrCodeInconsistentAssignment indicates a branch that assigns two
	// alternatives of the same Or.
	ErrCodeInconsistentAssignment ErrorCode = "INCONSISTENT_ASSIGNMENT"
)

// Error is a decision compilation error for one context.
type Error struct {
	Code    ErrorCode
	Message string
	Context *graph.Vertex
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, context *graph.Vertex, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Context: context}
}

// IsDeciderResolution reports whether err is a decider resolution error.
func IsDeciderResolution(err error) bool {
	return hasCode(err, ErrCodeDeciderResolution)
}

// IsTruthTableExhaustion reports whether err is a truth table exhaustion
// error.
func IsTruthTableExhaustion(err error) bool {
	return hasCode(err, ErrCodeTruthTableExhaustion)
}

// IsInvalidTransition reports whether err reports a malformed transition.
func IsInvalidTransition(err error) bool {
	return hasCode(err, ErrCodeInvalidTransition)
}

// IsNoCommonAncestor reports whether err is a missing-ancestor error.
func IsNoCommonAncestor(err error) bool {
	return hasCode(err, ErrCodeNoCommonAncestor)
}

func hasCode(err error, code ErrorCode) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
