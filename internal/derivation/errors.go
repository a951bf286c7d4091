package derivation

import (
	"errors"
	"fmt"

	"github.com/roach88/megac/internal/graph"
)

// ErrorCode categorizes derivation errors.
type ErrorCode string

const (
	// ErrCodeStructural indicates an invariant violation in the graph model,
	// such as a non-object vertex without a Parent edge.
	ErrCodeStructural ErrorCode = "STRUCTURAL_GRAPH"

	// ErrCodeDerivationFailed indicates no branch matched a required path
	// element.
	ErrCodeDerivationFailed ErrorCode = "DERIVATION_FAILED"

	// ErrCodeAmbiguous indicates disambiguation left several interpretations.
	ErrCodeAmbiguous ErrorCode = "AMBIGUOUS"

	// ErrCodeFailed indicates disambiguation eliminated every interpretation.
	ErrCodeFailed ErrorCode = "FAILED"
)

// Error is a derivation error. Tree holds the rendered derivation tree when
// one exists.
type Error struct {
	Code    ErrorCode
	Message string
	Vertex  *graph.Vertex
	Tree    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Vertex != nil {
		msg = fmt.Sprintf("%s: %s (vertex=%s)", e.Code, e.Message, e.Vertex.FullName())
	}
	if e.Tree != "" {
		msg += "\n" + e.Tree
	}
	return msg
}

// NewStructuralError creates an error for a malformed graph.
func NewStructuralError(v *graph.Vertex, format string, args ...any) *Error {
	return &Error{Code: ErrCodeStructural, Message: fmt.Sprintf(format, args...), Vertex: v}
}

// IsStructuralError reports whether err is a structural graph error.
func IsStructuralError(err error) bool {
	return hasCode(err, ErrCodeStructural)
}

// IsDerivationFailed reports whether err reports an unmatched path.
func IsDerivationFailed(err error) bool {
	return hasCode(err, ErrCodeDerivationFailed)
}

// IsAmbiguous reports whether err reports an ambiguous derivation.
func IsAmbiguous(err error) bool {
	return hasCode(err, ErrCodeAmbiguous)
}

func hasCode(err error, code ErrorCode) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// OutcomeError converts a non-success disambiguation outcome into an error
// naming the context and carrying the rendered tree.
func OutcomeError(outcome Outcome, context *graph.Vertex, tree string) error {
	switch outcome {
	case Success:
		return nil
	case Ambiguous:
		return &Error{
			Code:    ErrCodeAmbiguous,
			Message: "Derivation disambiguation was ambiguous for: " + context.FullName(),
			Tree:    tree,
		}
	default:
		return &Error{
			Code:    ErrCodeFailed,
			Message: "Derivation disambiguation failed for: " + context.FullName(),
			Tree:    tree,
		}
	}
}
