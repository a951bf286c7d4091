package pipeline

import (
	"errors"
	"fmt"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/derivation"
)

// PassError is a failure while compiling one object. Code is the code of
// the underlying derivation or decision error, or ErrCodeInternal.
type PassError struct {
	Code    string
	Object  string
	Context string
	Err     error
}

// ErrCodeInternal marks failures that carry no domain error code.
const ErrCodeInternal = "INTERNAL"

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.Context != "" && e.Context != e.Object {
		return fmt.Sprintf("%s: object %s, context %s: %v", e.Code, e.Object, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: object %s: %v", e.Code, e.Object, e.Err)
}

// Unwrap returns the underlying error.
func (e *PassError) Unwrap() error { return e.Err }

// IsPassError reports whether err wraps a PassError.
func IsPassError(err error) bool {
	var pe *PassError
	return errors.As(err, &pe)
}

// PassErrors returns every PassError in err, including those joined with
// errors.Join.
func PassErrors(err error) []*PassError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*PassError
		for _, e := range joined.Unwrap() {
			out = append(out, PassErrors(e)...)
		}
		return out
	}
	var pe *PassError
	if errors.As(err, &pe) {
		return []*PassError{pe}
	}
	return nil
}

// ErrorCode returns the domain code carried by err.
func ErrorCode(err error) string {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code
	}
	var de *derivation.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	var ce *decision.Error
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	return ErrCodeInternal
}
