package compiler

import (
	"fmt"

	"github.com/roach88/megac/internal/graph"
)

// Validation error codes (E100-E199).
const (
	ErrUnresolvedPath        = "E100" // a type path symbol names no vertex
	ErrTransitionOnNonState  = "E101" // transitions on a context that cannot own them
	ErrDeciderNoEvents       = "E102" // decider without events
	ErrInteruptNoEvents      = "E103" // interupt with neither events nor transitions
	ErrLinkNoTargets         = "E104" // link dimension that references nothing
	ErrConcurrentNoRegions   = "E105" // concurrent context without state children
	ErrOwnershipCycle        = "E106" // objects that own each other
	ErrDeciderNonStateEvents = "E107" // decider event that names no state
)

// ValidationError is one model rule violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled model and returns every violation found.
// Ownership cycles are reported by AnalyzeOwnership and not repeated here.
func Validate(m *graph.Model) []ValidationError {
	var errs []ValidationError
	for _, obj := range m.Objects() {
		for _, c := range m.Contexts(obj) {
			errs = append(errs, validateContext(m, c)...)
		}
		for _, v := range descendants(obj) {
			if v.IsLinkDimension() && !hasLinkTargets(v) {
				errs = append(errs, ValidationError{
					Field:   v.FullName(),
					Message: "link has no targets",
					Code:    ErrLinkNoTargets,
				})
			}
		}
	}
	return errs
}

func validateContext(m *graph.Model, c *graph.Vertex) []ValidationError {
	var errs []ValidationError
	field := c.FullName()

	for _, p := range append(append([]graph.TypePath(nil), c.Transitions...), c.Events...) {
		if _, err := m.ResolvePath(p); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error(), Code: ErrUnresolvedPath})
		}
	}

	if len(c.Transitions) > 0 && !c.IsStateLike() && c.ContextKind != graph.ContextInterupt {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s context cannot declare transitions", c.ContextKind),
			Code:    ErrTransitionOnNonState,
		})
	}

	switch c.ContextKind {
	case graph.ContextDecider:
		if len(c.Events) == 0 {
			errs = append(errs, ValidationError{Field: field, Message: "decider has no events", Code: ErrDeciderNoEvents})
		}
		for _, p := range c.Events {
			if !lastSymbolIsState(m, p) {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("event %s does not name a state", p),
					Code:    ErrDeciderNonStateEvents,
				})
			}
		}
	case graph.ContextInterupt:
		if len(c.Events) == 0 && len(c.Transitions) == 0 {
			errs = append(errs, ValidationError{Field: field, Message: "interupt has neither events nor transitions", Code: ErrInteruptNoEvents})
		}
	}

	if a := c.Automaton(); a != nil && a.Kind == graph.AutomatonAnd && a.IsLeaf() {
		errs = append(errs, ValidationError{Field: field, Message: "concurrent context has no regions", Code: ErrConcurrentNoRegions})
	}
	return errs
}

func lastSymbolIsState(m *graph.Model, p graph.TypePath) bool {
	if len(p) == 0 {
		return false
	}
	for _, v := range m.ByName(p[len(p)-1]) {
		if v.IsStateLike() {
			return true
		}
	}
	return false
}

func hasLinkTargets(v *graph.Vertex) bool {
	for _, e := range v.OutEdges() {
		if e.Type.IsLinkTarget() {
			return true
		}
	}
	return false
}

func descendants(v *graph.Vertex) []*graph.Vertex {
	var out []*graph.Vertex
	for _, c := range v.Children() {
		out = append(out, c)
		out = append(out, descendants(c)...)
	}
	return out
}
