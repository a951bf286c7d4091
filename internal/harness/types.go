package harness

import "github.com/roach88/megac/internal/pipeline"

// QueryResult is one resolved derive query.
type QueryResult struct {
	Context string `json:"context"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`

	// Tree is the printed derivation with eliminated edges shown. Empty
	// when the query could not be resolved at all.
	Tree string `json:"tree,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	// Errors lists the failed expectations.
	Errors []string `json:"errors,omitempty"`

	// Actual lists the load and pass errors the run produced, in object
	// order.
	Actual []string `json:"actual,omitempty"`

	Queries []QueryResult `json:"queries"`

	// Pipeline is nil when the model failed to load.
	Pipeline *pipeline.Result `json:"-"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Errors:  []string{},
		Queries: []QueryResult{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
