package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
)

// Scenario is one model plus the expectations checked against its
// compilation.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Model       ModelSource `yaml:"model"`

	// Derive lists invocation paths to resolve after the pass.
	Derive []DeriveQuery `yaml:"derive,omitempty"`

	ExpectDecisions []ExpectDecision `yaml:"expect_decisions,omitempty"`

	// ExpectErrors lists substrings of the pass errors. A scenario without
	// it expects a clean pass.
	ExpectErrors []string `yaml:"expect_errors,omitempty"`
}

// ModelSource is either inline CUE or a list of CUE files of one package.
// File paths are relative to the scenario file.
type ModelSource struct {
	Source string   `yaml:"source,omitempty"`
	Files  []string `yaml:"files,omitempty"`
}

// DeriveQuery resolves Path from Context with the invocation policy.
type DeriveQuery struct {
	Context string `yaml:"context"`
	Path    string `yaml:"path"`
	Outcome string `yaml:"outcome"`
}

// ExpectDecision checks the compiled procedure of a transition context.
type ExpectDecision struct {
	Context string `yaml:"context"`
	Kind    string `yaml:"kind"`
	Leaves  int    `yaml:"leaves"`
}

// Decision step kinds.
const (
	KindSelection   = "selection"
	KindBoolean     = "boolean"
	KindAssignments = "assignments"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected, and model files are resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i, f := range s.Model.Files {
		if !filepath.IsAbs(f) {
			s.Model.Files[i] = filepath.Join(base, f)
		}
	}
	for _, f := range s.Model.Files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: model file not found: %s", f)
		}
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Model.Source == "" && len(s.Model.Files) == 0:
		return fmt.Errorf("model requires source or files")
	case s.Model.Source != "" && len(s.Model.Files) > 0:
		return fmt.Errorf("model takes source or files, not both")
	}

	if len(s.Derive) == 0 && len(s.ExpectDecisions) == 0 && len(s.ExpectErrors) == 0 {
		return fmt.Errorf("at least one of derive, expect_decisions or expect_errors is required")
	}

	for i, q := range s.Derive {
		if q.Context == "" {
			return fmt.Errorf("derive[%d]: context is required", i)
		}
		if _, err := graph.ParseTypePath(q.Path); err != nil {
			return fmt.Errorf("derive[%d]: %w", i, err)
		}
		if _, ok := derivation.ParseOutcome(q.Outcome); !ok {
			return fmt.Errorf("derive[%d]: unknown outcome %q", i, q.Outcome)
		}
	}

	for i, d := range s.ExpectDecisions {
		if d.Context == "" {
			return fmt.Errorf("expect_decisions[%d]: context is required", i)
		}
		switch d.Kind {
		case KindSelection, KindBoolean, KindAssignments:
		default:
			return fmt.Errorf("expect_decisions[%d]: unknown kind %q", i, d.Kind)
		}
		if d.Leaves < 1 {
			return fmt.Errorf("expect_decisions[%d]: leaves must be at least 1", i)
		}
	}

	for i, e := range s.ExpectErrors {
		if e == "" {
			return fmt.Errorf("expect_errors[%d]: must not be empty", i)
		}
	}
	return nil
}
