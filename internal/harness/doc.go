// Package harness runs YAML scenarios against compiled models.
//
// # Scenario Format
//
//	name: door_push
//	description: "Push decides between the open sub-states and Closed"
//	model:
//	  source: |
//	    objects: Door: contexts: { ... }
//	  # or, relative to the scenario file:
//	  # files: [door.cue]
//	derive:
//	  - context: Door.Push
//	    path: Open
//	    outcome: success
//	expect_decisions:
//	  - context: Door.Push
//	    kind: selection
//	    leaves: 3
//	expect_errors:
//	  - DERIVATION_FAILED
//
// # Assertions
//
//   - derive: the invocation path resolves from the context with the given
//     outcome (success, failure or ambiguous)
//   - expect_decisions: the context has a compiled procedure whose root step
//     has the given kind (selection, boolean or assignments) and leaf count
//   - expect_errors: every listed substring matches a pass error, and every
//     pass error is matched by some substring
//
// # Deterministic Runs
//
// Every scenario runs with a step clock and a fixed pass ID, so printed
// summaries and trees are stable across runs and can be compared against
// golden files with RunWithGolden.
package harness
