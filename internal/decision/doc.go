// Package decision compiles decision procedures for ambiguous transitions.
//
// A state or interupt whose transitions reach several target states needs
// a runtime procedure that picks one. The compiler works on the automaton
// of the owning object:
//
//  1. Find the nearest Or vertex above the context and every target.
//  2. Enumerate the truth table of the automaton below it.
//  3. Group the targets by their test ancestor variables.
//  4. Build a tree of Selection and Boolean steps, each resolved by a
//     decider whose event signature matches the variables still open, and
//     end every branch in an Assignments leaf.
//
// Variable sets are slices of automaton vertices. Sets named sorted are
// kept in ascending AutomatonVertex.ID order; set algebra relies on it.
package decision
