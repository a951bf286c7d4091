// Package derivation resolves type paths against the structural hypergraph.
//
// The flow for one derivation is:
//
//  1. Build a Spec: the starting context vertices and the path elements, each
//     a set of acceptable vertices.
//  2. Solve the Spec under a Policy. The solver explores every graph-reachable
//     interpretation and records it as a tree of Or and And steps in an Arena,
//     returning the final frontier (the Or steps that matched the last path
//     element).
//  3. Precedence annotates every edge; direct structural steps (child, dim,
//     link) outrank indirect ones.
//  4. Disambiguate prunes the tree with elimination and precedence and
//     reports Success, Ambiguous or Failure.
//
// All nodes of a pass live in one Arena and are addressed by index. Only the
// Eliminated, Backtracked and Precedence fields of edges change after
// construction.
package derivation
