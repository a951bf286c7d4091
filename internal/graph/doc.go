// Package graph provides the structural hypergraph consumed by derivation
// and decision compilation.
//
// A Model is built once (by the CUE front-end or by test fixtures) through a
// Builder and is read-only afterwards. It is safe to share between goroutines
// compiling different objects.
//
// Vertices are contexts (objects, actions, states, events, interupts,
// deciders, namespaces, functions), dimensions, bitsets and links. Every
// non-object vertex has exactly one Parent edge, so Parent edges form a forest
// rooted at objects. Structural edges are always created in pairs: the child
// gets a Parent edge and the parent gets the matching ChildSingular,
// ChildNonSingular, Dim or Link edge.
//
// State-like contexts (objects, actions, states) additionally own an
// AutomatonVertex. The automaton of an object is an AND/OR tree: the children
// of an Or are mutually exclusive alternatives ("variables") and the children
// of an And hold concurrently.
package graph
