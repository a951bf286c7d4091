// Package pipeline compiles every object of a model into derivations,
// event dispatches, a truth table and decision procedures.
//
// Objects are independent, so each one is compiled as a unit on a bounded
// worker pool. Artifact sequence numbers are stamped after all units finish,
// in object declaration order, so a pass over the same model with a fresh
// clock always yields the same records.
package pipeline
