// Package store provides SQLite-backed durable storage for compilation
// artifacts.
//
// The store is append-only and holds three tables:
//   - passes: one row per compilation pass, keyed by pass ID
//   - derivations: solved type paths and dispatch chains of a pass
//   - decisions: compiled decision procedures of a pass
//
// # Conventions
//
// Identity: derivation and decision IDs are content hashes computed by
// internal/ir. Writing the same record twice is a no-op
// (ON CONFLICT DO NOTHING).
//
// Ordering: all ordering uses the seq column from the pipeline's logical
// clock, never timestamps. Every read orders by seq ASC, id ASC COLLATE
// BINARY so results are identical across runs.
//
// Reuse: LatestPassForModel finds the newest succeeded pass for a model
// hash, letting callers skip recompiling an unchanged model.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
