// Package ir defines the serializable artifact records produced by a
// compilation pass and their canonical encoding.
//
// ir imports nothing internal. Records hold only strings, int64 counters and
// Values; sequence numbers come from a logical clock, never wall time. Every
// record ID is the domain-separated SHA-256 of its canonical JSON.
package ir
