// Package queue persists alignment jobs in SQLite. Besides serving as the
// job ledger behind the CLI, the store is what makes the phrase-level
// baseline durable: the pipeline writes it here before refinement starts,
// so cancelling a refinement round trip never loses already-good output.
package queue
