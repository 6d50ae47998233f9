// Package forcedalign implements the character-level refinement
// collaborator: a WhisperX alignment engine wrapped in a service that
// enforces the operational contract (load-once model lifecycle, hard
// duration ceiling, bounded concurrency), an HTTP surface for running it
// as a sidecar, and the client the pipeline uses to call it.
//
// The pipeline treats every failure from this package as non-fatal; the
// taxonomy markers exist so skips and breakage remain distinguishable in
// logs and job records.
package forcedalign
