// Package pipeline sequences transcription, phrase alignment, and
// optional forced-alignment refinement into one run per song.
//
// The first two stages are load-bearing: if either fails the job fails.
// Refinement is strictly best-effort. The phrase-level baseline is
// rendered and persisted before any refinement attempt, and every
// refinement failure mode, from an unreachable service to an empty
// response, publishes that baseline with a reason code instead of
// failing the job.
package pipeline
