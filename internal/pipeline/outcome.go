package pipeline

import (
	"context"
	"errors"

	"lyricsync/internal/queue"
	"lyricsync/internal/services"
)

// Reason codes recorded when the baseline is published instead of a
// refined result. They separate "skip by design" from "collaborator
// broken" for anyone reading job records or logs.
const (
	ReasonRefinementDisabled = "refinement_disabled"
	ReasonDurationExceeded   = "duration_exceeded"
	ReasonAlignerNotReady    = "aligner_not_ready"
	ReasonAlignerBusy        = "aligner_busy"
	ReasonEmptyResponse      = "empty_response"
	ReasonUnavailable        = "refinement_unavailable"
)

// Outcome records which stage produced the published timestamps, and why
// refinement did not when it did not. Purely observational: nothing
// downstream branches on it.
type Outcome struct {
	Source queue.OutcomeSource
	Reason string
	// Interpolated counts lines the mapper had to estimate. Zero for
	// baseline outcomes.
	Interpolated int
}

// Refined reports whether forced alignment produced the published result.
func (o Outcome) Refined() bool {
	return o.Source == queue.OutcomeRefined
}

// reasonFor maps an absorbed refinement failure onto its reason code.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, services.ErrDurationExceeded):
		return ReasonDurationExceeded
	case errors.Is(err, services.ErrBusy):
		return ReasonAlignerBusy
	case errors.Is(err, services.ErrNotReady):
		return ReasonAlignerNotReady
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonUnavailable
	default:
		return ReasonUnavailable
	}
}
