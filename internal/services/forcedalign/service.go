package forcedalign

import (
	"context"
	"fmt"
	"log/slog"

	"lyricsync/internal/logging"
	"lyricsync/internal/services"
)

// Service wraps an Engine with the collaborator's operational contract:
// a load-once model with an inspectable lifecycle, a hard per-request
// duration ceiling, and a bound on concurrently in-flight alignments.
type Service struct {
	engine      Engine
	handle      modelHandle
	slots       chan struct{}
	maxDuration float64
	logger      *slog.Logger
}

// NewService wraps engine. maxDurationSeconds is the per-request audio
// ceiling; maxInFlight bounds concurrent alignments (minimum 1).
func NewService(engine Engine, maxDurationSeconds float64, maxInFlight int, logger *slog.Logger) *Service {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Service{
		engine:      engine,
		slots:       make(chan struct{}, maxInFlight),
		maxDuration: maxDurationSeconds,
		logger:      logging.NewComponentLogger(logger, "forcedalign"),
	}
}

// Start loads the model once. A load failure degrades the service to the
// failed state instead of returning an error: the process stays up so the
// health surface can report the condition.
func (s *Service) Start(ctx context.Context) {
	if err := s.engine.Load(ctx); err != nil {
		s.handle.markFailed(err.Error())
		s.logger.Error("alignment model load failed; serving degraded",
			logging.Error(err),
		)
		return
	}
	s.handle.markReady()
	s.logger.Info("alignment model ready")
}

// Status reports the model lifecycle state and, for failures, detail text.
func (s *Service) Status() (ModelState, string) {
	return s.handle.Status()
}

// Align serves one alignment request, enforcing readiness, the duration
// ceiling, and the in-flight bound. Each rejection carries a
// distinguishable marker so clients can categorize it.
func (s *Service) Align(ctx context.Context, req Request) ([]Segment, error) {
	if state, detail := s.handle.Status(); state != StateReady {
		return nil, services.Wrap(services.ErrNotReady, "forcedalign", "align", detail, nil)
	}
	if s.maxDuration > 0 && req.DurationSeconds > s.maxDuration {
		return nil, services.Wrap(services.ErrDurationExceeded, "forcedalign", "align",
			fmt.Sprintf("audio %.0fs exceeds ceiling %.0fs", req.DurationSeconds, s.maxDuration), nil)
	}
	if len(req.Lines) == 0 {
		return nil, services.Wrap(services.ErrValidation, "forcedalign", "align", "no lines to align", nil)
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	default:
		return nil, services.Wrap(services.ErrBusy, "forcedalign", "align", "all alignment slots in use", nil)
	}

	segments, err := s.engine.Align(ctx, req)
	if err != nil {
		return nil, services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "align", "", err)
	}
	s.logger.Debug("alignment complete",
		logging.Int("lines", len(req.Lines)),
		logging.Int("segments", len(segments)),
	)
	return segments, nil
}
