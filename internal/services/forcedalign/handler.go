package forcedalign

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lyricsync/internal/logging"
	"lyricsync/internal/services"
)

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	State  string `json:"state"`
	Detail string `json:"detail,omitempty"`
}

// alignResponse is the body of a successful POST /align.
type alignResponse struct {
	Segments []Segment `json:"segments"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler exposes the service over HTTP. Status codes are part of the
// collaborator contract: 503 not ready, 413 over the duration ceiling,
// 429 busy, 422 invalid request, 500 engine failure.
func NewHandler(service *Service, logger *slog.Logger) http.Handler {
	logger = logging.NewComponentLogger(logger, "forcedalign-http")
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		state, detail := service.Status()
		status := http.StatusOK
		if state != StateReady {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, healthResponse{State: state.String(), Detail: detail})
	})

	mux.HandleFunc("POST /align", func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		segments, err := service.Align(r.Context(), req)
		if err != nil {
			status := statusFor(err)
			logger.Warn("align request rejected",
				logging.Int("status", status),
				logging.Error(err),
			)
			writeJSON(w, status, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, alignResponse{Segments: segments})
	})

	return mux
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrDurationExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
