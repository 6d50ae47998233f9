package forcedalign

import "sync"

// ModelState is the lifecycle of the process-wide alignment model.
type ModelState int

const (
	// StateUninitialized means loading has not completed yet.
	StateUninitialized ModelState = iota
	// StateReady means the model loaded and requests may be served.
	StateReady
	// StateFailed means loading failed. The service keeps running so its
	// health surface can report the condition; only a process restart
	// retries the load.
	StateFailed
)

func (s ModelState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// modelHandle tracks the load-once model lifecycle. State moves from
// uninitialized to exactly one of ready or failed and never changes again.
type modelHandle struct {
	mu     sync.RWMutex
	state  ModelState
	detail string
}

func (h *modelHandle) Status() (ModelState, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.detail
}

func (h *modelHandle) markReady() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateUninitialized {
		h.state = StateReady
	}
}

func (h *modelHandle) markFailed(detail string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateUninitialized {
		h.state = StateFailed
		h.detail = detail
	}
}
