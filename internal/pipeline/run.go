package pipeline

import (
	"context"
	"sync"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// RunState tracks a run through the pipeline. Failed is reachable from any
// non-terminal state.
type RunState string

const (
	StateIdle       RunState = "idle"
	StatePredicting RunState = "predicting"
	StateOptimizing RunState = "optimizing"
	StateAlerting   RunState = "alerting"
	StateDelivered  RunState = "delivered"
	StateFailed     RunState = "failed"
)

// RunHandle is the caller's view of one accepted submission. Done closes
// when the run terminates; exactly one of Alert or Failure is set then.
type RunHandle struct {
	identity string
	cancel   context.CancelFunc
	done     chan struct{}

	mu      sync.Mutex
	state   RunState
	alert   *contracts.Alert
	failure *Failure
}

func newRunHandle(identity string, cancel context.CancelFunc) *RunHandle {
	return &RunHandle{
		identity: identity,
		cancel:   cancel,
		done:     make(chan struct{}),
		state:    StateIdle,
	}
}

func (h *RunHandle) Identity() string { return h.identity }

// Done closes when the run has delivered or failed.
func (h *RunHandle) Done() <-chan struct{} { return h.done }

func (h *RunHandle) State() RunState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Alert returns the delivered alert, if the run succeeded.
func (h *RunHandle) Alert() (contracts.Alert, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.alert == nil {
		return contracts.Alert{}, false
	}
	return *h.alert, true
}

// Failure returns the failure record, if the run failed.
func (h *RunHandle) Failure() (Failure, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failure == nil {
		return Failure{}, false
	}
	return *h.failure, true
}

func (h *RunHandle) setState(s RunState) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

func (h *RunHandle) deliver(alert contracts.Alert) {
	h.mu.Lock()
	h.state = StateDelivered
	h.alert = &alert
	h.mu.Unlock()
}

func (h *RunHandle) fail(f Failure) {
	h.mu.Lock()
	h.state = StateFailed
	h.failure = &f
	h.mu.Unlock()
}
