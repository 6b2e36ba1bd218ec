package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// Predictor is the prediction stage seen by the coordinator.
type Predictor interface {
	Predict(ctx context.Context, bundle contracts.SignalBundle) (contracts.DisruptionPrediction, error)
}

// Optimizer is the optimization stage seen by the coordinator.
type Optimizer interface {
	Optimize(ctx context.Context, prediction contracts.DisruptionPrediction) (contracts.OptimizationPlan, error)
}

// Alerter is the alert stage seen by the coordinator.
type Alerter interface {
	CreateAlert(prediction contracts.DisruptionPrediction, plan contracts.OptimizationPlan) *contracts.Alert
	Dispatch(ctx context.Context, alert *contracts.Alert) contracts.DispatchReport
}

// Subscriber receives completed alerts. Publish is fire-and-forget: the
// coordinator does not retry failed deliveries.
type Subscriber interface {
	Publish(alert contracts.Alert)
}

// Metrics is a point-in-time view of coordinator counters.
type Metrics struct {
	Accepted  int64 `json:"runs_accepted"`
	Delivered int64 `json:"runs_delivered"`
	Failed    int64 `json:"runs_failed"`
	InFlight  int   `json:"runs_in_flight"`
	History   int   `json:"history_size"`
}

// Coordinator sequences the three stages per disruption, enforces
// at-most-one in-flight run per identity, owns the bounded history ring and
// broadcasts completed alerts in completion order.
type Coordinator struct {
	predictor Predictor
	optimizer Optimizer
	alerter   Alerter

	mu       sync.Mutex
	inflight map[string]*RunHandle

	ring *Ring

	subMu       sync.RWMutex
	subscribers []Subscriber

	// deliverMu serializes ring pushes and broadcasts so one run's
	// completion never interleaves with another's.
	deliverMu sync.Mutex

	accepted  atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

func NewCoordinator(predictor Predictor, optimizer Optimizer, alerter Alerter, historyCapacity int) *Coordinator {
	return &Coordinator{
		predictor: predictor,
		optimizer: optimizer,
		alerter:   alerter,
		inflight:  make(map[string]*RunHandle),
		ring:      NewRing(historyCapacity),
	}
}

// Subscribe registers a broadcast target for future completions.
func (c *Coordinator) Subscribe(s Subscriber) {
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, s)
	c.subMu.Unlock()
}

// Submit accepts a signal bundle for the given identity. An identity with a
// run already in flight is rejected immediately with ErrDuplicateRun, never
// queued. A zero deadline means no timeout.
func (c *Coordinator) Submit(signals contracts.SignalBundle, identity string, deadline time.Time) (*RunHandle, error) {
	runCtx := context.Background()
	var cancel context.CancelFunc
	if deadline.IsZero() {
		runCtx, cancel = context.WithCancel(runCtx)
	} else {
		runCtx, cancel = context.WithDeadline(runCtx, deadline)
	}

	handle := newRunHandle(identity, cancel)

	c.mu.Lock()
	if _, exists := c.inflight[identity]; exists {
		c.mu.Unlock()
		cancel()
		return nil, ErrDuplicateRun
	}
	c.inflight[identity] = handle
	c.mu.Unlock()

	c.accepted.Add(1)
	go c.run(runCtx, handle, signals)

	return handle, nil
}

// run executes the stages strictly in order. Cancellation and deadlines are
// checked between stages so no stage starts after the run is dead.
func (c *Coordinator) run(ctx context.Context, handle *RunHandle, signals contracts.SignalBundle) {
	defer handle.cancel()

	handle.setState(StatePredicting)
	prediction, err := c.predictor.Predict(ctx, signals)
	if err != nil {
		c.fail(handle, &StageError{Stage: "prediction", Err: err})
		return
	}
	if err := ctx.Err(); err != nil {
		c.fail(handle, err)
		return
	}

	handle.setState(StateOptimizing)
	plan, err := c.optimizer.Optimize(ctx, prediction)
	if err != nil {
		c.fail(handle, &StageError{Stage: "optimization", Err: err})
		return
	}
	if err := ctx.Err(); err != nil {
		c.fail(handle, err)
		return
	}

	handle.setState(StateAlerting)
	alert := c.alerter.CreateAlert(prediction, plan)
	alert.Identity = handle.identity

	// Notification failures reduce the sent count but never fail the run.
	report := c.alerter.Dispatch(ctx, alert)
	if report.Sent < len(alert.Stakeholders) {
		log.Printf("pipeline %s: %d/%d notifications sent for %s",
			handle.identity, report.Sent, len(alert.Stakeholders), alert.ID)
	}
	if err := ctx.Err(); err != nil {
		c.fail(handle, err)
		return
	}

	c.complete(handle, *alert)
}

// complete pushes to history and broadcasts, in that order, before the
// identity leaves the registry. deliverMu makes completion order the
// authoritative sequence subscribers observe.
func (c *Coordinator) complete(handle *RunHandle, alert contracts.Alert) {
	c.deliverMu.Lock()
	c.ring.Push(alert)
	c.subMu.RLock()
	subs := make([]Subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.subMu.RUnlock()
	for _, s := range subs {
		s.Publish(alert)
	}
	c.deliverMu.Unlock()

	handle.deliver(alert)
	c.remove(handle.identity)
	c.delivered.Add(1)
	close(handle.done)
}

// fail records the failure, releases the identity and leaves history and
// the broadcast stream untouched.
func (c *Coordinator) fail(handle *RunHandle, err error) {
	failure := Failure{
		Identity: handle.identity,
		Stage:    string(handle.State()),
		Reason:   err.Error(),
		Timeout:  errors.Is(err, context.DeadlineExceeded),
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		failure.Stage = stageErr.Stage
	}

	handle.fail(failure)
	c.remove(handle.identity)
	c.failed.Add(1)
	close(handle.done)
	log.Printf("pipeline %s failed at %s: %s", failure.Identity, failure.Stage, failure.Reason)
}

func (c *Coordinator) remove(identity string) {
	c.mu.Lock()
	delete(c.inflight, identity)
	c.mu.Unlock()
}

// Cancel stops an in-flight run before its next stage begins. The identity
// is released by the run goroutine exactly once.
func (c *Coordinator) Cancel(identity string) error {
	c.mu.Lock()
	handle, ok := c.inflight[identity]
	c.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	handle.cancel()
	return nil
}

// Query finds a completed alert by alert id or disruption identity.
func (c *Coordinator) Query(key string) (contracts.Alert, error) {
	if alert, ok := c.ring.Find(key); ok {
		return alert, nil
	}
	return contracts.Alert{}, ErrNotFound
}

// History snapshots the ring, most recent completion first.
func (c *Coordinator) History() []contracts.Alert {
	return c.ring.Snapshot()
}

// Metrics reports coordinator counters.
func (c *Coordinator) Metrics() Metrics {
	c.mu.Lock()
	inflight := len(c.inflight)
	c.mu.Unlock()

	return Metrics{
		Accepted:  c.accepted.Load(),
		Delivered: c.delivered.Load(),
		Failed:    c.failed.Load(),
		InFlight:  inflight,
		History:   c.ring.Len(),
	}
}
