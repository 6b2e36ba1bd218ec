package alerting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidTransition = errors.New("alert status may only move forward")
)

// Notifier delivers one alert summary to one stakeholder role. It may
// block; implementations must honor the context deadline.
type Notifier interface {
	Send(ctx context.Context, role string, summary contracts.AlertSummary) error
}

// Manager is the alert stage. It creates alerts from (prediction, plan)
// pairs, fans notifications out to stakeholders and tracks resolution.
type Manager struct {
	notifier Notifier

	mu     sync.Mutex
	seq    int64
	alerts map[string]*contracts.Alert
}

func NewManager(notifier Notifier) *Manager {
	return &Manager{
		notifier: notifier,
		alerts:   make(map[string]*contracts.Alert),
	}
}

// CreateAlert builds a pending alert with a fresh monotonic id, classified
// severity and resolved stakeholders. The plan's alternative routes become
// the recommended actions.
func (m *Manager) CreateAlert(prediction contracts.DisruptionPrediction, plan contracts.OptimizationPlan) *contracts.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	alert := &contracts.Alert{
		ID:                 fmt.Sprintf("alert-%d", m.seq),
		Disruption:         prediction,
		Plan:               plan,
		Severity:           ClassifySeverity(prediction.Confidence, len(prediction.AffectedRoutes)),
		Stakeholders:       ResolveStakeholders(prediction.Confidence),
		RecommendedActions: plan.AlternativeRoutes,
		Status:             contracts.StatusPending,
		CreatedAt:          time.Now().UTC(),
	}
	m.alerts[alert.ID] = alert
	return alert
}

// Dispatch sends one notification per stakeholder, concurrently and with
// independent failure isolation. A failed send never blocks the others; the
// alert still transitions pending -> active with whatever count succeeded.
func (m *Manager) Dispatch(ctx context.Context, alert *contracts.Alert) contracts.DispatchReport {
	summary := contracts.AlertSummary{
		AlertID:     alert.ID,
		Severity:    alert.Severity,
		Type:        alert.Disruption.Type,
		Confidence:  alert.Disruption.Confidence,
		ActionCount: len(alert.RecommendedActions),
	}

	outcomes := make([]contracts.NotificationOutcome, len(alert.Stakeholders))
	var wg sync.WaitGroup
	for i, role := range alert.Stakeholders {
		wg.Add(1)
		go func(i int, role string) {
			defer wg.Done()
			outcome := contracts.NotificationOutcome{Stakeholder: role}
			if m.notifier == nil {
				outcome.Sent = true
			} else if err := m.notifier.Send(ctx, role, summary); err != nil {
				outcome.Error = err.Error()
			} else {
				outcome.Sent = true
			}
			outcomes[i] = outcome
		}(i, role)
	}
	wg.Wait()

	sent := 0
	for _, o := range outcomes {
		if o.Sent {
			sent++
		}
	}

	m.mu.Lock()
	alert.NotificationsSent = sent
	if alert.Status == contracts.StatusPending {
		alert.Status = contracts.StatusActive
	}
	m.mu.Unlock()

	return contracts.DispatchReport{AlertID: alert.ID, Outcomes: outcomes, Sent: sent}
}

// TrackResolution reports the current resolution state of an alert.
func (m *Manager) TrackResolution(alertID string) (contracts.ResolutionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[alertID]
	if !ok {
		return contracts.ResolutionStatus{}, ErrAlertNotFound
	}

	status := contracts.ResolutionStatus{
		AlertID:        alert.ID,
		Status:         alert.Status,
		CreatedAt:      alert.CreatedAt,
		ActionsPlanned: len(alert.RecommendedActions),
	}
	if alert.Status == contracts.StatusResolved && !alert.ResolvedAt.IsZero() {
		status.ResolutionTime = alert.ResolvedAt.Sub(alert.CreatedAt)
	}
	return status, nil
}

// Resolve moves an active alert to resolved. Transitions only proceed
// forward; resolving an already resolved alert or reactivating one is
// rejected.
func (m *Manager) Resolve(alertID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[alertID]
	if !ok {
		return ErrAlertNotFound
	}
	if alert.Status != contracts.StatusActive {
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, alertID, alert.Status)
	}

	alert.Status = contracts.StatusResolved
	alert.ResolvedAt = time.Now().UTC()
	return nil
}

// Get returns a copy of the alert, if known.
func (m *Manager) Get(alertID string) (contracts.Alert, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[alertID]
	if !ok {
		return contracts.Alert{}, false
	}
	return *alert, true
}
