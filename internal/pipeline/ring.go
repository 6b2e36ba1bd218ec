package pipeline

import (
	"sync"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// DefaultHistoryCapacity bounds the in-memory alert history.
const DefaultHistoryCapacity = 100

// Ring is a capacity-bounded, most-recent-first store of completed alerts.
// Insertion is always at the front, eviction always from the back, and the
// order reflects run completion, not disruption creation.
type Ring struct {
	mu       sync.Mutex
	capacity int
	alerts   []contracts.Alert
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &Ring{capacity: capacity, alerts: make([]contracts.Alert, 0, capacity)}
}

// Push inserts at the front, evicting the oldest entry when full.
func (r *Ring) Push(alert contracts.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append(r.alerts, contracts.Alert{})
	copy(r.alerts[1:], r.alerts)
	r.alerts[0] = alert

	if len(r.alerts) > r.capacity {
		r.alerts = r.alerts[:r.capacity]
	}
}

// Find matches an alert by id or by disruption identity, most recent first.
func (r *Ring) Find(key string) (contracts.Alert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.alerts {
		if a.ID == key || a.Identity == key {
			return a, true
		}
	}
	return contracts.Alert{}, false
}

// Snapshot copies the current contents, most recent first.
func (r *Ring) Snapshot() []contracts.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]contracts.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}
