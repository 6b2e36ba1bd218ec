package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

func TestRingPushOrder(t *testing.T) {
	ring := NewRing(5)
	for i := 1; i <= 3; i++ {
		ring.Push(contracts.Alert{ID: fmt.Sprintf("alert-%d", i)})
	}

	snapshot := ring.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "alert-3", snapshot[0].ID)
	assert.Equal(t, "alert-2", snapshot[1].ID)
	assert.Equal(t, "alert-1", snapshot[2].ID)
}

func TestRingEviction(t *testing.T) {
	ring := NewRing(100)
	for i := 1; i <= 101; i++ {
		ring.Push(contracts.Alert{ID: fmt.Sprintf("alert-%d", i)})
	}

	assert.Equal(t, 100, ring.Len())

	_, ok := ring.Find("alert-1")
	assert.False(t, ok, "oldest entry must be evicted")

	snapshot := ring.Snapshot()
	require.Len(t, snapshot, 100)
	assert.Equal(t, "alert-101", snapshot[0].ID)
	assert.Equal(t, "alert-2", snapshot[99].ID)
}

func TestRingFind(t *testing.T) {
	ring := NewRing(5)
	ring.Push(contracts.Alert{ID: "alert-1", Identity: "shanghai"})

	byID, ok := ring.Find("alert-1")
	require.True(t, ok)
	assert.Equal(t, "shanghai", byID.Identity)

	byIdentity, ok := ring.Find("shanghai")
	require.True(t, ok)
	assert.Equal(t, "alert-1", byIdentity.ID)

	_, ok = ring.Find("alert-2")
	assert.False(t, ok)
}

func TestRingSnapshotIsCopy(t *testing.T) {
	ring := NewRing(5)
	ring.Push(contracts.Alert{ID: "alert-1"})

	snapshot := ring.Snapshot()
	snapshot[0].ID = "mutated"

	kept, ok := ring.Find("alert-1")
	require.True(t, ok)
	assert.Equal(t, "alert-1", kept.ID)
}
