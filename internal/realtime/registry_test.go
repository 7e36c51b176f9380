package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnection() *Connection {
	return NewConnection(&fakeConn{})
}

func TestRegistryAddAndSnapshot(t *testing.T) {
	registry := NewRegistry()

	first := newTestConnection()
	second := newTestConnection()
	third := newTestConnection()

	require.NoError(t, registry.Add(first))
	require.NoError(t, registry.Add(second))
	require.NoError(t, registry.Add(third))

	assert.Equal(t, 3, registry.Len())

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 3)
	// Snapshot preserves insertion order.
	assert.Equal(t, first.ID, snapshot[0].ID)
	assert.Equal(t, second.ID, snapshot[1].ID)
	assert.Equal(t, third.ID, snapshot[2].ID)
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	registry := NewRegistry()
	conn := newTestConnection()

	require.NoError(t, registry.Add(conn))
	err := registry.Add(conn)
	require.ErrorIs(t, err, ErrDuplicateConnection)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	conn := newTestConnection()
	require.NoError(t, registry.Add(conn))

	registry.Remove(conn.ID)
	assert.Equal(t, 0, registry.Len())

	// A second removal, and removal of an ID that was never added, are no-ops.
	registry.Remove(conn.ID)
	registry.Remove("never-added")
	assert.Equal(t, 0, registry.Len())
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	registry := NewRegistry()
	conn := newTestConnection()
	require.NoError(t, registry.Add(conn))

	snapshot := registry.Snapshot()
	registry.Remove(conn.ID)

	// Membership changes after the snapshot do not affect it.
	require.Len(t, snapshot, 1)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryReplaySequence(t *testing.T) {
	// The final membership must equal a replay of the op sequence with no
	// duplicates and no removed-before-added entries.
	registry := NewRegistry()

	conns := make([]*Connection, 10)
	for i := range conns {
		conns[i] = newTestConnection()
		require.NoError(t, registry.Add(conns[i]))
	}
	for i := 0; i < 10; i += 2 {
		registry.Remove(conns[i].ID)
	}

	expected := map[string]bool{}
	for i := 1; i < 10; i += 2 {
		expected[conns[i].ID] = true
	}

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, len(expected))
	for _, c := range snapshot {
		assert.True(t, expected[c.ID], fmt.Sprintf("unexpected member %s", c.ID))
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	const perWorker = 20
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				conn := newTestConnection()
				assert.NoError(t, registry.Add(conn))
				_ = registry.Snapshot()
				if i%2 == 0 {
					registry.Remove(conn.ID)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8*perWorker/2, registry.Len())
}
