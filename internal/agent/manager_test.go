package agent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T, cfg ManagerConfig) *Manager {
	t.Helper()
	m := NewManager(nil, testRegistry(t), cfg)
	t.Cleanup(m.Close)
	return m
}

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	m := testManager(t, ManagerConfig{})

	first := m.GetOrCreate("abc")
	second := m.GetOrCreate("abc")
	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())
}

func TestGetOrCreateDistinctIDs(t *testing.T) {
	m := testManager(t, ManagerConfig{})

	a := m.GetOrCreate("a")
	b := m.GetOrCreate("b")
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, m.Len())
}

func TestGetOrCreateConcurrentFirstUse(t *testing.T) {
	m := testManager(t, ManagerConfig{})

	const goroutines = 32
	sessions := make([]*Session, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = m.GetOrCreate("new-session")
		}(i)
	}
	wg.Wait()

	// Concurrent first-time requests must converge on one instance.
	for i := 1; i < goroutines; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
	assert.Equal(t, 1, m.Len())
}

func TestNoEvictionByDefault(t *testing.T) {
	m := testManager(t, ManagerConfig{})

	for i := 0; i < 100; i++ {
		m.GetOrCreate(string(rune('a' + i%26)))
	}
	assert.Equal(t, 26, m.Len())
}

func TestLRUEviction(t *testing.T) {
	m := testManager(t, ManagerConfig{MaxSessions: 2})

	a := m.GetOrCreate("a")
	m.GetOrCreate("b")

	// Touch "a" so "b" becomes least recently used.
	m.GetOrCreate("a")
	m.GetOrCreate("c")

	assert.Equal(t, 2, m.Len())

	// "a" survived the eviction, "b" did not.
	assert.Same(t, a, m.GetOrCreate("a"))
	m.mu.Lock()
	_, evicted := m.sessions["b"]
	m.mu.Unlock()
	require.False(t, evicted)
}

func TestIdleEviction(t *testing.T) {
	m := testManager(t, ManagerConfig{IdleTTL: 10 * time.Millisecond})

	m.GetOrCreate("stale")
	m.GetOrCreate("fresh")

	// Only "stale" is older than the TTL at sweep time.
	m.mu.Lock()
	m.sessions["stale"].Value.(*managerEntry).lastUsed = time.Now().Add(-time.Minute)
	m.mu.Unlock()

	m.evictIdle(time.Now())

	assert.Equal(t, 1, m.Len())
	m.mu.Lock()
	_, stale := m.sessions["stale"]
	m.mu.Unlock()
	assert.False(t, stale)
}

func TestUninitializedManagerSessions(t *testing.T) {
	m := testManager(t, ManagerConfig{})

	session := m.GetOrCreate("s")
	assert.False(t, session.Ready())
}
