package agent

import (
	"container/list"
	"sync"
	"time"

	"github.com/taskhub-ai/taskhub/internal/logging"
	"github.com/taskhub-ai/taskhub/internal/provider"
	"github.com/taskhub-ai/taskhub/internal/tool"
)

// ManagerConfig configures session retention. Zero values disable eviction,
// keeping every session for the process lifetime.
type ManagerConfig struct {
	// MaxSessions caps live sessions; exceeding it evicts the least
	// recently used session.
	MaxSessions int

	// IdleTTL expires sessions not used for longer than this duration.
	IdleTTL time.Duration

	// SweepInterval controls how often idle sessions are collected.
	// Defaults to one minute when IdleTTL is set.
	SweepInterval time.Duration
}

// Manager maps opaque session ids to agent sessions. Get-or-create is atomic
// per key: concurrent first-time requests for the same unseen id converge on
// a single constructed session.
type Manager struct {
	provider provider.Provider // nil when the agent feature is disabled
	tools    *tool.Registry
	config   ManagerConfig

	mu       sync.Mutex
	sessions map[string]*list.Element
	order    *list.List // least recently used at the front

	stopOnce sync.Once
	stopCh   chan struct{}
}

type managerEntry struct {
	session  *Session
	lastUsed time.Time
}

// NewManager creates a session manager. prov may be nil; sessions are then
// constructed uninitialized and answer every message with a fixed sentinel.
func NewManager(prov provider.Provider, tools *tool.Registry, cfg ManagerConfig) *Manager {
	m := &Manager{
		provider: prov,
		tools:    tools,
		config:   cfg,
		sessions: make(map[string]*list.Element),
		order:    list.New(),
		stopCh:   make(chan struct{}),
	}

	if cfg.IdleTTL > 0 {
		interval := cfg.SweepInterval
		if interval <= 0 {
			interval = time.Minute
		}
		go m.sweep(interval)
	}

	return m
}

// GetOrCreate returns the session for the given id, constructing it on first
// use. Exactly one session per distinct id is ever constructed while the id
// remains resident.
func (m *Manager) GetOrCreate(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	if el, ok := m.sessions[sessionID]; ok {
		entry := el.Value.(*managerEntry)
		entry.lastUsed = now
		m.order.MoveToBack(el)
		return entry.session
	}

	session := NewSession(sessionID, m.provider, m.tools)
	el := m.order.PushBack(&managerEntry{session: session, lastUsed: now})
	m.sessions[sessionID] = el

	logging.Info().Str("session", sessionID).Bool("ready", session.Ready()).Msg("agent session created")

	if m.config.MaxSessions > 0 {
		for len(m.sessions) > m.config.MaxSessions {
			m.evictOldestLocked()
		}
	}

	return session
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the background idle sweeper.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// evictOldestLocked removes the least recently used session. Callers hold mu.
func (m *Manager) evictOldestLocked() {
	el := m.order.Front()
	if el == nil {
		return
	}
	entry := m.order.Remove(el).(*managerEntry)
	delete(m.sessions, entry.session.ID())
	logging.Info().Str("session", entry.session.ID()).Msg("agent session evicted (capacity)")
}

// sweep periodically expires sessions idle for longer than IdleTTL.
func (m *Manager) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.evictIdle(time.Now())
		}
	}
}

// evictIdle removes sessions whose last use is older than IdleTTL.
func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		el := m.order.Front()
		if el == nil {
			return
		}
		entry := el.Value.(*managerEntry)
		if now.Sub(entry.lastUsed) < m.config.IdleTTL {
			return
		}
		m.order.Remove(el)
		delete(m.sessions, entry.session.ID())
		logging.Info().Str("session", entry.session.ID()).Msg("agent session evicted (idle)")
	}
}
