package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/OER-Club/CS39AE-Fall25/internal/dashboard"
	"github.com/OER-Club/CS39AE-Fall25/internal/edges"
)

// Session is one browser session's server-side state: the crypto page
// state machine plus the currently loaded edge table. State is never
// ambient: handlers receive the session explicitly and serialize access
// through its mutex. Pruning a session destroys its history.
type Session struct {
	ID string

	mu       sync.Mutex
	lastSeen time.Time

	Crypto *dashboard.CryptoState
	Page   *dashboard.CryptoPage

	Edges      []edges.Record
	EdgeSource string
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Factory builds a fresh session, wiring its own memoized price source so
// the TTL cache stays session-scoped.
type Factory func(id string) *Session

type Manager struct {
	factory Factory
	idleTTL time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	running  bool
	stopCh   chan struct{}
}

func NewManager(factory Factory, idleTTL time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		factory:  factory,
		idleTTL:  idleTTL,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// NewID returns a fresh random session identifier.
func NewID() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Get returns the session for id, creating it on first sight, and marks
// it as recently used.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = m.factory(id)
		s.ID = id
		m.sessions[id] = s
		m.log.Info("session created", zap.String("session", id))
	}
	s.lastSeen = m.now()
	return s
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Start launches the idle-session pruner.
func (m *Manager) Start(interval time.Duration) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stop := m.stopCh
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.prune()
			}
		}
	}()
}

func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

func (m *Manager) prune() {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.log.Info("idle session pruned", zap.String("session", id))
		}
	}
}
