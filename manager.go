package piivault

import (
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/piivault/piivault-go/internal/hybrid"
	"github.com/piivault/piivault-go/piihash"
)

// sessionState tracks the lifecycle of a secure session. Sessions are
// created ACTIVE, pass through ROTATING during key replacement, and are
// removed by cleanup or explicit revocation.
type sessionState int

const (
	sessionActive sessionState = iota + 1
	sessionRotating
)

// secureSession is the manager-private state for one client session. The
// keypair never leaves this struct except as the combined public key.
type secureSession struct {
	mu        sync.Mutex
	id        string
	keys      *hybrid.KeyPair
	state     sessionState
	createdAt time.Time
	keysAt    time.Time
	lastUsed  time.Time
}

// touch records use. Last-writer-wins; lastUsed is not correctness-critical.
func (s *secureSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// activeKeys returns a private copy of the current keypair if the session
// is ACTIVE. The copy stays valid while a concurrent rotation wipes the
// session's own keys; the caller must wipe it with Zero when done.
func (s *secureSession) activeKeys() (*hybrid.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != sessionActive {
		return nil, ErrSessionNotActive
	}
	return s.keys.Clone(), nil
}

// publicKey returns the combined public key if the session is ACTIVE. The
// slice is never written after key generation and is safe to share.
func (s *secureSession) publicKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != sessionActive {
		return nil, ErrSessionNotActive
	}
	return s.keys.CombinedPublic, nil
}

func (s *secureSession) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == sessionActive
}

func (s *secureSession) info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		SessionID:       s.id,
		CreatedAt:       s.createdAt,
		LastUsed:        s.lastUsed,
		EncryptionLevel: EncryptionLevelHybridPQ,
	}
}

// documentSession is the manager-private state for one document under
// analysis. Subkeys are derived, held, and discarded here; they never cross
// the package boundary.
type documentSession struct {
	mu         sync.Mutex
	documentID string
	sessionID  string
	subkeys    map[string][]byte
	createdAt  time.Time
	lastAccess time.Time
	accessLog  []AccessLogEntry
}

// maxAccessLogEntries bounds a document session's access log.
const maxAccessLogEntries = 256

func (d *documentSession) logAccess(entry AccessLogEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.accessLog) >= maxAccessLogEntries {
		d.accessLog = d.accessLog[1:]
	}
	d.accessLog = append(d.accessLog, entry)
	d.lastAccess = entry.Timestamp
}

func (d *documentSession) info() DocumentSessionInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	log := make([]AccessLogEntry, len(d.accessLog))
	copy(log, d.accessLog)
	return DocumentSessionInfo{
		DocumentID:    d.documentID,
		SessionID:     d.sessionID,
		PIIEncryption: hybrid.Suite,
		CreatedAt:     d.createdAt,
		AccessLog:     log,
	}
}

// Manager owns the in-memory lifecycle of session-scoped hybrid key
// material and uses it to encrypt and decrypt transient PII payloads.
//
// All state is process-local. There is no cross-process or cross-node
// sharing of key state, and a restart discards every session.
type Manager struct {
	cfg     *managerConfig
	logger  *zap.Logger
	hasher  *piihash.Hasher
	metrics *managerMetrics
	pool    *ants.Pool

	sessions  cmap.ConcurrentMap[string, *secureSession]
	documents cmap.ConcurrentMap[string, *documentSession]

	// nowFn is replaceable in tests via setNow.
	nowMu sync.RWMutex
	nowFn func() time.Time

	mu     sync.Mutex
	closed bool
	stop   chan struct{}
	done   chan struct{}
}

func (m *Manager) now() time.Time {
	m.nowMu.RLock()
	defer m.nowMu.RUnlock()
	return m.nowFn()
}

func (m *Manager) setNow(fn func() time.Time) {
	m.nowMu.Lock()
	m.nowFn = fn
	m.nowMu.Unlock()
}

// New creates a manager and starts its cleanup task. Call [Manager.Close]
// to stop the task and discard all sessions.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	hasher := cfg.hasher
	if hasher == nil {
		peppers, err := piihash.LoadPeppersFromEnv()
		if err != nil {
			return nil, err
		}
		hasher = piihash.New(piihash.WithPeppers(peppers), piihash.WithLogger(cfg.logger))
	}

	pool, err := ants.NewPool(cfg.poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:       cfg,
		logger:    cfg.logger,
		hasher:    hasher,
		pool:      pool,
		sessions:  cmap.New[*secureSession](),
		documents: cmap.New[*documentSession](),
		nowFn:     time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	m.metrics = newManagerMetrics(cfg.registry,
		func() float64 { return float64(m.sessions.Count()) },
		func() float64 { return float64(m.documents.Count()) },
	)

	go m.runCleanup()

	return m, nil
}

// Close stops the cleanup task, releases the worker pool, and wipes all
// session key material. The manager is unusable afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.stop)
	m.mu.Unlock()

	<-m.done
	m.pool.Release()

	for t := range m.sessions.IterBuffered() {
		m.removeSession(t.Key, t.Val)
	}
	m.documents.Clear()

	m.logger.Info("pii manager closed")
}

// Hasher returns the deterministic PII hasher this manager was configured
// with. Use it to produce stable per-type digests alongside encryption.
func (m *Manager) Hasher() *piihash.Hasher {
	return m.hasher
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// InitializeSecureSession generates a fresh hybrid keypair for a client
// session. An existing session under the same id is overwritten and its key
// material wiped.
func (m *Manager) InitializeSecureSession(sessionID, ip, userAgent string) (SessionInfo, error) {
	if m.isClosed() {
		return SessionInfo{}, ErrManagerClosed
	}

	keys, err := hybrid.GenerateKeyPair()
	if err != nil {
		m.logger.Error("session key generation failed", zap.String("session_id", sessionID), zap.Error(err))
		return SessionInfo{}, &InitializationError{SessionID: sessionID, Err: err}
	}

	now := m.now()
	s := &secureSession{
		id:        sessionID,
		keys:      keys,
		state:     sessionActive,
		createdAt: now,
		keysAt:    now,
		lastUsed:  now,
	}

	if prior, ok := m.sessions.Get(sessionID); ok {
		m.removeSession(sessionID, prior)
		m.logger.Info("existing session overwritten", zap.String("session_id", sessionID))
	}
	m.sessions.Set(sessionID, s)

	m.logger.Info("secure session initialized",
		zap.String("session_id", sessionID),
		zap.String("encryption_level", EncryptionLevelHybridPQ),
	)

	return s.info(), nil
}

// RevokeSession removes a session immediately and wipes its key material.
func (m *Manager) RevokeSession(sessionID string) error {
	if m.isClosed() {
		return ErrManagerClosed
	}

	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	m.removeSession(sessionID, s)
	m.logger.Info("session revoked", zap.String("session_id", sessionID))
	return nil
}

// RotateSessionKeys replaces a session's key material in place with a
// freshly generated pair of the same algorithm family. Envelopes encrypted
// under the old keys become permanently undecryptable; callers needing
// continuity must re-encrypt before rotating.
func (m *Manager) RotateSessionKeys(sessionID string) (string, error) {
	if m.isClosed() {
		return "", ErrManagerClosed
	}

	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}

	pub, err := m.rotate(s)
	if err != nil {
		return "", err
	}

	m.logger.Info("session keys rotated", zap.String("session_id", sessionID))
	m.metrics.rotationsTotal.Inc()
	return pub, nil
}

// rotate swaps the session keypair. On failure the session keeps its
// previous keys and returns to ACTIVE.
func (m *Manager) rotate(s *secureSession) (string, error) {
	s.mu.Lock()
	if s.state != sessionActive {
		s.mu.Unlock()
		return "", ErrSessionNotActive
	}
	s.state = sessionRotating
	s.mu.Unlock()

	keys, err := hybrid.GenerateKeyPair()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = sessionActive
	if err != nil {
		m.logger.Error("key rotation failed", zap.String("session_id", s.id), zap.Error(err))
		return "", &RotationError{SessionID: s.id, Err: err}
	}

	s.keys.Zero()
	s.keys = keys
	s.keysAt = m.now()
	return keys.CombinedPublicB64, nil
}

// CleanupExpiredSessions removes sessions idle longer than the idle TTL,
// proactively rotates key material older than the rotation age, and drops
// document sessions without recent access. It runs on the cleanup timer and
// may also be called directly; it is safe alongside in-flight operations.
func (m *Manager) CleanupExpiredSessions() {
	now := m.now()

	for t := range m.sessions.IterBuffered() {
		s := t.Val
		s.mu.Lock()
		idle := now.Sub(s.lastUsed)
		keyAge := now.Sub(s.keysAt)
		state := s.state
		s.mu.Unlock()

		if idle > m.cfg.sessionIdleTTL {
			m.removeSession(t.Key, s)
			m.logger.Info("expired session removed",
				zap.String("session_id", t.Key),
				zap.Duration("idle", idle),
			)
			continue
		}

		if state == sessionActive && keyAge > m.cfg.rotationAge {
			if _, err := m.rotate(s); err != nil {
				m.logger.Error("proactive rotation failed", zap.String("session_id", t.Key), zap.Error(err))
				continue
			}
			m.metrics.rotationsTotal.Inc()
			m.logger.Info("stale session keys rotated", zap.String("session_id", t.Key))
		}
	}

	for t := range m.documents.IterBuffered() {
		d := t.Val
		d.mu.Lock()
		idle := now.Sub(d.lastAccess)
		d.mu.Unlock()

		if idle > m.cfg.documentTTL {
			m.removeDocumentSession(t.Key, d)
			m.logger.Info("expired document session removed", zap.String("document_id", t.Key))
		}
	}
}

// runCleanup drives the hourly sweep until Close.
func (m *Manager) runCleanup() {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupExpiredSessions()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) removeSession(id string, s *secureSession) {
	m.sessions.Remove(id)
	s.mu.Lock()
	if s.keys != nil {
		s.keys.Zero()
	}
	s.mu.Unlock()
}

func (m *Manager) removeDocumentSession(id string, d *documentSession) {
	m.documents.Remove(id)
	d.mu.Lock()
	for _, key := range d.subkeys {
		for i := range key {
			key[i] = 0
		}
	}
	d.mu.Unlock()
}

// runOnPool executes CPU-bound work on the bounded worker pool, falling
// back to inline execution if the pool rejects the task.
func (m *Manager) runOnPool(wg *sync.WaitGroup, task func()) {
	wg.Add(1)
	wrapped := func() {
		defer wg.Done()
		task()
	}
	if err := m.pool.Submit(wrapped); err != nil {
		wrapped()
	}
}
