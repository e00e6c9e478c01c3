package piivault

import "github.com/piivault/piivault-go/internal/hybrid"

// SecurityStatus returns a point-in-time snapshot of the manager's state.
// It never includes key material.
func (m *Manager) SecurityStatus() SecurityStatus {
	sessions := make([]SessionInfo, 0, m.sessions.Count())
	for t := range m.sessions.IterBuffered() {
		sessions = append(sessions, t.Val.info())
	}

	return SecurityStatus{
		ActiveSessions:   len(sessions),
		DocumentSessions: m.documents.Count(),
		Sessions:         sessions,
		Algorithm:        hybrid.Suite,
		RotationAge:      m.cfg.rotationAge,
		SessionIdleTTL:   m.cfg.sessionIdleTTL,
	}
}

// SessionPublicKey returns a session's combined public key, base64url
// encoded. This is the only key material that ever leaves the manager.
func (m *Manager) SessionPublicKey(sessionID string) (string, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys.CombinedPublicB64, nil
}

// VerifyDataIntegrity recomputes the integrity hash over an encrypted
// payload without attempting decryption. It performs the same check
// DecryptPII runs internally, exposed so callers can validate an envelope
// cheaply. Returns ErrIntegrityCheckFailed on mismatch.
func (m *Manager) VerifyDataIntegrity(data *EncryptedPIIData) error {
	if data == nil {
		return ErrNilPayload
	}
	if !integrityHashValid(data) {
		m.metrics.integrityFailures.Inc()
		return ErrIntegrityCheckFailed
	}
	return nil
}
