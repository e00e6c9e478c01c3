package piivault

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/piivault/piivault-go/internal/hybrid"
)

// EncryptPII encrypts a PII match set against the session's combined public
// key. Each match is serialized to its canonical byte form and encrypted
// independently — one envelope per match, never one batch blob — so
// individual matches can later be restored without decrypting the whole
// set. One integrity hash binds all envelopes and the session id.
//
// The plaintext matches are neither retained nor logged.
func (m *Manager) EncryptPII(matches []PIIMatch, sessionID, ip, userAgent string) (*EncryptedPIIData, error) {
	if m.isClosed() {
		return nil, ErrManagerClosed
	}

	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	publicKey, err := s.publicKey()
	if err != nil {
		return nil, err
	}
	aad := []byte(sessionID)

	encrypted := make([]string, len(matches))
	errs := make([]error, len(matches))

	var wg sync.WaitGroup
	for i := range matches {
		i := i
		match := matches[i]
		m.runOnPool(&wg, func() {
			encrypted[i], errs[i] = encryptMatch(publicKey, match, aad)
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			m.metrics.failuresTotal.WithLabelValues("encrypt").Inc()
			m.logger.Error("pii encryption failed",
				zap.String("session_id", sessionID),
				zap.Int("match_count", len(matches)),
				zap.Error(err),
			)
			return nil, &EncryptionError{SessionID: sessionID, Err: err}
		}
	}

	now := m.now()
	s.touch(now)
	m.metrics.encryptTotal.Inc()

	return &EncryptedPIIData{
		EncryptedMatches: encrypted,
		SessionID:        sessionID,
		Algorithm:        hybrid.Suite,
		Timestamp:        now,
		IntegrityHash:    computeIntegrityHash(encrypted, sessionID),
	}, nil
}

// DecryptPII restores the PII match set from an encrypted payload. The
// session id binding and the integrity hash are checked, in that order,
// before any decryption is attempted; both failures are tampering signals
// and fail the whole operation closed.
func (m *Manager) DecryptPII(data *EncryptedPIIData, sessionID string) ([]PIIMatch, error) {
	if m.isClosed() {
		return nil, ErrManagerClosed
	}
	if data == nil {
		return nil, ErrNilPayload
	}

	if data.SessionID != sessionID {
		m.metrics.securityAlerts.Inc()
		m.logger.Warn("session id mismatch on decrypt",
			zap.String("session_id", sessionID),
			zap.String("envelope_session_id", data.SessionID),
		)
		return nil, ErrSessionMismatch
	}

	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	keys, err := s.activeKeys()
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	if !integrityHashValid(data) {
		m.metrics.integrityFailures.Inc()
		m.metrics.securityAlerts.Inc()
		m.logger.Warn("integrity check failed on decrypt",
			zap.String("session_id", sessionID),
			zap.Int("match_count", len(data.EncryptedMatches)),
		)
		return nil, ErrIntegrityCheckFailed
	}

	aad := []byte(sessionID)
	matches := make([]PIIMatch, len(data.EncryptedMatches))
	errs := make([]error, len(data.EncryptedMatches))

	var wg sync.WaitGroup
	for i := range data.EncryptedMatches {
		i := i
		encoded := data.EncryptedMatches[i]
		m.runOnPool(&wg, func() {
			matches[i], errs[i] = decryptMatch(keys, encoded, aad)
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			m.metrics.failuresTotal.WithLabelValues("decrypt").Inc()
			m.logger.Error("pii decryption failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			return nil, &DecryptionError{SessionID: sessionID, Err: err}
		}
	}

	s.touch(m.now())
	m.metrics.decryptTotal.Inc()

	return matches, nil
}

// encryptMatch serializes one match and seals it into an encoded envelope.
func encryptMatch(publicKey []byte, match PIIMatch, aad []byte) (string, error) {
	payload, err := json.Marshal(match)
	if err != nil {
		return "", err
	}

	env, err := hybrid.Encrypt(publicKey, payload, aad)
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return hybrid.ToBase64URL(raw), nil
}

// decryptMatch opens one encoded envelope back into a match.
func decryptMatch(keys *hybrid.KeyPair, encoded string, aad []byte) (PIIMatch, error) {
	raw, err := hybrid.FromBase64URL(encoded)
	if err != nil {
		return PIIMatch{}, err
	}

	var env hybrid.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return PIIMatch{}, err
	}

	payload, err := hybrid.Decrypt(keys, &env, aad)
	if err != nil {
		return PIIMatch{}, err
	}

	var match PIIMatch
	if err := json.Unmarshal(payload, &match); err != nil {
		return PIIMatch{}, err
	}
	return match, nil
}

// computeIntegrityHash binds every encrypted match and the session id into
// one SHA-512 digest. Flipping any byte of any envelope, reordering the
// set, or substituting the session id changes the digest.
func computeIntegrityHash(encryptedMatches []string, sessionID string) string {
	h := sha512.New()
	for _, em := range encryptedMatches {
		h.Write([]byte(em))
		h.Write([]byte{0x00})
	}
	h.Write([]byte(sessionID))
	return hybrid.ToBase64URL(h.Sum(nil))
}

func integrityHashValid(data *EncryptedPIIData) bool {
	expected := computeIntegrityHash(data.EncryptedMatches, data.SessionID)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(data.IntegrityHash)) == 1
}
