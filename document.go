package piivault

import (
	"go.uber.org/zap"

	"github.com/piivault/piivault-go/internal/hybrid"
)

// Subkey labels for document sessions. Each label gets an independent
// derived key; compromise of one does not expose the others.
const (
	subkeyContent  = "content"
	subkeyMetadata = "metadata"
	subkeyPII      = "pii"
)

// CreateDocumentSession derives an isolated key set for one document under
// analysis. Three independent subkeys (content, metadata, PII) are derived
// from a fresh shared secret, bound to the document id. The base session
// must be ACTIVE.
//
// The access log records the creating ip and user agent hashed, never raw.
func (m *Manager) CreateDocumentSession(documentID, sessionID, ip, userAgent string) (DocumentSessionInfo, error) {
	if m.isClosed() {
		return DocumentSessionInfo{}, ErrManagerClosed
	}

	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return DocumentSessionInfo{}, ErrSessionNotFound
	}
	if !s.isActive() {
		return DocumentSessionInfo{}, ErrSessionNotActive
	}

	secret, err := hybrid.NewSharedSecret()
	if err != nil {
		m.logger.Error("document secret generation failed", zap.String("document_id", documentID), zap.Error(err))
		return DocumentSessionInfo{}, &InitializationError{SessionID: sessionID, Err: err}
	}

	subkeys, err := hybrid.DeriveSubkeys(secret, "document:"+documentID, subkeyContent, subkeyMetadata, subkeyPII)
	if err != nil {
		m.logger.Error("document subkey derivation failed", zap.String("document_id", documentID), zap.Error(err))
		return DocumentSessionInfo{}, &InitializationError{SessionID: sessionID, Err: err}
	}

	now := m.now()
	d := &documentSession{
		documentID: documentID,
		sessionID:  sessionID,
		subkeys:    subkeys,
		createdAt:  now,
		lastAccess: now,
	}
	d.logAccess(AccessLogEntry{
		Action:        "created",
		Timestamp:     now,
		IPHash:        m.hashForLog(m.hasher.HashIP, ip),
		UserAgentHash: m.hashForLog(m.hasher.HashUserAgent, userAgent),
	})

	if prior, ok := m.documents.Get(documentID); ok {
		m.removeDocumentSession(documentID, prior)
		m.logger.Info("existing document session overwritten", zap.String("document_id", documentID))
	}
	m.documents.Set(documentID, d)
	s.touch(now)

	m.logger.Info("document session created",
		zap.String("document_id", documentID),
		zap.String("session_id", sessionID),
	)

	return d.info(), nil
}

// RecordDocumentAccess appends an access-log entry to a document session.
func (m *Manager) RecordDocumentAccess(documentID, action, ip, userAgent string) error {
	if m.isClosed() {
		return ErrManagerClosed
	}

	d, ok := m.documents.Get(documentID)
	if !ok {
		return ErrSessionNotFound
	}

	d.logAccess(AccessLogEntry{
		Action:        action,
		Timestamp:     m.now(),
		IPHash:        m.hashForLog(m.hasher.HashIP, ip),
		UserAgentHash: m.hashForLog(m.hasher.HashUserAgent, userAgent),
	})
	return nil
}

// DocumentSession returns the externally visible view of a document
// session.
func (m *Manager) DocumentSession(documentID string) (DocumentSessionInfo, error) {
	d, ok := m.documents.Get(documentID)
	if !ok {
		return DocumentSessionInfo{}, ErrSessionNotFound
	}
	return d.info(), nil
}

// hashForLog hashes a request attribute for audit storage. Hashing is
// best-effort: a failure records an empty hash rather than the raw value.
func (m *Manager) hashForLog(hash func(string) (string, error), raw string) string {
	if raw == "" {
		return ""
	}
	h, err := hash(raw)
	if err != nil {
		m.logger.Warn("access-log attribute hashing failed", zap.Error(err))
		return ""
	}
	return h
}
