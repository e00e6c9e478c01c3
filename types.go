package piivault

import "time"

// PIIMatch is one sensitive span located by the external detector.
// Values are ephemeral: consumed, encrypted, and discarded. They must never
// be persisted in plaintext or logged.
type PIIMatch struct {
	// Type is the PII category (ssn, email, phone, ...).
	Type string `json:"type"`
	// Value is the raw matched text.
	Value string `json:"value"`
	// Start is the match's starting byte offset in the source document.
	Start int `json:"start"`
	// End is the match's ending byte offset in the source document.
	End int `json:"end"`
	// Confidence is the detector's confidence in [0,1].
	Confidence float64 `json:"confidence"`
	// Placeholder is the redaction token substituted into the document,
	// e.g. "[SSN-1]".
	Placeholder string `json:"placeholder"`
}

// EncryptedPIIData carries one encrypted PII match set. Each match is
// encrypted independently so individual matches can be restored without
// decrypting the whole set. The integrity hash binds every ciphertext and
// the session id together; substitution or tampering is detectable before
// any decryption is attempted.
type EncryptedPIIData struct {
	// EncryptedMatches holds one base64url-encoded envelope per match,
	// in input order.
	EncryptedMatches []string `json:"encryptedMatches"`
	// SessionID is the id of the session whose key encrypted the matches.
	SessionID string `json:"sessionId"`
	// Algorithm is the algorithm suite string.
	Algorithm string `json:"algorithm"`
	// Timestamp is when the encryption was performed.
	Timestamp time.Time `json:"timestamp"`
	// IntegrityHash is the base64url-encoded SHA-512 over all encrypted
	// matches and the session id.
	IntegrityHash string `json:"integrityHash"`
}

// SessionInfo is the externally visible view of a secure session. Key
// material never appears here; only the combined public key is exposed,
// and only through [Manager.SessionPublicKey].
type SessionInfo struct {
	SessionID       string    `json:"sessionId"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUsed        time.Time `json:"lastUsed"`
	EncryptionLevel string    `json:"encryptionLevel"`
}

// AccessLogEntry is one entry in a document session's access log. The ip
// and user agent are stored hashed, never raw.
type AccessLogEntry struct {
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
	IPHash        string    `json:"ipHash"`
	UserAgentHash string    `json:"userAgentHash"`
}

// DocumentSessionInfo is the externally visible view of a document session.
// The derived subkeys never leave the manager.
type DocumentSessionInfo struct {
	DocumentID    string          `json:"documentId"`
	SessionID     string          `json:"sessionId"`
	PIIEncryption string          `json:"piiEncryption"`
	CreatedAt     time.Time       `json:"createdAt"`
	AccessLog     []AccessLogEntry `json:"accessLog"`
}

// SecurityStatus is a point-in-time snapshot of the manager's state.
type SecurityStatus struct {
	// ActiveSessions is the number of live secure sessions.
	ActiveSessions int `json:"activeSessions"`
	// DocumentSessions is the number of live document sessions.
	DocumentSessions int `json:"documentSessions"`
	// Sessions lists the live sessions.
	Sessions []SessionInfo `json:"sessions"`
	// Algorithm is the algorithm suite in use.
	Algorithm string `json:"algorithm"`
	// RotationAge is how old key material may grow before the cleanup
	// task proactively rotates it.
	RotationAge time.Duration `json:"rotationAge"`
	// SessionIdleTTL is how long a session may stay idle before removal.
	SessionIdleTTL time.Duration `json:"sessionIdleTTL"`
}

// EncryptionLevelHybridPQ marks sessions protected by the hybrid
// classical + post-quantum suite.
const EncryptionLevelHybridPQ = "hybrid-pq"
