// Package piivault provides in-process, privacy-preserving protection for
// transient PII discovered during document processing.
//
// The package combines session-scoped hybrid encryption (X25519 + ML-KEM-768,
// via internal key management owned by [Manager]) with the deterministic
// one-way hashing service in the piihash subpackage. PII matches handed over
// by an external detector are encrypted one envelope per match, bound
// together by a tamper-evident integrity hash, and decrypted only for the
// session that produced them.
//
// All key material lives in process memory only. A restart discards every
// session; nothing is recoverable afterwards.
//
// Basic usage:
//
//	m, err := piivault.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	session, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	encrypted, err := m.EncryptPII(matches, session.SessionID, "1.2.3.4", "UA/1.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	restored, err := m.DecryptPII(encrypted, session.SessionID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every error from this package is fatal for the operation that produced
// it; there is no fallback to plaintext or weaker encryption. Callers must
// never log returned PII matches outside their security boundary.
package piivault
