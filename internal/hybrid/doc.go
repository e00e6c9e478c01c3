// Package hybrid implements the hybrid classical + post-quantum encryption
// primitive used for transient PII payloads.
//
// # Algorithm Suite
//
//   - X25519 (RFC 7748): classical elliptic-curve Diffie-Hellman. A fresh
//     ephemeral key is generated for every envelope.
//
//   - ML-KEM-768 (NIST FIPS 203): post-quantum key encapsulation mechanism.
//     A fresh encapsulation is performed for every envelope.
//
//   - HKDF-SHA-512 (RFC 5869): derives the payload key from the
//     concatenation of both shared secrets, with the KEM ciphertext and
//     ephemeral public key bound into the salt.
//
//   - AES-256-GCM: authenticated encryption of the payload.
//
// # Security Model
//
// The payload key depends on both the ECDH shared secret and the KEM shared
// secret, so an attacker must break both X25519 and ML-KEM-768 to recover a
// payload. Tampering with any envelope component causes the AEAD open to
// fail; there is no path to a silently wrong plaintext.
//
// # Key Management
//
// Use [GenerateKeyPair] to create a session keypair. Only the combined
// public key blob ([KeyPair.CombinedPublic]) may leave the owning manager;
// secret material must never be logged, serialized, or exposed. Call
// [KeyPair.Zero] before discarding a keypair.
package hybrid
