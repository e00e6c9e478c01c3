// Package piihash provides deterministic, type-aware, one-way hashing of
// personally identifiable information.
//
// The service produces a stable identifier for a PII value of a given
// semantic type, so redacted occurrences can be correlated across documents
// and sessions without ever storing the original value. Determinism is
// achieved with a salt derived from the normalized value itself plus a
// per-type domain-separation string; the same SSN therefore hashes
// identically wherever it is re-encountered, and identical digit strings
// hashed under different types produce unrelated digests.
//
// This is a deliberate trade-off: salt randomness is sacrificed for
// cross-occurrence correlation. Brute force is bounded by a configured
// secret pepper and by Argon2id cost parameters that scale with the
// sensitivity of the type — credit cards cost the most, IP addresses the
// least.
//
// # Usage
//
//	peppers, _ := piihash.LoadPeppersFromEnv()
//	h := piihash.New(piihash.WithPeppers(peppers))
//
//	hash, err := h.HashSSN("123-45-6789")  // identical to h.HashSSN("123456789")
//	ok, _ := h.Verify(piihash.TypeSSN, "123456789", hash)
//
// Raw values are never logged and never appear in returned errors.
package piihash
