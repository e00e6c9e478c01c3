package piivault

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrManagerClosed is returned when operations are attempted on a
	// closed manager.
	ErrManagerClosed = errors.New("manager has been closed")

	// ErrSessionNotFound is returned when no session exists for an id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotActive is returned when a session exists but is not in
	// the ACTIVE state.
	ErrSessionNotActive = errors.New("session not active")

	// ErrSessionMismatch is returned when an envelope's session id differs
	// from the decrypting session. Treat as a tampering indicator, distinct
	// from ErrSessionNotFound.
	ErrSessionMismatch = errors.New("session id mismatch")

	// ErrNilPayload is returned when a nil encrypted payload is passed in.
	ErrNilPayload = errors.New("nil encrypted payload")

	// ErrIntegrityCheckFailed is returned when the integrity hash over an
	// encrypted payload does not validate. Treat as a tampering or
	// corruption indicator; no decryption is attempted after it.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")

	// ErrInitializationFailed is returned when session key generation fails.
	ErrInitializationFailed = errors.New("session initialization failed")

	// ErrEncryptionFailed is returned when PII encryption fails.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned when PII decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrRotationFailed is returned when key rotation fails.
	ErrRotationFailed = errors.New("key rotation failed")
)

// PIIVaultError is implemented by all typed errors of this package.
type PIIVaultError interface {
	error
	PIIVaultError() // marker method
}

// InitializationError reports a failure to generate session key material.
type InitializationError struct {
	SessionID string
	Err       error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize session %s: %v", e.SessionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitializationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *InitializationError) Is(target error) bool {
	return target == ErrInitializationFailed
}

// PIIVaultError implements the PIIVaultError interface.
func (e *InitializationError) PIIVaultError() {}

// EncryptionError reports a failure while encrypting PII matches.
type EncryptionError struct {
	SessionID string
	Err       error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("encrypt pii for session %s: %v", e.SessionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncryptionError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *EncryptionError) Is(target error) bool {
	return target == ErrEncryptionFailed
}

// PIIVaultError implements the PIIVaultError interface.
func (e *EncryptionError) PIIVaultError() {}

// DecryptionError reports a failure while decrypting PII matches. The
// session-id and integrity checks fail with their own sentinels before this
// error can occur.
type DecryptionError struct {
	SessionID string
	Err       error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decrypt pii for session %s: %v", e.SessionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// PIIVaultError implements the PIIVaultError interface.
func (e *DecryptionError) PIIVaultError() {}

// RotationError reports a failure to rotate session key material. The
// previous keypair stays in place when rotation fails.
type RotationError struct {
	SessionID string
	Err       error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("rotate keys for session %s: %v", e.SessionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *RotationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *RotationError) Is(target error) bool {
	return target == ErrRotationFailed
}

// PIIVaultError implements the PIIVaultError interface.
func (e *RotationError) PIIVaultError() {}
