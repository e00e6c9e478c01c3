package hybrid

import "errors"

var (
	// ErrInvalidSecretKeySize is returned when a secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when a public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCombinedKeySize is returned when a combined public key blob
	// does not have the expected X25519 || ML-KEM-768 layout.
	ErrInvalidCombinedKeySize = errors.New("invalid combined public key size")

	// ErrInvalidCiphertextSize is returned when a KEM ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrDecryptionFailed is returned when AEAD decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEnvelope is returned when an envelope structure is invalid.
	// This includes malformed JSON, missing required fields, or invalid encoding.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrUnsupportedSuite is returned when an envelope names an algorithm
	// suite this package does not implement.
	ErrUnsupportedSuite = errors.New("unsupported algorithm suite")
)
