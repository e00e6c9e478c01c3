package hybrid

const (
	// KDFContext is the context string used in HKDF key derivation
	// for domain separation.
	KDFContext = "piivault:pii:v1"

	// X25519KeySize is the size of an X25519 public or private key in bytes.
	X25519KeySize = 32
	// X25519SharedSize is the size of an X25519 shared secret in bytes.
	X25519SharedSize = 32

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32

	// CombinedPublicKeySize is the size of the combined public key blob:
	// X25519 public key followed by the ML-KEM-768 public key.
	CombinedPublicKeySize = X25519KeySize + MLKEMPublicKeySize

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// EnvelopeVersion is the current envelope format version.
	EnvelopeVersion = 1
)

// Suite is the canonical string representation of the algorithm suite.
var Suite = "X25519:ML-KEM-768:AES-256-GCM:HKDF-SHA-512"
