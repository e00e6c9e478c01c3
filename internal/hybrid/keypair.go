package hybrid

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"golang.org/x/crypto/curve25519"
)

// randReader is the random source used for key generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

func randSource() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}

// KeyPair holds the hybrid key material for one session: an X25519 pair for
// the classical component and an ML-KEM-768 pair for the post-quantum
// component. Breaking either component alone is insufficient to recover a
// payload key.
type KeyPair struct {
	// X25519Public is the raw X25519 public key bytes.
	X25519Public []byte
	// X25519Secret is the raw X25519 private scalar.
	X25519Secret []byte
	// KEMPublic is the raw ML-KEM-768 public key bytes.
	KEMPublic []byte
	// KEMSecret is the raw ML-KEM-768 secret key bytes.
	KEMSecret []byte
	// CombinedPublic is X25519Public || KEMPublic, the only key material
	// that ever leaves the owning manager.
	CombinedPublic []byte
	// CombinedPublicB64 is CombinedPublic encoded as URL-safe base64.
	CombinedPublicB64 string
}

// GenerateKeyPair creates a fresh hybrid keypair.
func GenerateKeyPair() (*KeyPair, error) {
	xSecret := make([]byte, X25519KeySize)
	if _, err := io.ReadFull(randSource(), xSecret); err != nil {
		return nil, err
	}

	xPublic, err := curve25519.X25519(xSecret, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}

	kemPub, kemPriv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, err
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	kemPubBytes, _ := kemPub.MarshalBinary()
	kemPrivBytes, _ := kemPriv.MarshalBinary()

	combined := make([]byte, 0, CombinedPublicKeySize)
	combined = append(combined, xPublic...)
	combined = append(combined, kemPubBytes...)

	return &KeyPair{
		X25519Public:      xPublic,
		X25519Secret:      xSecret,
		KEMPublic:         kemPubBytes,
		KEMSecret:         kemPrivBytes,
		CombinedPublic:    combined,
		CombinedPublicB64: ToBase64URL(combined),
	}, nil
}

// SplitCombinedPublic splits a combined public key blob into its X25519 and
// ML-KEM-768 components.
func SplitCombinedPublic(combined []byte) (xPublic, kemPublic []byte, err error) {
	if len(combined) != CombinedPublicKeySize {
		return nil, nil, ErrInvalidCombinedKeySize
	}
	return combined[:X25519KeySize], combined[X25519KeySize:], nil
}

// ValidateKeyPair validates that a keypair has the correct structure and sizes.
func ValidateKeyPair(kp *KeyPair) bool {
	if kp == nil {
		return false
	}
	if len(kp.X25519Public) != X25519KeySize || len(kp.X25519Secret) != X25519KeySize {
		return false
	}
	if len(kp.KEMPublic) != MLKEMPublicKeySize || len(kp.KEMSecret) != MLKEMSecretKeySize {
		return false
	}
	if len(kp.CombinedPublic) != CombinedPublicKeySize {
		return false
	}

	decoded, err := FromBase64URL(kp.CombinedPublicB64)
	if err != nil || len(decoded) != len(kp.CombinedPublic) {
		return false
	}
	for i := range decoded {
		if decoded[i] != kp.CombinedPublic[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the keypair so an operation can keep
// using key material across a concurrent rotation. Wipe the copy with Zero
// when the operation completes; zeroing one copy does not affect the other.
func (k *KeyPair) Clone() *KeyPair {
	return &KeyPair{
		X25519Public:      bytes.Clone(k.X25519Public),
		X25519Secret:      bytes.Clone(k.X25519Secret),
		KEMPublic:         bytes.Clone(k.KEMPublic),
		KEMSecret:         bytes.Clone(k.KEMSecret),
		CombinedPublic:    bytes.Clone(k.CombinedPublic),
		CombinedPublicB64: k.CombinedPublicB64,
	}
}

// Zero wipes the secret key material in place. The keypair must not be used
// after zeroing.
func (k *KeyPair) Zero() {
	for i := range k.X25519Secret {
		k.X25519Secret[i] = 0
	}
	for i := range k.KEMSecret {
		k.KEMSecret[i] = 0
	}
}

// decapsulate recovers the ML-KEM shared secret from the encapsulated key.
func (k *KeyPair) decapsulate(encapsulatedKey []byte) ([]byte, error) {
	if len(encapsulatedKey) != MLKEMCiphertextSize {
		return nil, ErrInvalidCiphertextSize
	}

	var privKey mlkem768.PrivateKey
	if err := privKey.Unpack(k.KEMSecret); err != nil {
		return nil, err
	}

	sharedSecret := make([]byte, MLKEMSharedKeySize)
	privKey.DecapsulateTo(sharedSecret, encapsulatedKey)

	return sharedSecret, nil
}
