package hybrid

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// Decrypt decrypts an envelope using the session keypair.
//
// The decryption process mirrors [Encrypt]: ML-KEM-768 decapsulation, X25519
// ECDH against the envelope's ephemeral public key, HKDF-SHA-512 derivation
// over both shared secrets, and AES-256-GCM decryption. Tampering with any
// envelope component causes the AEAD open to fail.
func Decrypt(kp *KeyPair, env *Envelope, aad []byte) ([]byte, error) {
	if env.Algs != Suite {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSuite, env.Algs)
	}

	ctKem, err := FromBase64URL(env.CtKem)
	if err != nil {
		return nil, fmt.Errorf("decode ct_kem: %w", err)
	}

	ephPublic, err := FromBase64URL(env.EphPub)
	if err != nil {
		return nil, fmt.Errorf("decode eph_pub: %w", err)
	}
	if len(ephPublic) != X25519KeySize {
		return nil, ErrInvalidPublicKeySize
	}

	nonce, err := FromBase64URL(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}

	ciphertext, err := FromBase64URL(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	// 1. KEM decapsulation
	ssKem, err := kp.decapsulate(ctKem)
	if err != nil {
		return nil, fmt.Errorf("decapsulate: %w", err)
	}

	// 2. ECDH against the ephemeral key
	ssECDH, err := curve25519.X25519(kp.X25519Secret, ephPublic)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	// 3. Key derivation
	aesKey, err := derivePayloadKey(ssECDH, ssKem, ctKem, ephPublic, aad)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	// 4. AEAD
	plaintext, err := decryptAESGCM(aesKey, nonce, aad, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	return plaintext, nil
}

// derivePayloadKey performs HKDF-SHA-512 key derivation for the hybrid scheme.
//
// The key derivation uses:
//   - IKM: ECDH shared secret || KEM shared secret
//   - Salt: SHA-256 hash of the KEM ciphertext || ephemeral public key
//   - Info: context string || AAD length (4 bytes BE) || AAD
//
// Binding both transcript values into the salt ties the derived key to this
// specific encapsulation.
func derivePayloadKey(ssECDH, ssKem, ctKem, ephPublic, aad []byte) ([]byte, error) {
	secret := make([]byte, 0, len(ssECDH)+len(ssKem))
	secret = append(secret, ssECDH...)
	secret = append(secret, ssKem...)

	h := sha256.New()
	h.Write(ctKem)
	h.Write(ephPublic)
	salt := h.Sum(nil)

	contextBytes := []byte(KDFContext)
	aadLength := make([]byte, 4)
	binary.BigEndian.PutUint32(aadLength, uint32(len(aad)))

	info := make([]byte, 0, len(contextBytes)+4+len(aad))
	info = append(info, contextBytes...)
	info = append(info, aadLength...)
	info = append(info, aad...)

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, AESKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}

	return key, nil
}
