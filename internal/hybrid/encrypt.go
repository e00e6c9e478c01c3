package hybrid

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"golang.org/x/crypto/curve25519"
)

// Envelope is the wire form of one hybrid-encrypted payload.
type Envelope struct {
	// V is the envelope format version.
	V int `json:"v"`
	// Algs is the algorithm suite string.
	Algs string `json:"algs"`
	// CtKem is the ML-KEM-768 ciphertext (base64url-encoded).
	CtKem string `json:"ct_kem"`
	// EphPub is the ephemeral X25519 public key (base64url-encoded).
	EphPub string `json:"eph_pub"`
	// Nonce is the AES-GCM nonce (base64url-encoded).
	Nonce string `json:"nonce"`
	// AAD is the additional authenticated data (base64url-encoded).
	AAD string `json:"aad"`
	// Ciphertext is the AES-GCM encrypted content (base64url-encoded).
	Ciphertext string `json:"ciphertext"`
}

// Encrypt encrypts plaintext against a combined public key.
//
// The encryption process:
//  1. ML-KEM-768 encapsulation against the post-quantum component
//  2. Ephemeral X25519 ECDH against the classical component
//  3. HKDF-SHA-512 key derivation over both shared secrets
//  4. AES-256-GCM encryption, with aad authenticated but not encrypted
//
// Each call uses a fresh encapsulation and a fresh ephemeral ECDH key, so
// envelopes are not linkable through their key material.
func Encrypt(combinedPublic, plaintext, aad []byte) (*Envelope, error) {
	xPublic, kemPublic, err := SplitCombinedPublic(combinedPublic)
	if err != nil {
		return nil, err
	}

	// 1. KEM encapsulation
	var kemPub mlkem768.PublicKey
	if err := kemPub.Unpack(kemPublic); err != nil {
		return nil, fmt.Errorf("unpack kem public key: %w", err)
	}

	seed := make([]byte, mlkem768.EncapsulationSeedSize)
	if _, err := io.ReadFull(randSource(), seed); err != nil {
		return nil, fmt.Errorf("encapsulation seed: %w", err)
	}

	ctKem := make([]byte, MLKEMCiphertextSize)
	ssKem := make([]byte, MLKEMSharedKeySize)
	kemPub.EncapsulateTo(ctKem, ssKem, seed)

	// 2. Ephemeral ECDH
	ephSecret := make([]byte, X25519KeySize)
	if _, err := io.ReadFull(randSource(), ephSecret); err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}

	ephPublic, err := curve25519.X25519(ephSecret, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("ephemeral public key: %w", err)
	}

	ssECDH, err := curve25519.X25519(ephSecret, xPublic)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	// 3. Key derivation over both secrets
	aesKey, err := derivePayloadKey(ssECDH, ssKem, ctKem, ephPublic, aad)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	// 4. AEAD
	nonce := make([]byte, AESNonceSize)
	if _, err := io.ReadFull(randSource(), nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	ciphertext, err := encryptAESGCM(aesKey, nonce, aad, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return &Envelope{
		V:          EnvelopeVersion,
		Algs:       Suite,
		CtKem:      ToBase64URL(ctKem),
		EphPub:     ToBase64URL(ephPublic),
		Nonce:      ToBase64URL(nonce),
		AAD:        ToBase64URL(aad),
		Ciphertext: ToBase64URL(ciphertext),
	}, nil
}
