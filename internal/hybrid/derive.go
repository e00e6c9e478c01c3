package hybrid

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives a key using HKDF-SHA-512.
//
// Parameters:
//   - secret: the input key material
//   - salt: optional salt value; if empty, a zero-filled salt is used
//   - info: context/application-specific info for domain separation
//   - length: desired output key length in bytes
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// DeriveSubkeys derives one independent subkey per label from a shared
// secret, each bound to the given context string. The labels get disjoint
// HKDF info values, so compromise of one subkey exposes nothing about its
// siblings.
func DeriveSubkeys(secret []byte, context string, labels ...string) (map[string][]byte, error) {
	keys := make(map[string][]byte, len(labels))
	for _, label := range labels {
		info := []byte(KDFContext + ":" + context + ":" + label)
		key, err := DeriveKey(secret, nil, info, AESKeySize)
		if err != nil {
			return nil, fmt.Errorf("derive subkey %q: %w", label, err)
		}
		keys[label] = key
	}
	return keys, nil
}

// NewSharedSecret generates a fresh random shared secret for subkey
// derivation.
func NewSharedSecret() ([]byte, error) {
	secret := make([]byte, AESKeySize)
	if _, err := io.ReadFull(randSource(), secret); err != nil {
		return nil, err
	}
	return secret, nil
}
