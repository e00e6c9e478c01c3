package hybrid

import (
	"bytes"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()
	secret := []byte("test secret key for derivation")

	tests := []struct {
		name   string
		salt   []byte
		info   []byte
		length int
	}{
		{"basic 32 bytes", make([]byte, 32), []byte("info"), 32},
		{"empty salt", nil, []byte("info"), 32},
		{"empty info", make([]byte, 32), nil, 32},
		{"64 byte key", make([]byte, 32), []byte("info"), 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(secret, tt.salt, tt.info, tt.length)
			if err != nil {
				t.Fatalf("DeriveKey() error = %v", err)
			}
			if len(key) != tt.length {
				t.Errorf("key length = %d, want %d", len(key), tt.length)
			}
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	t.Parallel()
	secret := []byte("secret")
	salt := []byte("salt")
	info := []byte("info")

	key1, err := DeriveKey(secret, salt, info, 32)
	if err != nil {
		t.Fatal(err)
	}
	key2, err := DeriveKey(secret, salt, info, 32)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(key1, key2) {
		t.Error("DeriveKey not deterministic: same inputs produced different outputs")
	}
}

func TestDeriveSubkeys(t *testing.T) {
	t.Parallel()
	secret, err := NewSharedSecret()
	if err != nil {
		t.Fatal(err)
	}

	keys, err := DeriveSubkeys(secret, "document:doc-1", "content", "metadata", "pii")
	if err != nil {
		t.Fatalf("DeriveSubkeys() error = %v", err)
	}

	if len(keys) != 3 {
		t.Fatalf("subkey count = %d, want 3", len(keys))
	}

	for label, key := range keys {
		if len(key) != AESKeySize {
			t.Errorf("subkey %q length = %d, want %d", label, len(key), AESKeySize)
		}
	}

	// Sibling subkeys must be independent.
	if bytes.Equal(keys["content"], keys["metadata"]) ||
		bytes.Equal(keys["content"], keys["pii"]) ||
		bytes.Equal(keys["metadata"], keys["pii"]) {
		t.Error("sibling subkeys are not independent")
	}
}

func TestDeriveSubkeys_ContextBinding(t *testing.T) {
	t.Parallel()
	secret, err := NewSharedSecret()
	if err != nil {
		t.Fatal(err)
	}

	a, err := DeriveSubkeys(secret, "document:doc-1", "pii")
	if err != nil {
		t.Fatal(err)
	}
	b, err := DeriveSubkeys(secret, "document:doc-2", "pii")
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(a["pii"], b["pii"]) {
		t.Error("same subkey derived for different document contexts")
	}
}

func TestNewSharedSecret_Unique(t *testing.T) {
	t.Parallel()
	s1, err := NewSharedSecret()
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSharedSecret()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(s1, s2) {
		t.Error("two shared secrets are identical")
	}
}
