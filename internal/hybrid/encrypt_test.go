package hybrid

import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		plaintext []byte
		aad       []byte
	}{
		{"basic", []byte("123-45-6789"), []byte("session-1")},
		{"empty plaintext", []byte{}, []byte("session-1")},
		{"empty aad", []byte("some pii value"), nil},
		{"binary", []byte{0x00, 0xff, 0x10, 0x80}, []byte("s")},
		{"large", bytes.Repeat([]byte("pii"), 10000), []byte("session-2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Encrypt(kp.CombinedPublic, tt.plaintext, tt.aad)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			if env.V != EnvelopeVersion {
				t.Errorf("envelope version = %d, want %d", env.V, EnvelopeVersion)
			}
			if env.Algs != Suite {
				t.Errorf("envelope suite = %q, want %q", env.Algs, Suite)
			}

			got, err := Decrypt(kp, env, tt.aad)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(got, tt.plaintext) {
				t.Errorf("round trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncrypt_FreshEncapsulation(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	env1, err := Encrypt(kp.CombinedPublic, []byte("same plaintext"), nil)
	if err != nil {
		t.Fatal(err)
	}
	env2, err := Encrypt(kp.CombinedPublic, []byte("same plaintext"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if env1.CtKem == env2.CtKem {
		t.Error("two envelopes share a KEM ciphertext")
	}
	if env1.EphPub == env2.EphPub {
		t.Error("two envelopes share an ephemeral public key")
	}
	if env1.Ciphertext == env2.Ciphertext {
		t.Error("two envelopes share a ciphertext")
	}
}

func TestEncrypt_InvalidPublicKey(t *testing.T) {
	t.Parallel()
	_, err := Encrypt(make([]byte, 10), []byte("data"), nil)
	if err == nil {
		t.Error("expected error for undersized combined public key")
	}
}

func TestDecrypt_Tampering(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	plaintext := []byte("987-65-4321")
	aad := []byte("session-9")

	fresh := func(t *testing.T) *Envelope {
		t.Helper()
		env, err := Encrypt(kp.CombinedPublic, plaintext, aad)
		if err != nil {
			t.Fatal(err)
		}
		return env
	}

	flipByte := func(s string) string {
		raw, err := FromBase64URL(s)
		if err != nil {
			panic(err)
		}
		raw[len(raw)/2] ^= 0x01
		return ToBase64URL(raw)
	}

	tests := []struct {
		name   string
		mutate func(*Envelope)
	}{
		{"flip ciphertext byte", func(e *Envelope) { e.Ciphertext = flipByte(e.Ciphertext) }},
		{"flip kem ciphertext byte", func(e *Envelope) { e.CtKem = flipByte(e.CtKem) }},
		{"flip ephemeral key byte", func(e *Envelope) { e.EphPub = flipByte(e.EphPub) }},
		{"flip nonce byte", func(e *Envelope) { e.Nonce = flipByte(e.Nonce) }},
		{"wrong suite", func(e *Envelope) { e.Algs = "RSA-2048:AES-128-CBC" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := fresh(t)
			tt.mutate(env)
			if _, err := Decrypt(kp, env, aad); err == nil {
				t.Error("tampered envelope decrypted without error")
			}
		})
	}

	t.Run("wrong aad", func(t *testing.T) {
		env := fresh(t)
		if _, err := Decrypt(kp, env, []byte("session-10")); err == nil {
			t.Error("envelope decrypted under mismatched aad")
		}
	})

	t.Run("wrong keypair", func(t *testing.T) {
		env := fresh(t)
		other, err := GenerateKeyPair()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Decrypt(other, env, aad); err == nil {
			t.Error("envelope decrypted under a different keypair")
		}
	})
}
