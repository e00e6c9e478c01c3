package piivault

import (
	"errors"
	"testing"
	"time"

	"github.com/piivault/piivault-go/piihash"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()

	hasher := piihash.New(piihash.WithPeppers(piihash.Peppers{Default: "test-pepper"}))
	opts = append([]Option{WithHasher(hasher)}, opts...)

	m, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestInitializeSecureSession(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	info, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0")
	if err != nil {
		t.Fatalf("InitializeSecureSession() error = %v", err)
	}

	if info.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", info.SessionID)
	}
	if info.EncryptionLevel != EncryptionLevelHybridPQ {
		t.Errorf("EncryptionLevel = %q, want %q", info.EncryptionLevel, EncryptionLevelHybridPQ)
	}
	if info.CreatedAt.IsZero() || info.LastUsed.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestInitializeSecureSession_OverwritesExisting(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	pub1, err := m.SessionPublicKey("s1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	pub2, err := m.SessionPublicKey("s1")
	if err != nil {
		t.Fatal(err)
	}

	if pub1 == pub2 {
		t.Error("re-initialized session kept the old key material")
	}
	if got := m.SecurityStatus().ActiveSessions; got != 1 {
		t.Errorf("ActiveSessions = %d, want 1", got)
	}
}

func TestSessionPublicKey_NotFound(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.SessionPublicKey("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestRevokeSession(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	if err := m.RevokeSession("s1"); err != nil {
		t.Fatalf("RevokeSession() error = %v", err)
	}

	if _, err := m.SessionPublicKey("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("revoked session still resolvable: %v", err)
	}
	if err := m.RevokeSession("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second revoke error = %v, want ErrSessionNotFound", err)
	}
}

func TestRotateSessionKeys(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	before, err := m.SessionPublicKey("s1")
	if err != nil {
		t.Fatal(err)
	}

	rotated, err := m.RotateSessionKeys("s1")
	if err != nil {
		t.Fatalf("RotateSessionKeys() error = %v", err)
	}

	after, err := m.SessionPublicKey("s1")
	if err != nil {
		t.Fatal(err)
	}
	if rotated != after {
		t.Error("rotation return value does not match the stored public key")
	}
	if before == after {
		t.Error("rotation did not replace the key material")
	}

	if _, err := m.RotateSessionKeys("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("rotate missing session error = %v, want ErrSessionNotFound", err)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("stale", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.InitializeSecureSession("fresh", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}

	// Age the stale session past the 48h idle TTL, then re-touch the fresh
	// one at the advanced clock.
	base := time.Now()
	m.setNow(func() time.Time { return base.Add(49 * time.Hour) })
	if _, err := m.InitializeSecureSession("fresh", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}

	m.CleanupExpiredSessions()

	status := m.SecurityStatus()
	if status.ActiveSessions != 1 {
		t.Fatalf("ActiveSessions = %d, want 1", status.ActiveSessions)
	}
	if status.Sessions[0].SessionID != "fresh" {
		t.Errorf("surviving session = %q, want fresh", status.Sessions[0].SessionID)
	}
	if _, err := m.SessionPublicKey("stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session still resolvable: %v", err)
	}
}

func TestCleanup_ProactiveRotation(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	before, err := m.SessionPublicKey("s1")
	if err != nil {
		t.Fatal(err)
	}

	// Key material older than 24h but the session recently used: it must be
	// rotated, not removed.
	base := time.Now()
	m.setNow(func() time.Time { return base.Add(25 * time.Hour) })
	m.CleanupExpiredSessions()

	after, err := m.SessionPublicKey("s1")
	if err != nil {
		t.Fatalf("session removed instead of rotated: %v", err)
	}
	if before == after {
		t.Error("stale key material was not rotated")
	}
}

func TestCleanup_DocumentSessions(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateDocumentSession("doc-1", "s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}

	base := time.Now()
	m.setNow(func() time.Time { return base.Add(25 * time.Hour) })
	m.CleanupExpiredSessions()

	if _, err := m.DocumentSession("doc-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired document session still resolvable: %v", err)
	}
}

func TestManager_Close(t *testing.T) {
	t.Parallel()
	hasher := piihash.New(piihash.WithPeppers(piihash.Peppers{Default: "p"}))
	m, err := New(WithHasher(hasher))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}

	m.Close()
	m.Close() // idempotent

	if _, err := m.InitializeSecureSession("s2", "1.2.3.4", "UA/1.0"); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("init after close error = %v, want ErrManagerClosed", err)
	}
	if _, err := m.EncryptPII(nil, "s1", "1.2.3.4", "UA/1.0"); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("encrypt after close error = %v, want ErrManagerClosed", err)
	}
}

func TestSecurityStatus(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.InitializeSecureSession("s2", "5.6.7.8", "UA/2.0"); err != nil {
		t.Fatal(err)
	}

	status := m.SecurityStatus()
	if status.ActiveSessions != 2 {
		t.Errorf("ActiveSessions = %d, want 2", status.ActiveSessions)
	}
	if status.Algorithm == "" {
		t.Error("Algorithm not reported")
	}
	if status.SessionIdleTTL != defaultSessionIdleTTL {
		t.Errorf("SessionIdleTTL = %v", status.SessionIdleTTL)
	}
	if status.RotationAge != defaultRotationAge {
		t.Errorf("RotationAge = %v", status.RotationAge)
	}
}

func TestCleanupTimer_Fires(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, WithCleanupInterval(10*time.Millisecond))

	if _, err := m.InitializeSecureSession("s1", "1.2.3.4", "UA/1.0"); err != nil {
		t.Fatal(err)
	}

	base := time.Now()
	m.setNow(func() time.Time { return base.Add(49 * time.Hour) })

	deadline := time.After(2 * time.Second)
	for {
		if m.SecurityStatus().ActiveSessions == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("cleanup timer never removed the expired session")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
