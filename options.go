package piivault

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/piivault/piivault-go/piihash"
)

const (
	// defaultCleanupInterval is how often the expiry/rotation sweep runs.
	defaultCleanupInterval = time.Hour
	// defaultRotationAge is the key-material age that triggers proactive
	// rotation during cleanup.
	defaultRotationAge = 24 * time.Hour
	// defaultSessionIdleTTL is twice the rotation age: sessions idle this
	// long are removed.
	defaultSessionIdleTTL = 48 * time.Hour
	// defaultDocumentTTL is how long a document session survives without
	// access.
	defaultDocumentTTL = 24 * time.Hour
)

// managerConfig holds configuration for the manager.
type managerConfig struct {
	cleanupInterval time.Duration
	sessionIdleTTL  time.Duration
	rotationAge     time.Duration
	documentTTL     time.Duration
	poolSize        int
	logger          *zap.Logger
	hasher          *piihash.Hasher
	registry        prometheus.Registerer
}

func defaultConfig() *managerConfig {
	return &managerConfig{
		cleanupInterval: defaultCleanupInterval,
		sessionIdleTTL:  defaultSessionIdleTTL,
		rotationAge:     defaultRotationAge,
		documentTTL:     defaultDocumentTTL,
		poolSize:        runtime.NumCPU(),
		logger:          zap.NewNop(),
	}
}

// Option configures the manager.
type Option func(*managerConfig)

// WithLogger sets the structured logger. Logs carry contextual metadata
// only; plaintext PII and key material are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *managerConfig) { c.logger = l }
}

// WithHasher sets the PII hashing service used for access-log entries.
// A default hasher with environment-loaded peppers is constructed when
// unset.
func WithHasher(h *piihash.Hasher) Option {
	return func(c *managerConfig) { c.hasher = h }
}

// WithCleanupInterval sets how often the expiry sweep runs.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *managerConfig) { c.cleanupInterval = d }
}

// WithSessionIdleTTL sets how long a session may stay idle before the
// cleanup sweep removes it.
func WithSessionIdleTTL(d time.Duration) Option {
	return func(c *managerConfig) { c.sessionIdleTTL = d }
}

// WithRotationAge sets the key-material age that triggers proactive
// rotation during cleanup.
func WithRotationAge(d time.Duration) Option {
	return func(c *managerConfig) { c.rotationAge = d }
}

// WithDocumentTTL sets how long a document session survives without access.
func WithDocumentTTL(d time.Duration) Option {
	return func(c *managerConfig) { c.documentTTL = d }
}

// WithWorkerPoolSize bounds the worker pool that runs CPU-bound crypto.
// Defaults to the number of CPUs.
func WithWorkerPoolSize(n int) Option {
	return func(c *managerConfig) { c.poolSize = n }
}

// WithMetricsRegistry registers the manager's metrics on the given
// registry. Metrics are collected but unregistered when unset.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(c *managerConfig) { c.registry = reg }
}
