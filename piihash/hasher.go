package piihash

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

// fallbackPepper is used only when no pepper is configured at all. A value
// is always mixed in; an unset pepper never silently degrades to empty.
const fallbackPepper = "piivault-shared-pepper-v1"

// saltSize is the deterministic salt length in bytes.
const saltSize = 16

// pseudonymBytes is the number of digest bytes used for synthetic identifiers.
const pseudonymBytes = 8

// Hasher is the deterministic PII hashing service. The zero value is not
// usable; construct with [New].
type Hasher struct {
	peppers   Peppers
	overrides map[Type]Params
	logger    *zap.Logger
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithPeppers sets the pepper configuration.
func WithPeppers(p Peppers) Option {
	return func(h *Hasher) { h.peppers = p }
}

// WithParams overrides the cost parameters for one type. Parallelism is
// forced to single-threaded execution regardless of the override.
func WithParams(typ Type, p Params) Option {
	return func(h *Hasher) { h.overrides[typ] = p }
}

// WithParamOverrides overrides cost parameters for several types at once,
// as returned by [LoadConfigFile].
func WithParamOverrides(overrides map[Type]Params) Option {
	return func(h *Hasher) {
		for typ, p := range overrides {
			h.overrides[typ] = p
		}
	}
}

// WithLogger sets the diagnostic logger. Raw values are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hasher) { h.logger = l }
}

// New creates a Hasher.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		overrides: make(map[Type]Params),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.peppers.Default == "" && len(h.peppers.PerType) == 0 {
		h.logger.Warn("no pepper configured, using built-in fallback pepper")
	}
	return h
}

// Params returns the effective cost parameters for a type.
func (h *Hasher) Params(typ Type) Params {
	if p, ok := h.overrides[typ]; ok {
		p.Threads = 1
		return p
	}
	return defaultParams[typ]
}

// Hash normalizes a raw value and produces its deterministic encoded hash.
// Strictly-validated types (ssn, creditCard) fail with a *ValidationError
// before any hashing is attempted.
func (h *Hasher) Hash(typ Type, raw string) (string, error) {
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	norm, err := Normalize(typ, raw)
	if err != nil {
		h.logger.Debug("pii hash rejected", zap.String("type", string(typ)))
		return "", err
	}

	encoded := h.hashNormalized(typ, domains[typ], norm)
	h.logger.Debug("pii hashed", zap.String("type", string(typ)))
	return encoded, nil
}

// hashNormalized produces the encoded hash for an already-normalized value
// under an explicit domain-separation string.
func (h *Hasher) hashNormalized(typ Type, domain, norm string) string {
	p := h.Params(typ)
	salt := h.deterministicSalt(domain, norm)
	digest := argon2.IDKey(h.secret(typ, norm), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return encodeHash(p, salt, digest)
}

// HashSSN hashes a social security number. Requires exactly 9 digits after
// stripping separators.
func (h *Hasher) HashSSN(raw string) (string, error) { return h.Hash(TypeSSN, raw) }

// HashPhone hashes a phone number, normalized to its national digit form.
func (h *Hasher) HashPhone(raw string) (string, error) { return h.Hash(TypePhone, raw) }

// HashCreditCard hashes a credit card number. Requires 13-19 digits after
// stripping separators.
func (h *Hasher) HashCreditCard(raw string) (string, error) { return h.Hash(TypeCreditCard, raw) }

// HashName hashes a personal name, case-folded and whitespace-collapsed.
func (h *Hasher) HashName(raw string) (string, error) { return h.Hash(TypeName, raw) }

// HashAddress hashes a street address under the canonical abbreviation table.
func (h *Hasher) HashAddress(raw string) (string, error) { return h.Hash(TypeAddress, raw) }

// HashDOB hashes a date of birth, normalized to ISO-8601 when the format is
// recognized.
func (h *Hasher) HashDOB(raw string) (string, error) { return h.Hash(TypeDOB, raw) }

// HashEmail hashes an email address, case-folded.
func (h *Hasher) HashEmail(raw string) (string, error) { return h.Hash(TypeEmail, raw) }

// HashIP hashes an IP address.
func (h *Hasher) HashIP(raw string) (string, error) { return h.Hash(TypeIP, raw) }

// HashUserAgent hashes a user agent string.
func (h *Hasher) HashUserAgent(raw string) (string, error) { return h.Hash(TypeUserAgent, raw) }

// HashDeviceFingerprint hashes a device fingerprint.
func (h *Hasher) HashDeviceFingerprint(raw string) (string, error) {
	return h.Hash(TypeDeviceFingerprint, raw)
}

// HashCustom hashes an application-defined value. The label extends the
// domain separation so distinct custom value kinds never correlate; an empty
// label uses the shared custom domain.
func (h *Hasher) HashCustom(label, raw string) (string, error) {
	norm, err := Normalize(TypeCustom, raw)
	if err != nil {
		return "", err
	}
	return h.hashNormalized(TypeCustom, customDomain(label), norm), nil
}

// Verify re-derives the hash for raw under the parameters embedded in
// encoded and compares in constant time. Legacy hashes produced under older
// cost tiers verify correctly because the encoded parameters, not the
// current tier, drive the comparison.
func (h *Hasher) Verify(typ Type, raw, encoded string) (bool, error) {
	if !typ.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	p, _, salt, digest, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	norm, err := Normalize(typ, raw)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(h.secret(typ, norm), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(candidate, digest) == 1, nil
}

// NeedsRehash reports whether an encoded hash was produced under cost
// parameters that differ from the current tier for its type. Use it for
// lazy migration when tiers change.
func (h *Hasher) NeedsRehash(typ Type, encoded string) (bool, error) {
	if !typ.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	p, version, _, _, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	current := h.Params(typ)
	if version != argon2.Version {
		return true, nil
	}
	return p.Memory != current.Memory || p.Time != current.Time || p.Threads != current.Threads ||
		p.KeyLen != current.KeyLen, nil
}

// Pseudonymize builds a synthetic system-reference identifier from an email
// address. The identifier is stable per email and reveals nothing about the
// address itself.
func (h *Hasher) Pseudonymize(email string) (string, error) {
	norm, err := Normalize(TypeEmail, email)
	if err != nil {
		return "", err
	}

	p := h.Params(TypeEmail)
	salt := h.deterministicSalt(domains[TypeEmail], norm)
	digest := argon2.IDKey(h.secret(TypeEmail, norm), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return "piiid-" + hex.EncodeToString(digest[:pseudonymBytes]), nil
}

// deterministicSalt derives the salt from the normalized value and a
// domain-separation string. Reproducible by construction: the same value
// always yields the same salt, which is what makes cross-occurrence
// correlation work without storing per-value salts.
func (h *Hasher) deterministicSalt(domain, normalized string) []byte {
	sum := blake2b.Sum256([]byte(normalized + domain))
	return sum[:saltSize]
}

// secret builds the Argon2 password input: normalized value, a zero
// separator, then the type's pepper.
func (h *Hasher) secret(typ Type, normalized string) []byte {
	pepper := h.peppers.For(typ)
	if pepper == "" {
		pepper = fallbackPepper
	}
	out := make([]byte, 0, len(normalized)+1+len(pepper))
	out = append(out, normalized...)
	out = append(out, 0x00)
	out = append(out, pepper...)
	return out
}
