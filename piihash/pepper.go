package piihash

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for pepper environment variables.
const envPrefix = "PIIVAULT_PEPPER_"

// Peppers holds the secret pepper configuration: one shared default plus
// optional per-type overrides. A type without its own pepper falls back to
// the shared default, never to an empty pepper.
type Peppers struct {
	Default string
	PerType map[Type]string
}

// For returns the pepper for a type, falling back to the shared default
// when no type-specific pepper is configured.
func (p Peppers) For(typ Type) string {
	if v, ok := p.PerType[typ]; ok && v != "" {
		return v
	}
	return p.Default
}

// envKey maps a PII type to its environment variable suffix.
func envKey(typ Type) string {
	switch typ {
	case TypeCreditCard:
		return "CREDIT_CARD"
	case TypeUserAgent:
		return "USER_AGENT"
	case TypeDeviceFingerprint:
		return "DEVICE_FINGERPRINT"
	default:
		return strings.ToUpper(string(typ))
	}
}

// LoadPeppersFromEnv reads pepper configuration from the environment.
// Optional dotenv files are loaded first (missing files are ignored), then
// PIIVAULT_PEPPER_DEFAULT and the per-type PIIVAULT_PEPPER_<TYPE> variables
// are read.
func LoadPeppersFromEnv(dotenvFiles ...string) (Peppers, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Peppers{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	p := Peppers{
		Default: os.Getenv(envPrefix + "DEFAULT"),
		PerType: make(map[Type]string),
	}
	for _, typ := range Types {
		if v := os.Getenv(envPrefix + envKey(typ)); v != "" {
			p.PerType[typ] = v
		}
	}
	return p, nil
}

// FileConfig is the YAML file form of the hashing configuration.
type FileConfig struct {
	// DefaultPepper is the shared fallback pepper.
	DefaultPepper string `yaml:"default_pepper"`
	// Peppers maps PII type names to type-specific peppers.
	Peppers map[string]string `yaml:"peppers"`
	// Tiers overrides Argon2id cost parameters per type.
	Tiers map[string]TierConfig `yaml:"tiers"`
}

// TierConfig overrides the cost parameters for one type.
type TierConfig struct {
	MemoryKiB  uint32 `yaml:"memory_kib"`
	Iterations uint32 `yaml:"iterations"`
}

// LoadConfigFile reads peppers and cost-tier overrides from a YAML file.
func LoadConfigFile(path string) (Peppers, map[Type]Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Peppers{}, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Peppers{}, nil, fmt.Errorf("parse config: %w", err)
	}

	peppers := Peppers{
		Default: cfg.DefaultPepper,
		PerType: make(map[Type]string, len(cfg.Peppers)),
	}
	for name, v := range cfg.Peppers {
		typ := Type(name)
		if !typ.Valid() {
			return Peppers{}, nil, fmt.Errorf("%w: %q in peppers", ErrUnknownType, name)
		}
		peppers.PerType[typ] = v
	}

	overrides := make(map[Type]Params, len(cfg.Tiers))
	for name, tier := range cfg.Tiers {
		typ := Type(name)
		if !typ.Valid() {
			return Peppers{}, nil, fmt.Errorf("%w: %q in tiers", ErrUnknownType, name)
		}
		p := defaultParams[typ]
		if tier.MemoryKiB > 0 {
			p.Memory = tier.MemoryKiB
		}
		if tier.Iterations > 0 {
			p.Time = tier.Iterations
		}
		overrides[typ] = p
	}

	return peppers, overrides, nil
}
