package piihash

// Type is the semantic category of a PII value. Normalization, domain
// separation, pepper selection, and hashing cost all key off the type.
type Type string

// Supported PII types.
const (
	TypeSSN               Type = "ssn"
	TypePhone             Type = "phone"
	TypeCreditCard        Type = "creditCard"
	TypeName              Type = "name"
	TypeAddress           Type = "address"
	TypeDOB               Type = "dob"
	TypeEmail             Type = "email"
	TypeIP                Type = "ip"
	TypeUserAgent         Type = "userAgent"
	TypeDeviceFingerprint Type = "deviceFingerprint"
	TypeCustom            Type = "custom"
)

// Types lists every supported PII type.
var Types = []Type{
	TypeSSN, TypePhone, TypeCreditCard, TypeName, TypeAddress, TypeDOB,
	TypeEmail, TypeIP, TypeUserAgent, TypeDeviceFingerprint, TypeCustom,
}

// Params holds Argon2id cost parameters.
type Params struct {
	// Memory is the memory cost in KiB.
	Memory uint32
	// Time is the number of iterations.
	Time uint32
	// Threads is the parallelism degree.
	Threads uint8
	// KeyLen is the digest length in bytes.
	KeyLen uint32
}

// Sensitivity tiers. Cost scales with how damaging a brute-forced value
// would be and how small the input space is.
var (
	// ParamsLow covers ip, userAgent, deviceFingerprint, and custom values.
	ParamsLow = Params{Memory: 2 * 1024, Time: 2, Threads: 1, KeyLen: 32}
	// ParamsMedium covers email, phone, address, and name.
	ParamsMedium = Params{Memory: 4 * 1024, Time: 2, Threads: 1, KeyLen: 32}
	// ParamsHigh covers ssn and dob.
	ParamsHigh = Params{Memory: 8 * 1024, Time: 3, Threads: 1, KeyLen: 32}
	// ParamsHighest covers creditCard.
	ParamsHighest = Params{Memory: 16 * 1024, Time: 4, Threads: 1, KeyLen: 32}
)

// defaultParams maps each type to its sensitivity tier.
var defaultParams = map[Type]Params{
	TypeSSN:               ParamsHigh,
	TypePhone:             ParamsMedium,
	TypeCreditCard:        ParamsHighest,
	TypeName:              ParamsMedium,
	TypeAddress:           ParamsMedium,
	TypeDOB:               ParamsHigh,
	TypeEmail:             ParamsMedium,
	TypeIP:                ParamsLow,
	TypeUserAgent:         ParamsLow,
	TypeDeviceFingerprint: ParamsLow,
	TypeCustom:            ParamsLow,
}

// domains holds the per-type domain-separation strings mixed into the
// deterministic salt. Two types must never share a domain string.
var domains = map[Type]string{
	TypeSSN:               "piivault:hash:ssn:v1",
	TypePhone:             "piivault:hash:phone:v1",
	TypeCreditCard:        "piivault:hash:credit-card:v1",
	TypeName:              "piivault:hash:name:v1",
	TypeAddress:           "piivault:hash:address:v1",
	TypeDOB:               "piivault:hash:dob:v1",
	TypeEmail:             "piivault:hash:email:v1",
	TypeIP:                "piivault:hash:ip:v1",
	TypeUserAgent:         "piivault:hash:user-agent:v1",
	TypeDeviceFingerprint: "piivault:hash:device-fingerprint:v1",
	TypeCustom:            "piivault:hash:custom:v1",
}

// customDomain builds the domain-separation string for a labeled custom
// value. Labeled values never collide with each other or with the shared
// custom domain.
func customDomain(label string) string {
	if label == "" {
		return domains[TypeCustom]
	}
	return "piivault:hash:custom:" + label + ":v1"
}

// Valid reports whether t is a supported PII type.
func (t Type) Valid() bool {
	_, ok := domains[t]
	return ok
}
