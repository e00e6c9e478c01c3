package piihash

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// encodeHash renders an Argon2id digest in PHC string format:
//
//	$argon2id$v=19$m=8192,t=3,p=1$<salt-b64>$<digest-b64>
//
// The embedded parameters make hashes self-describing, which is what allows
// Verify to check legacy hashes and NeedsRehash to spot stale cost tiers.
func encodeHash(p Params, salt, digest []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
}

// decodeHash parses a PHC-formatted Argon2id hash back into its parameters,
// salt, and digest.
func decodeHash(encoded string) (p Params, version int, salt, digest []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, 0, nil, nil, fmt.Errorf("%w: expected 6 segments", ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return p, 0, nil, nil, fmt.Errorf("%w: unsupported function %q", ErrMalformedHash, parts[1])
	}

	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, 0, nil, nil, fmt.Errorf("%w: bad version segment", ErrMalformedHash)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, 0, nil, nil, fmt.Errorf("%w: bad parameter segment", ErrMalformedHash)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, 0, nil, nil, fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
	}

	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, 0, nil, nil, fmt.Errorf("%w: bad digest encoding", ErrMalformedHash)
	}
	p.KeyLen = uint32(len(digest))

	return p, version, salt, digest, nil
}
