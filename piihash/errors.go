package piihash

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a strictly-validated value is malformed.
	// Matched by errors.Is against any *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownType is returned when a hash operation names an unsupported
	// PII type.
	ErrUnknownType = errors.New("unknown pii type")

	// ErrMalformedHash is returned when an encoded hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed hash")
)

// ValidationError reports malformed input for a strictly-validated type.
// It never carries the offending value, only the type and the rule that
// failed.
type ValidationError struct {
	Type   Type
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value: %s", e.Type, e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
