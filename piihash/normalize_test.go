package piihash

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     Type
		raw     string
		want    string
		wantErr bool
	}{
		{"ssn with dashes", TypeSSN, "123-45-6789", "123456789", false},
		{"ssn with spaces", TypeSSN, "123 45 6789", "123456789", false},
		{"ssn bare digits", TypeSSN, "123456789", "123456789", false},
		{"ssn too short", TypeSSN, "12345678", "", true},
		{"ssn too long", TypeSSN, "1234567890", "", true},
		{"ssn letters only", TypeSSN, "not-a-ssn", "", true},

		{"phone punctuation", TypePhone, "(555) 123-4567", "5551234567", false},
		{"phone country code", TypePhone, "+1 555 123 4567", "5551234567", false},
		{"phone dots", TypePhone, "555.123.4567", "5551234567", false},

		{"card with spaces", TypeCreditCard, "4111 1111 1111 1111", "4111111111111111", false},
		{"card with dashes", TypeCreditCard, "4111-1111-1111-1111", "4111111111111111", false},
		{"card too short", TypeCreditCard, "4111 1111", "", true},
		{"card too long", TypeCreditCard, "41111111111111111111", "", true},

		{"name case and spacing", TypeName, "  Jane   DOE ", "jane doe", false},
		{"email case", TypeEmail, " Jane.Doe@Example.COM ", "jane.doe@example.com", false},

		{"address abbreviations", TypeAddress, "123 Main Street, Apartment 4", "123 main st apt 4", false},
		{"address already short", TypeAddress, "9 Oak Ave", "9 oak ave", false},
		{"address boulevard", TypeAddress, "1 Sunset Boulevard", "1 sunset blvd", false},

		{"dob iso", TypeDOB, "1990-03-07", "1990-03-07", false},
		{"dob us slashes", TypeDOB, "03/07/1990", "1990-03-07", false},
		{"dob long form", TypeDOB, "March 7, 1990", "1990-03-07", false},
		{"dob unknown shape passes through", TypeDOB, "sometime in march", "sometime in march", false},

		{"ip v4", TypeIP, " 1.2.3.4 ", "1.2.3.4", false},
		{"ip v6 case", TypeIP, "2001:DB8::1", "2001:db8::1", false},

		{"user agent spacing", TypeUserAgent, "Mozilla/5.0   (X11)", "Mozilla/5.0 (X11)", false},
		{"fingerprint trim", TypeDeviceFingerprint, " fp-abc123 ", "fp-abc123", false},

		{"unknown type", Type("passport"), "X123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.typ, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q, %q) expected error, got %q", tt.typ, tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q, %q) error = %v", tt.typ, tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.typ, tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_StrictTypesReturnValidationError(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		typ Type
		raw string
	}{
		{TypeSSN, "12-34"},
		{TypeCreditCard, "1234"},
	} {
		_, err := Normalize(tc.typ, tc.raw)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Normalize(%q) error = %v, want ErrValidation", tc.typ, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Normalize(%q) error is not *ValidationError", tc.typ)
		}
	}
}
