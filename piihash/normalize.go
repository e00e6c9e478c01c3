package piihash

import (
	"strings"
	"time"
)

// streetAbbrev maps street-type words to their canonical abbreviation.
var streetAbbrev = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"road":      "rd",
	"boulevard": "blvd",
	"lane":      "ln",
	"drive":     "dr",
	"court":     "ct",
	"place":     "pl",
	"circle":    "cir",
	"highway":   "hwy",
	"parkway":   "pkwy",
	"apartment": "apt",
	"suite":     "ste",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
}

// dobLayouts are tried in order when detecting a date-of-birth format.
// ISO first, then common US and long-form layouts.
var dobLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02.01.2006",
}

// Normalize converts a raw value to the canonical form for its type.
// Strictly-validated types (ssn, creditCard) return a *ValidationError for
// malformed input; all other types normalize best-effort.
func Normalize(typ Type, raw string) (string, error) {
	switch typ {
	case TypeSSN:
		return normalizeSSN(raw)
	case TypePhone:
		return normalizePhone(raw), nil
	case TypeCreditCard:
		return normalizeCreditCard(raw)
	case TypeName, TypeEmail:
		return collapseWhitespace(strings.ToLower(raw)), nil
	case TypeAddress:
		return normalizeAddress(raw), nil
	case TypeDOB:
		return normalizeDOB(raw), nil
	case TypeIP:
		return strings.ToLower(strings.TrimSpace(raw)), nil
	case TypeUserAgent, TypeCustom:
		return collapseWhitespace(raw), nil
	case TypeDeviceFingerprint:
		return strings.TrimSpace(raw), nil
	default:
		return "", ErrUnknownType
	}
}

func normalizeSSN(raw string) (string, error) {
	digits := keepDigits(raw)
	if len(digits) != 9 {
		return "", &ValidationError{Type: TypeSSN, Reason: "must contain exactly 9 digits"}
	}
	return digits, nil
}

// normalizePhone strips punctuation and reduces to the 10-digit national
// form, dropping a detected leading country code. Unrecognized shapes pass
// through as bare digits; phone is not a strictly-validated type.
func normalizePhone(raw string) string {
	digits := keepDigits(raw)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

func normalizeCreditCard(raw string) (string, error) {
	digits := keepDigits(raw)
	if len(digits) < 13 || len(digits) > 19 {
		return "", &ValidationError{Type: TypeCreditCard, Reason: "must contain 13-19 digits"}
	}
	return digits, nil
}

func normalizeAddress(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for i, w := range words {
		trimmed := strings.TrimRight(w, ".,")
		if abbrev, ok := streetAbbrev[trimmed]; ok {
			words[i] = abbrev
		} else {
			words[i] = trimmed
		}
	}
	return strings.Join(words, " ")
}

// normalizeDOB detects the input format and renders ISO-8601. Values that
// match no known layout normalize best-effort to their trimmed form.
func normalizeDOB(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dobLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	return trimmed
}

func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
