package telephony

import "strings"

// NormalizeE164 coerces a phone number to E.164.
// A number already carrying a leading "+" is passed through unchanged.
// Otherwise all non-digit characters are stripped and countryCode (digits
// only) is prepended. This is a lossy heuristic: a bare national number
// from any other region will be mis-prefixed.
func NormalizeE164(number, countryCode string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "+") {
		return number
	}

	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "+" + countryCode + digits.String()
}
