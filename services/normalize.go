package services

import (
	"regexp"
	"strings"
)

// The source appends a single status letter after the IPO token for
// listings in certain phases, e.g. "Acme IPO U" while unconfirmed.
var statusSuffixPattern = regexp.MustCompile(`(?i)\bIPO\s+[A-Za-z]$`)

// NormalizeListingName canonicalizes a scraped listing name so the
// same IPO compares equal across runs regardless of which phase the
// source shows it in. Whitespace is trimmed, a trailing status letter
// is dropped, and the name is guaranteed to end in the "IPO" token.
// The function is idempotent; empty input passes through unchanged.
func NormalizeListingName(rawName string) string {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return rawName
	}

	name = statusSuffixPattern.ReplaceAllString(name, "IPO")

	if !endsWithIPOToken(name) {
		name += " IPO"
	}

	return name
}

func endsWithIPOToken(name string) bool {
	upper := strings.ToUpper(name)
	return upper == "IPO" || strings.HasSuffix(upper, " IPO")
}
