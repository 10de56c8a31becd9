package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeListingName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"already canonical", "Acme Industries IPO", "Acme Industries IPO"},
		{"missing suffix", "Acme Industries", "Acme Industries IPO"},
		{"status letter dropped", "Acme Industries IPO U", "Acme Industries IPO"},
		{"status letter lowercase", "Acme Industries IPO o", "Acme Industries IPO"},
		{"surrounding whitespace", "  Acme Industries IPO  ", "Acme Industries IPO"},
		{"whitespace and status letter", " Acme Industries IPO L ", "Acme Industries IPO"},
		{"empty passes through", "", ""},
		{"bare token", "IPO", "IPO"},
		{"token inside word is not a suffix", "Scipo Labs", "Scipo Labs IPO"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeListingName(tc.input)
			if result != tc.expected {
				t.Errorf("NormalizeListingName(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestNormalizeListingNameIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalizing twice equals normalizing once", prop.ForAll(
		func(base string, suffix string) bool {
			raw := base + suffix
			once := NormalizeListingName(raw)
			twice := NormalizeListingName(once)
			return once == twice
		},
		gen.AlphaString(),
		gen.OneConstOf("", " IPO", " IPO U", " ipo", "  "),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
