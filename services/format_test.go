package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func floatPtr(v float64) *float64 { return &v }

func TestFormatGroupedIndianGrouping(t *testing.T) {
	testCases := []struct {
		name     string
		value    *float64
		decimals int
		expected string
	}{
		{"seven digits", floatPtr(3026376), 0, "30,26,376"},
		{"five digits", floatPtr(14892), 0, "14,892"},
		{"three digits stay ungrouped", floatPtr(500), 0, "500"},
		{"four digits", floatPtr(1000), 0, "1,000"},
		{"six digits", floatPtr(200000), 0, "2,00,000"},
		{"crore scale", floatPtr(10000000), 0, "1,00,00,000"},
		{"negative", floatPtr(-500), 0, "-500"},
		{"negative grouped", floatPtr(-1234567), 0, "-12,34,567"},
		{"zero", floatPtr(0), 0, "0"},
		{"with decimals", floatPtr(140000.5), 2, "1,40,000.50"},
		{"nil renders dash", nil, 0, "-"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := FormatGrouped(tc.value, tc.decimals)
			if result != tc.expected {
				t.Errorf("FormatGrouped(%v, %d) = %q, want %q", tc.value, tc.decimals, result, tc.expected)
			}
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(floatPtr(195000), 0); got != "₹1,95,000" {
		t.Errorf("FormatCurrency(195000) = %q, want ₹1,95,000", got)
	}
	if got := FormatCurrency(nil, 0); got != "₹-" {
		t.Errorf("FormatCurrency(nil) = %q, want ₹-", got)
	}
}

func TestFormatGroupedProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("grouping never changes the digits", prop.ForAll(
		func(value int64) bool {
			v := float64(value)
			grouped := FormatGrouped(&v, 0)
			return strings.ReplaceAll(grouped, ",", "") == strconv.FormatInt(value, 10)
		},
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
	))

	properties.Property("groups between the first and last comma have two digits", prop.ForAll(
		func(value int64) bool {
			v := float64(value)
			grouped := strings.TrimPrefix(FormatGrouped(&v, 0), "-")
			parts := strings.Split(grouped, ",")
			if len(parts) == 1 {
				return len(parts[0]) <= 3
			}
			// Last group always has three digits, interior groups two.
			if len(parts[len(parts)-1]) != 3 {
				return false
			}
			for _, part := range parts[1 : len(parts)-1] {
				if len(part) != 2 {
					return false
				}
			}
			return len(parts[0]) >= 1 && len(parts[0]) <= 2
		},
		gen.Int64Range(0, 10_000_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
