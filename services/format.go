package services

import (
	"math"
	"strconv"
	"strings"
)

// FormatGrouped renders a number with Indian digit grouping: the last
// three integer digits form one group and every group above that has
// two digits, so 3026376 becomes "30,26,376". A nil value renders as
// "-", which is how the source table marks unknown amounts.
func FormatGrouped(value *float64, decimals int) string {
	if value == nil {
		return "-"
	}

	negative := math.Signbit(*value) && *value != 0
	rendered := strconv.FormatFloat(math.Abs(*value), 'f', decimals, 64)

	integerPart := rendered
	fractionPart := ""
	if dot := strings.IndexByte(rendered, '.'); dot >= 0 {
		integerPart = rendered[:dot]
		fractionPart = rendered[dot:]
	}

	grouped := groupIndianDigits(integerPart)
	if negative {
		grouped = "-" + grouped
	}
	return grouped + fractionPart
}

// FormatCurrency renders a rupee amount: ₹ prefix plus Indian
// grouping, or "₹-" when the amount is unknown.
func FormatCurrency(value *float64, decimals int) string {
	return "₹" + FormatGrouped(value, decimals)
}

// groupIndianDigits inserts commas into an unsigned digit string using
// the 3-then-2 grouping of the Indian numbering system.
func groupIndianDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	tail := digits[len(digits)-3:]
	head := digits[:len(digits)-3]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, ",") + "," + tail
}
