package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/meetpanchal/ipo-gmp-bot/models"
)

// Fingerprint returns a SHA-256 hex digest over a canonical rendering
// of the eligible set, including per-tier funding when pricing is
// known. Hashing the structured data rather than the outgoing message
// means cosmetic template changes do not trigger a resend, while any
// change to names, premiums, dates or funding does.
func Fingerprint(eligible []models.ListingRecord, tiers TierParams) string {
	var b strings.Builder
	for _, record := range eligible {
		fmt.Fprintf(&b, "%s|%.2f|%s|%s",
			record.Name,
			record.GMPPercent,
			record.OpenDate.Format("2006-01-02"),
			record.CloseDate.Format("2006-01-02"))
		if record.HasPricing() {
			for _, tier := range TierPlan(*record.Price, *record.LotSize, tiers) {
				fmt.Fprintf(&b, "|%s=%d:%.2f", tier.Tier, tier.Lots, tier.Funds)
			}
		}
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ShouldSuppress reports whether sending can be skipped because the
// digest fingerprint matches the one persisted after the last
// confirmed send. An empty prior (first run, reset state) never
// suppresses.
func ShouldSuppress(fingerprint, prior string) bool {
	return prior != "" && fingerprint == prior
}
