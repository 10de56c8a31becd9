package services

import (
	"fmt"
	"strings"

	"github.com/meetpanchal/ipo-gmp-bot/models"
)

const (
	digestHeader     = "📢 Current Live Mainboard IPOs"
	noEligibleDigest = "📢 No live mainboard IPOs worth applying today."
	listingDivider   = "────────────────────"
)

// MessageComposer renders eligible listings into the plain-text
// digest delivered to subscribers.
type MessageComposer struct {
	tiers TierParams
}

// NewMessageComposer creates a composer using the given tier constants
func NewMessageComposer(tiers TierParams) *MessageComposer {
	return &MessageComposer{tiers: tiers}
}

// Compose renders the digest for the given eligible listings, in the
// order given. An empty set yields a short informational message
// rather than an empty string.
func (c *MessageComposer) Compose(eligible []models.ListingRecord) string {
	if len(eligible) == 0 {
		return noEligibleDigest
	}

	var b strings.Builder
	b.WriteString(digestHeader)
	b.WriteString("\n")

	tierTotals := make(map[string]float64)
	anyPricing := false

	for _, record := range eligible {
		b.WriteString(listingDivider)
		b.WriteString("\n")
		fmt.Fprintf(&b, "🏷 %s\n", record.Name)
		fmt.Fprintf(&b, "📈 GMP: %.2f%%\n", record.GMPPercent)
		fmt.Fprintf(&b, "🗓 Open: %s | Close: %s\n",
			record.OpenDate.Format("02-Jan-2006"),
			record.CloseDate.Format("02-Jan-2006"))

		if !record.HasPricing() {
			b.WriteString("ℹ️ Price band and lot size not announced yet\n")
			continue
		}
		anyPricing = true

		lotSize := float64(*record.LotSize)
		fmt.Fprintf(&b, "💵 Price: %s | Lot: %s shares\n",
			FormatCurrency(record.Price, 0),
			FormatGrouped(&lotSize, 0))

		for _, tier := range TierPlan(*record.Price, *record.LotSize, c.tiers) {
			shares := float64(tier.Shares)
			fmt.Fprintf(&b, "   %s: %d lot(s) = %s shares, %s\n",
				tier.Tier,
				tier.Lots,
				FormatGrouped(&shares, 0),
				FormatCurrency(&tier.Funds, 0))
			tierTotals[tier.Tier] += tier.Funds
		}
	}

	if anyPricing {
		b.WriteString(listingDivider)
		b.WriteString("\n")
		b.WriteString("💰 Total funds to apply across all IPOs:\n")
		for _, tierName := range []string{models.TierRetail, models.TierSmallHNI, models.TierBigHNI} {
			total := tierTotals[tierName]
			fmt.Fprintf(&b, "   %s: %s\n", tierName, FormatCurrency(&total, 0))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
