package services

import (
	"math"

	"github.com/meetpanchal/ipo-gmp-bot/models"
)

// TierParams holds the bidding constants per investor tier. The S-HNI
// (small high-net-worth) bracket caps applications at a fixed amount,
// so its lot count falls back by one when the preferred count would
// cross the cap; B-HNI (big HNI) bids the smallest lot count whose
// cost reaches the target amount.
type TierParams struct {
	SHNILots         int
	SHNIFallbackLots int
	SHNIThreshold    float64
	BHNITarget       float64
}

// DefaultTierParams returns the current exchange bracket constants
func DefaultTierParams() TierParams {
	return TierParams{
		SHNILots:         14,
		SHNIFallbackLots: 13,
		SHNIThreshold:    200000,
		BHNITarget:       1000000,
	}
}

// TierPlan computes the funding plan for each investor tier of a
// listing, given its per-share price and lot size. Order is fixed:
// retail, S-HNI, B-HNI.
func TierPlan(price float64, lotSize int, params TierParams) []models.TierFunding {
	if price <= 0 || lotSize <= 0 {
		return nil
	}

	lotCost := price * float64(lotSize)

	shniLots := params.SHNILots
	if lotCost*float64(params.SHNILots) > params.SHNIThreshold {
		shniLots = params.SHNIFallbackLots
	}

	bhniLots := int(math.Ceil(params.BHNITarget / lotCost))

	return []models.TierFunding{
		{Tier: models.TierRetail, Lots: 1, Shares: lotSize, Funds: lotCost},
		{Tier: models.TierSmallHNI, Lots: shniLots, Shares: shniLots * lotSize, Funds: lotCost * float64(shniLots)},
		{Tier: models.TierBigHNI, Lots: bhniLots, Shares: bhniLots * lotSize, Funds: lotCost * float64(bhniLots)},
	}
}
