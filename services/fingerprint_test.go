package services

import (
	"testing"
	"time"

	"github.com/meetpanchal/ipo-gmp-bot/models"
)

func fingerprintFixture() []models.ListingRecord {
	return []models.ListingRecord{
		{
			Name:       "Acme Industries IPO",
			GMPPercent: 16.13,
			Price:      floatPtr(500),
			LotSize:    intPtr(30),
			OpenDate:   time.Date(2025, time.November, 13, 0, 0, 0, 0, time.UTC),
			CloseDate:  time.Date(2025, time.November, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:       "Beta Metals IPO",
			GMPPercent: 22.00,
			OpenDate:   time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC),
			CloseDate:  time.Date(2025, time.November, 18, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	tiers := DefaultTierParams()
	first := Fingerprint(fingerprintFixture(), tiers)
	second := Fingerprint(fingerprintFixture(), tiers)

	if first != second {
		t.Errorf("same eligible set must fingerprint identically: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(first))
	}
}

func TestFingerprintSensitiveToAnyFieldChange(t *testing.T) {
	tiers := DefaultTierParams()
	baseline := Fingerprint(fingerprintFixture(), tiers)

	gmpChanged := fingerprintFixture()
	gmpChanged[0].GMPPercent = 16.14
	if Fingerprint(gmpChanged, tiers) == baseline {
		t.Error("a GMP change must change the fingerprint")
	}

	nameChanged := fingerprintFixture()
	nameChanged[1].Name = "Beta Metals Ltd IPO"
	if Fingerprint(nameChanged, tiers) == baseline {
		t.Error("a name change must change the fingerprint")
	}

	priceChanged := fingerprintFixture()
	priceChanged[0].Price = floatPtr(505)
	if Fingerprint(priceChanged, tiers) == baseline {
		t.Error("a price change must change the fingerprint via tier funding")
	}

	reordered := []models.ListingRecord{fingerprintFixture()[1], fingerprintFixture()[0]}
	if Fingerprint(reordered, tiers) == baseline {
		t.Error("reordering the eligible set must change the fingerprint")
	}
}

func TestFingerprintEmptySet(t *testing.T) {
	tiers := DefaultTierParams()
	empty := Fingerprint(nil, tiers)
	if empty == "" {
		t.Fatal("empty set still has a fingerprint")
	}
	if empty == Fingerprint(fingerprintFixture(), tiers) {
		t.Error("empty set must not collide with a populated set")
	}
}

func TestShouldSuppress(t *testing.T) {
	if !ShouldSuppress("abc", "abc") {
		t.Error("identical fingerprints must suppress")
	}
	if ShouldSuppress("abc", "abd") {
		t.Error("different fingerprints must not suppress")
	}
	if ShouldSuppress("abc", "") {
		t.Error("absent prior state must never suppress")
	}
}
