package services

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/models"
)

// EligibilityOptions controls which listings make the digest
type EligibilityOptions struct {
	// GMPThreshold is exclusive: a listing at exactly the threshold
	// does not qualify.
	GMPThreshold float64
	// SortByGMP orders eligible listings by descending premium
	// instead of keeping source order.
	SortByGMP bool
}

// DefaultEligibilityOptions returns the standard digest criteria
func DefaultEligibilityOptions() EligibilityOptions {
	return EligibilityOptions{GMPThreshold: 10.0}
}

// FilterEligible returns the listings worth applying to today: premium
// strictly above the threshold and subscription window open on the
// given calendar date, both endpoints inclusive. Source order is
// preserved unless SortByGMP is set.
func FilterEligible(records []models.ListingRecord, today time.Time, options EligibilityOptions) []models.ListingRecord {
	todayDate := calendarDate(today)

	var eligible []models.ListingRecord
	for _, record := range records {
		if record.GMPPercent <= options.GMPThreshold {
			continue
		}
		if todayDate.Before(calendarDate(record.OpenDate)) || todayDate.After(calendarDate(record.CloseDate)) {
			continue
		}
		eligible = append(eligible, record)
	}

	if options.SortByGMP {
		sort.SliceStable(eligible, func(i, j int) bool {
			return eligible[i].GMPPercent > eligible[j].GMPPercent
		})
	}

	logrus.WithFields(logrus.Fields{
		"component":  "EligibilityFilter",
		"candidates": len(records),
		"eligible":   len(eligible),
		"threshold":  options.GMPThreshold,
	}).Debug("Filtered eligible listings")

	return eligible
}

// calendarDate strips the time-of-day and zone so comparisons happen
// on calendar dates only.
func calendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
