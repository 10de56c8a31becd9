package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/models"
	"github.com/meetpanchal/ipo-gmp-bot/shared"
)

var (
	// GMP cells look like "₹80 (16.13%)"; only the percentage matters.
	gmpPercentagePattern = regexp.MustCompile(`\(([+-]?\d+(?:\.\d+)?)%\)`)
	decimalPattern       = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerPattern       = regexp.MustCompile(`\d+`)
)

// Source dates come as day and abbreviated month with no year, e.g.
// "28-Dec" or "3 Jan".
var sourceDateFormats = []string{"2-Jan-2006", "2 Jan 2006"}

// ListingExtractor converts scraped table grids into listing records.
// Individual bad rows never fail a run; they are counted and skipped
// so one advertisement row cannot take down the digest.
type ListingExtractor struct {
	columns models.ColumnMap
	metrics *shared.ServiceMetrics
}

// NewListingExtractor creates an extractor for the given column layout
func NewListingExtractor(columns models.ColumnMap) *ListingExtractor {
	return &ListingExtractor{
		columns: columns,
		metrics: shared.NewServiceMetrics("ListingExtractor"),
	}
}

// Metrics exposes the extractor's counters for the run summary
func (e *ListingExtractor) Metrics() *shared.ServiceMetrics {
	return e.metrics
}

// ExtractAll converts every parseable row of the grid into a
// ListingRecord, preserving source order. now anchors the yearless
// source dates to a calendar year.
func (e *ListingExtractor) ExtractAll(grid models.TableGrid, now time.Time) ([]models.ListingRecord, models.ExtractionReport) {
	startTime := time.Now()
	report := models.ExtractionReport{
		RunID:       uuid.New().String(),
		TotalRows:   len(grid),
		ExtractedAt: now,
	}

	var records []models.ListingRecord
	for rowIndex, cells := range grid {
		record, err := e.extractRow(cells, now)
		if err != nil {
			report.Skipped++
			e.metrics.IncrementCounter("rows_skipped")
			logrus.WithFields(logrus.Fields{
				"component": "ListingExtractor",
				"row":       rowIndex,
				"cells":     len(cells),
				"reason":    err.Error(),
			}).Debug("Skipping unparsable table row")
			continue
		}

		records = append(records, record)
		report.Extracted++
		e.metrics.IncrementCounter("rows_extracted")
	}

	e.metrics.RecordRequest(report.Extracted > 0 || report.TotalRows == 0, time.Since(startTime))

	logrus.WithFields(logrus.Fields{
		"component":  "ListingExtractor",
		"run_id":     report.RunID,
		"total_rows": report.TotalRows,
		"extracted":  report.Extracted,
		"skipped":    report.Skipped,
	}).Info("Extracted listing records from table grid")

	return records, report
}

func (e *ListingExtractor) extractRow(cells []string, now time.Time) (models.ListingRecord, error) {
	if len(cells) < e.columns.MinCells {
		return models.ListingRecord{}, fmt.Errorf("row has %d cells, need at least %d", len(cells), e.columns.MinCells)
	}

	name := NormalizeListingName(cells[e.columns.Name])
	if name == "" {
		return models.ListingRecord{}, fmt.Errorf("empty listing name")
	}

	openDate, err := parseSourceDate(cells[e.columns.OpenDate], now.Year())
	if err != nil {
		return models.ListingRecord{}, fmt.Errorf("open date: %w", err)
	}

	closeDate, err := parseSourceDate(cells[e.columns.CloseDate], now.Year())
	if err != nil {
		return models.ListingRecord{}, fmt.Errorf("close date: %w", err)
	}

	// Yearless dates wrap at the new year: an issue opening late
	// December closes in January of the following year.
	if closeDate.Before(openDate) {
		closeDate = closeDate.AddDate(1, 0, 0)
	}

	price := parseLargestDecimal(cells[e.columns.Price])
	lotSize := parseFirstInteger(cells[e.columns.Lot])
	// Tier math needs both; a half-priced listing is treated as unpriced.
	if price == nil || lotSize == nil {
		price, lotSize = nil, nil
	}

	return models.ListingRecord{
		Name:       name,
		GMPPercent: parseGMPPercentage(cells[e.columns.GMP]),
		Price:      price,
		LotSize:    lotSize,
		OpenDate:   openDate,
		CloseDate:  closeDate,
	}, nil
}

// parseGMPPercentage pulls the parenthesized percentage out of a GMP
// cell. Cells without one ("--", pre-listing placeholders) count as a
// premium of zero, which keeps the listing visible but ineligible.
func parseGMPPercentage(cell string) float64 {
	match := gmpPercentagePattern.FindStringSubmatch(cell)
	if match == nil {
		return 0.0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], " ", ""), 64)
	if err != nil {
		return 0.0
	}
	return value
}

// parseLargestDecimal extracts the largest decimal number in the cell.
// Price cells carry bands like "₹95-100"; the upper bound is the one
// bids are placed at.
func parseLargestDecimal(cell string) *float64 {
	cleaned := strings.ReplaceAll(cell, ",", "")

	var largest *float64
	for _, candidate := range decimalPattern.FindAllString(cleaned, -1) {
		value, err := strconv.ParseFloat(candidate, 64)
		if err != nil {
			continue
		}
		if largest == nil || value > *largest {
			v := value
			largest = &v
		}
	}
	return largest
}

// parseFirstInteger extracts the first integer in the cell, ignoring
// digit-group commas.
func parseFirstInteger(cell string) *int {
	cleaned := strings.ReplaceAll(cell, ",", "")

	match := integerPattern.FindString(cleaned)
	if match == "" {
		return nil
	}

	value, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &value
}

// parseSourceDate parses a yearless source date against the given year
func parseSourceDate(cell string, year int) (time.Time, error) {
	cleaned := strings.TrimSpace(cell)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	for _, format := range sourceDateFormats {
		separator := "-"
		if strings.Contains(format, " ") {
			separator = " "
		}
		parsed, err := time.Parse(format, cleaned+separator+strconv.Itoa(year))
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
}
