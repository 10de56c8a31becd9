package models

import "time"

// ColumnMap assigns source-table column positions to listing fields.
// The live GMP table carries more columns than we consume; only the
// positions named here are read, everything else is ignored.
type ColumnMap struct {
	Name      int `json:"name"`
	GMP       int `json:"gmp"`
	Price     int `json:"price"`
	Lot       int `json:"lot"`
	OpenDate  int `json:"open_date"`
	CloseDate int `json:"close_date"`
	// MinCells is the minimum cell count a row must have before any
	// column position is trusted. Shorter rows are section headers or
	// advertisement rows and get skipped.
	MinCells int `json:"min_cells"`
}

// DefaultColumnMap returns the column layout of the live mainboard GMP
// table as published today.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Name:      0,
		GMP:       1,
		Price:     5,
		Lot:       7,
		OpenDate:  8,
		CloseDate: 9,
		MinCells:  10,
	}
}

// TableGrid is a materialized snapshot of the scraped table: one slice
// of trimmed cell text per data row, in source order.
type TableGrid [][]string

// ListingRecord is one live IPO listing extracted from the GMP table.
// Price and LotSize are pointers because the source publishes rows
// before pricing is announced; either both are set or both are nil.
type ListingRecord struct {
	Name       string    `json:"name"`
	GMPPercent float64   `json:"gmp_percent"`
	Price      *float64  `json:"price,omitempty"`
	LotSize    *int      `json:"lot_size,omitempty"`
	OpenDate   time.Time `json:"open_date"`
	CloseDate  time.Time `json:"close_date"`
}

// HasPricing reports whether the listing has both a price and a lot
// size, i.e. whether tier funding can be computed for it.
func (r ListingRecord) HasPricing() bool {
	return r.Price != nil && r.LotSize != nil
}

// ExtractionReport summarizes one extraction pass over a table grid.
// Skipped counts rows dropped for structural reasons (too few cells,
// unparsable dates); a run where Skipped equals TotalRows usually
// means the source changed its layout.
type ExtractionReport struct {
	RunID       string    `json:"run_id"`
	TotalRows   int       `json:"total_rows"`
	Extracted   int       `json:"extracted"`
	Skipped     int       `json:"skipped"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// Investor tier identifiers used in funding plans.
const (
	TierRetail   = "RETAIL"
	TierSmallHNI = "S-HNI"
	TierBigHNI   = "B-HNI"
)

// TierFunding is the application plan for one investor tier of one
// listing: how many lots to bid and the funds that bid blocks.
type TierFunding struct {
	Tier   string  `json:"tier"`
	Lots   int     `json:"lots"`
	Shares int     `json:"shares"`
	Funds  float64 `json:"funds"`
}
