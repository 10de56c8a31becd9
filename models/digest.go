package models

// Digest is the full output of one pipeline run, returned by the
// preview endpoint so an operator can inspect what the bot would send
// without actually sending it.
type Digest struct {
	Records     []ListingRecord  `json:"records"`
	Eligible    []ListingRecord  `json:"eligible"`
	Message     string           `json:"message"`
	Report      ExtractionReport `json:"report"`
	Fingerprint string           `json:"fingerprint"`
	Suppressed  bool             `json:"suppressed"`
}
