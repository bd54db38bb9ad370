package domain

// Lookup sources a carrier can be served from.
const (
	SourceScrape   = "scrape"
	SourceFallback = "fallback"
)

// CarrierInfo describes one supported carrier key.
type CarrierInfo struct {
	Key    string `json:"key" example:"sagawa"`
	Source string `json:"source" example:"scrape"`
}
