package ports

import (
	"context"

	"parcel-tracker/internal/features/tracking/domain"
)

// CarrierAdapter knows how to query one carrier's public tracking page and read the answer.
// Implementations hold no per-request state.
type CarrierAdapter interface {
	// Carrier returns the key the adapter is registered under.
	Carrier() domain.Carrier
	// BuildRequest describes the request that looks up trackingNumber.
	BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error)
	// Extract parses the page body into a normalized result.
	Extract(body []byte) (*domain.TrackingResult, error)
}

// Fetcher performs a described request and returns the response body.
// Non-success HTTP statuses are errors.
type Fetcher interface {
	Fetch(ctx context.Context, req *domain.RequestDescriptor) ([]byte, error)
}

// FallbackTracker queries an aggregation service for carriers without an adapter.
type FallbackTracker interface {
	Track(ctx context.Context, courierCode, trackingNumber string) (*domain.TrackingResult, error)
}
