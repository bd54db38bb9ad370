package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/core/metrics"
	"parcel-tracker/internal/features/tracking/domain"
	"parcel-tracker/internal/features/tracking/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput is returned when the carrier or tracking number is missing.
	ErrInvalidInput = errors.New("carrier and tracking number are required")
	// ErrCarrierNotSupported is returned when neither an adapter nor a fallback courier matches.
	ErrCarrierNotSupported = errors.New("carrier not supported")
	// ErrUpstream is returned when the carrier page or the aggregation API cannot be used.
	// The underlying cause is logged, never returned.
	ErrUpstream = errors.New("failed to fetch tracking status")
)

// unsupportedLabel keeps arbitrary user input out of metric label values.
const unsupportedLabel = "unsupported"

// TrackingService dispatches lookups to the carrier adapter registered for a key,
// or to the aggregation API when only a fallback courier code is known.
// It holds no mutable state after construction and is safe for concurrent use.
type TrackingService struct {
	adapters map[domain.Carrier]ports.CarrierAdapter
	fetcher  ports.Fetcher
	fetchers map[domain.Carrier]ports.Fetcher

	fallback ports.FallbackTracker
	couriers map[domain.Carrier]string

	timeout time.Duration
	logger  *zap.Logger
	tracer  trace.Tracer
}

// Option configures a TrackingService.
type Option func(*TrackingService)

// WithFallback routes carriers listed in couriers (key -> courier code) to tracker.
// Keys that also have an adapter keep using the adapter.
func WithFallback(tracker ports.FallbackTracker, couriers map[string]string) Option {
	return func(s *TrackingService) {
		s.fallback = tracker
		for key, code := range couriers {
			s.couriers[domain.ParseCarrier(key)] = code
		}
	}
}

// WithCarrierFetcher overrides the fetcher used for one carrier.
func WithCarrierFetcher(carrier domain.Carrier, fetcher ports.Fetcher) Option {
	return func(s *TrackingService) {
		s.fetchers[carrier] = fetcher
	}
}

// WithLookupTimeout bounds each lookup. Zero leaves the caller's deadline alone.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *TrackingService) {
		s.timeout = d
	}
}

// NewTrackingService creates a TrackingService over the given adapters. fetcher performs
// the adapters' requests unless a carrier-specific fetcher is configured.
func NewTrackingService(adapters []ports.CarrierAdapter, fetcher ports.Fetcher, opts ...Option) *TrackingService {
	s := &TrackingService{
		adapters: make(map[domain.Carrier]ports.CarrierAdapter, len(adapters)),
		fetcher:  fetcher,
		fetchers: make(map[domain.Carrier]ports.Fetcher),
		couriers: make(map[domain.Carrier]string),
		logger:   logger.Get(),
		tracer:   otel.Tracer("parcel-tracker/tracking"),
	}
	for _, a := range adapters {
		s.adapters[a.Carrier()] = a
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the current status of trackingNumber at carrier.
func (s *TrackingService) Lookup(ctx context.Context, carrier, trackingNumber string) (*domain.TrackingResult, error) {
	key := domain.ParseCarrier(carrier)
	trackingNumber = domain.NormalizeTrackingNumber(trackingNumber)
	label := s.metricLabel(key)

	if key == "" || trackingNumber == "" {
		metrics.ObserveLookup(label, metrics.SourceNone, metrics.OutcomeInvalid)
		return nil, ErrInvalidInput
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "TrackingService.Lookup", trace.WithAttributes(
		attribute.String("tracking.carrier", string(key)),
	))
	defer span.End()

	var (
		result *domain.TrackingResult
		source string
		err    error
	)
	start := time.Now()

	if adapter, ok := s.adapters[key]; ok {
		source = metrics.SourceScrape
		result, err = s.scrape(ctx, adapter, trackingNumber)
	} else if code, ok := s.couriers[key]; ok && s.fallback != nil {
		source = metrics.SourceFallback
		result, err = s.fallback.Track(ctx, code, trackingNumber)
	} else {
		metrics.ObserveLookup(label, metrics.SourceNone, metrics.OutcomeUnsupported)
		span.SetStatus(codes.Error, ErrCarrierNotSupported.Error())
		return nil, ErrCarrierNotSupported
	}

	metrics.ObserveUpstream(label, source, time.Since(start))
	span.SetAttributes(attribute.String("tracking.source", source))

	if err != nil {
		s.logger.Error("Tracking lookup failed",
			zap.String("carrier", string(key)),
			zap.String("source", source),
			zap.String("tracking_number", trackingNumber),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrUpstream.Error())
		metrics.ObserveLookup(label, source, metrics.OutcomeUpstream)
		return nil, fmt.Errorf("%s: %w", key, ErrUpstream)
	}

	s.logger.Debug("Tracking lookup completed",
		zap.String("carrier", string(key)),
		zap.String("source", source),
		zap.String("status", result.Status),
	)
	metrics.ObserveLookup(label, source, metrics.OutcomeOK)
	return result, nil
}

// Carriers lists every supported key with the source that serves it, sorted by key.
func (s *TrackingService) Carriers() []domain.CarrierInfo {
	carriers := make([]domain.CarrierInfo, 0, len(s.adapters)+len(s.couriers))
	for key := range s.adapters {
		carriers = append(carriers, domain.CarrierInfo{Key: string(key), Source: domain.SourceScrape})
	}
	if s.fallback != nil {
		for key := range s.couriers {
			if _, ok := s.adapters[key]; ok {
				continue
			}
			carriers = append(carriers, domain.CarrierInfo{Key: string(key), Source: domain.SourceFallback})
		}
	}

	sort.Slice(carriers, func(i, j int) bool {
		return carriers[i].Key < carriers[j].Key
	})
	return carriers
}

func (s *TrackingService) scrape(ctx context.Context, adapter ports.CarrierAdapter, trackingNumber string) (*domain.TrackingResult, error) {
	req, err := adapter.BuildRequest(trackingNumber)
	if err != nil {
		return nil, err
	}

	fetcher := s.fetcher
	if f, ok := s.fetchers[adapter.Carrier()]; ok {
		fetcher = f
	}

	body, err := fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return adapter.Extract(body)
}

func (s *TrackingService) metricLabel(key domain.Carrier) string {
	if _, ok := s.adapters[key]; ok {
		return string(key)
	}
	if _, ok := s.couriers[key]; ok && s.fallback != nil {
		return string(key)
	}
	return unsupportedLabel
}
