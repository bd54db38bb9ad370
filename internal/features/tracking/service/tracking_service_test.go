package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapter "parcel-tracker/internal/features/tracking/adapters"
	"parcel-tracker/internal/features/tracking/domain"
	"parcel-tracker/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter is a CarrierAdapter returning canned results.
type mockAdapter struct {
	carrier    domain.Carrier
	result     *domain.TrackingResult
	extractErr error
	lastNumber string
}

func (m *mockAdapter) Carrier() domain.Carrier { return m.carrier }

func (m *mockAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	m.lastNumber = trackingNumber
	return &domain.RequestDescriptor{Method: http.MethodGet, URL: "https://example.com/" + trackingNumber}, nil
}

func (m *mockAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.result, nil
}

// mockFetcher records calls and returns a canned body.
type mockFetcher struct {
	body  []byte
	err   error
	calls int
}

func (m *mockFetcher) Fetch(ctx context.Context, req *domain.RequestDescriptor) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.body, nil
}

// mockFallback is a FallbackTracker returning canned results.
type mockFallback struct {
	result      *domain.TrackingResult
	err         error
	calls       int
	courierCode string
}

func (m *mockFallback) Track(ctx context.Context, courierCode, trackingNumber string) (*domain.TrackingResult, error) {
	m.calls++
	m.courierCode = courierCode
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestTrackingService_Lookup_InvalidInput(t *testing.T) {
	fetcher := &mockFetcher{}
	svc := NewTrackingService([]ports.CarrierAdapter{&mockAdapter{carrier: domain.CarrierSagawa}}, fetcher)

	tests := []struct {
		name     string
		carrier  string
		tracking string
	}{
		{"missing carrier", "", "123"},
		{"missing tracking", "sagawa", ""},
		{"blank values", "  ", " - "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Lookup(context.Background(), tt.carrier, tt.tracking)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, fetcher.calls)
}

func TestTrackingService_Lookup_CarrierNotSupported(t *testing.T) {
	svc := NewTrackingService([]ports.CarrierAdapter{&mockAdapter{carrier: domain.CarrierSagawa}}, &mockFetcher{})

	result, err := svc.Lookup(context.Background(), "unknown", "123")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCarrierNotSupported)
}

func TestTrackingService_Lookup_Scrape(t *testing.T) {
	expected := &domain.TrackingResult{Status: domain.StatusDelivered, Time: "2024/12/01 10:30"}
	a := &mockAdapter{carrier: domain.CarrierSagawa, result: expected}
	fetcher := &mockFetcher{body: []byte("<html></html>")}
	svc := NewTrackingService([]ports.CarrierAdapter{a}, fetcher)

	result, err := svc.Lookup(context.Background(), " SAGAWA ", "1234-5678-9012")

	require.NoError(t, err)
	assert.Equal(t, expected, result)
	assert.Equal(t, "123456789012", a.lastNumber)
	assert.Equal(t, 1, fetcher.calls)
}

func TestTrackingService_Lookup_ScrapeErrors(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		a := &mockAdapter{carrier: domain.CarrierSagawa}
		svc := NewTrackingService([]ports.CarrierAdapter{a}, &mockFetcher{err: errors.New("connection refused")})

		result, err := svc.Lookup(context.Background(), "sagawa", "123")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrUpstream)
		assert.NotContains(t, err.Error(), "connection refused")
	})

	t.Run("extract error", func(t *testing.T) {
		a := &mockAdapter{carrier: domain.CarrierSagawa, extractErr: errors.New("bad html")}
		svc := NewTrackingService([]ports.CarrierAdapter{a}, &mockFetcher{body: []byte("x")})

		_, err := svc.Lookup(context.Background(), "sagawa", "123")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestTrackingService_Lookup_CarrierFetcher(t *testing.T) {
	a := &mockAdapter{carrier: domain.CarrierYamato, result: &domain.TrackingResult{Status: "輸送中"}}
	defaultFetcher := &mockFetcher{}
	browser := &mockFetcher{body: []byte("<html></html>")}
	svc := NewTrackingService([]ports.CarrierAdapter{a}, defaultFetcher,
		WithCarrierFetcher(domain.CarrierYamato, browser),
	)

	_, err := svc.Lookup(context.Background(), "yamato", "123")

	require.NoError(t, err)
	assert.Zero(t, defaultFetcher.calls)
	assert.Equal(t, 1, browser.calls)
}

func TestTrackingService_Lookup_Fallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fallback := &mockFallback{result: &domain.TrackingResult{Status: domain.StatusDelivered, Time: "2024/12/01 10:30"}}
		svc := NewTrackingService(nil, &mockFetcher{},
			WithFallback(fallback, map[string]string{"japanpost": "japan-post"}),
		)

		result, err := svc.Lookup(context.Background(), "japanpost", "EJ123456789JP")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, result.Status)
		assert.Equal(t, "japan-post", fallback.courierCode)
	})

	t.Run("network error", func(t *testing.T) {
		fallback := &mockFallback{err: errors.New("dial tcp: timeout")}
		svc := NewTrackingService(nil, &mockFetcher{},
			WithFallback(fallback, map[string]string{"japanpost": "japan-post"}),
		)

		result, err := svc.Lookup(context.Background(), "japanpost", "EJ123456789JP")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestTrackingService_Lookup_AdapterTakesPrecedence(t *testing.T) {
	a := &mockAdapter{carrier: domain.CarrierSagawa, result: &domain.TrackingResult{Status: "輸送中"}}
	fetcher := &mockFetcher{body: []byte("<html></html>")}
	fallback := &mockFallback{result: &domain.TrackingResult{Status: "IN_TRANSIT"}}
	svc := NewTrackingService([]ports.CarrierAdapter{a}, fetcher,
		WithFallback(fallback, map[string]string{"sagawa": "sagawa"}),
	)

	result, err := svc.Lookup(context.Background(), "sagawa", "123")

	require.NoError(t, err)
	assert.Equal(t, "輸送中", result.Status)
	assert.Equal(t, 1, fetcher.calls)
	assert.Zero(t, fallback.calls)
}

func TestTrackingService_Lookup_Timeout(t *testing.T) {
	a := &mockAdapter{carrier: domain.CarrierSagawa}
	blocking := fetcherFunc(func(ctx context.Context, _ *domain.RequestDescriptor) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	svc := NewTrackingService([]ports.CarrierAdapter{a}, blocking, WithLookupTimeout(20*time.Millisecond))

	_, err := svc.Lookup(context.Background(), "sagawa", "123")

	assert.ErrorIs(t, err, ErrUpstream)
}

type fetcherFunc func(ctx context.Context, req *domain.RequestDescriptor) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, req *domain.RequestDescriptor) ([]byte, error) {
	return f(ctx, req)
}

func TestTrackingService_Carriers(t *testing.T) {
	svc := NewTrackingService(
		[]ports.CarrierAdapter{
			&mockAdapter{carrier: domain.CarrierYamato},
			&mockAdapter{carrier: domain.CarrierSagawa},
		},
		&mockFetcher{},
		WithFallback(&mockFallback{}, map[string]string{"japanpost": "japan-post", "sagawa": "sagawa"}),
	)

	assert.Equal(t, []domain.CarrierInfo{
		{Key: "japanpost", Source: domain.SourceFallback},
		{Key: "sagawa", Source: domain.SourceScrape},
		{Key: "yamato", Source: domain.SourceScrape},
	}, svc.Carriers())
}

// newCarrierServer serves page for every request.
func newCarrierServer(t *testing.T, page string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, page)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestTrackingService_EndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		carrier string
		page    string
		build   func(url string) ports.CarrierAdapter
		want    domain.TrackingResult
	}{
		{
			name:    "sagawa unregistered",
			carrier: "sagawa",
			page:    `<html><body><span class="state">該当なし</span></body></html>`,
			build:   func(url string) ports.CarrierAdapter { return adapter.NewSagawaAdapter(url) },
			want:    domain.TrackingResult{Status: domain.StatusUnregistered, Time: ""},
		},
		{
			name:    "seino delivered",
			carrier: "seino",
			page:    `<html><body><input type="text" id="haitatsuJokyo0" value="配達済み 12/01 10:30" readonly></body></html>`,
			build:   func(url string) ports.CarrierAdapter { return adapter.NewSeinoAdapter(url) },
			want:    domain.TrackingResult{Status: domain.StatusDelivered, Time: "12/01 10:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newCarrierServer(t, tt.page)
			svc := NewTrackingService(
				[]ports.CarrierAdapter{tt.build(ts.URL)},
				adapter.NewHTTPFetcher(&http.Client{Timeout: time.Second}),
			)

			first, err := svc.Lookup(context.Background(), tt.carrier, "1234567890")
			require.NoError(t, err)
			assert.Equal(t, tt.want, *first)

			second, err := svc.Lookup(context.Background(), tt.carrier, "1234567890")
			require.NoError(t, err)
			assert.Equal(t, *first, *second)
		})
	}
}
