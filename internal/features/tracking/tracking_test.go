package tracking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/features/tracking/domain"
	"parcel-tracker/internal/features/tracking/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		HTTP: config.HTTPConfig{
			Timeout:       time.Second,
			LookupTimeout: 2 * time.Second,
			UserAgent:     "test-agent",
		},
		Track123: config.Track123Config{
			URL:      "http://127.0.0.1:1",
			Secret:   "secret",
			Couriers: "japanpost:japan-post",
		},
		Carriers: config.CarriersConfig{
			SagawaURL:  "http://127.0.0.1:1/sagawa",
			YamatoURL:  "http://127.0.0.1:1/yamato",
			FukutsuURL: "http://127.0.0.1:1/fukutsu",
			SeinoURL:   "http://127.0.0.1:1/seino",
			TonamiURL:  "http://127.0.0.1:1/tonami",
			HidaURL:    "http://127.0.0.1:1/hida",
		},
	}
}

func TestNewService_Carriers(t *testing.T) {
	svc, closeFn, err := NewService(testConfig())
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, []domain.CarrierInfo{
		{Key: "fukutsu", Source: domain.SourceScrape},
		{Key: "hida", Source: domain.SourceScrape},
		{Key: "japanpost", Source: domain.SourceFallback},
		{Key: "sagawa", Source: domain.SourceScrape},
		{Key: "seino", Source: domain.SourceScrape},
		{Key: "tonami", Source: domain.SourceScrape},
		{Key: "yamato", Source: domain.SourceScrape},
	}, svc.Carriers())
}

func TestNewService_InvalidCouriers(t *testing.T) {
	cfg := testConfig()
	cfg.Track123.Couriers = "japanpost"

	_, _, err := NewService(cfg)
	assert.Error(t, err)
}

func TestNewService_FallbackLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Track123-Api-Secret"))
		io.WriteString(w, `{"code":"00000","data":{"accepted":{"content":[{"transitStatus":"DELIVERED","deliveredTime":"2024-12-01T10:30:00+09:00"}]}}}`)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.Track123.URL = ts.URL

	svc, closeFn, err := NewService(cfg)
	require.NoError(t, err)
	defer closeFn()

	result, err := svc.Lookup(context.Background(), "japanpost", "EJ123456789JP")
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingResult{Status: domain.StatusDelivered, Time: "2024/12/01 10:30"}, *result)
}

func TestNewService_BrowserCarriers(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.BrowserCarriers = []string{"yamato", " "}

	svc, closeFn, err := NewService(cfg)
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.NoError(t, closeFn())
}

func TestNewService_WithoutTrack123Secret(t *testing.T) {
	cfg := testConfig()
	cfg.Track123.Secret = ""

	svc, closeFn, err := NewService(cfg)
	require.NoError(t, err)
	defer closeFn()

	for _, c := range svc.Carriers() {
		assert.Equal(t, domain.SourceScrape, c.Source, c.Key)
	}

	_, err = svc.Lookup(context.Background(), "japanpost", "EJ123456789JP")
	assert.ErrorIs(t, err, service.ErrCarrierNotSupported)
}
