// Package tracking assembles the tracking feature from configuration.
package tracking

import (
	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/core/httpclient"
	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/core/proxy"
	adapter "parcel-tracker/internal/features/tracking/adapters"
	"parcel-tracker/internal/features/tracking/domain"
	"parcel-tracker/internal/features/tracking/service"

	"go.uber.org/zap"
)

// NewService builds the tracking service with every configured adapter, the Track123
// fallback when a secret is configured and, for carriers listed in BROWSER_CARRIERS, the headless browser fetcher.
// The returned close function releases the browser fetcher's proxy forwarder.
func NewService(cfg *config.AppConfig) (*service.TrackingService, func() error, error) {
	couriers, err := cfg.Track123.FallbackCouriers()
	if err != nil {
		return nil, nil, err
	}

	proxySettings := proxy.FromConfig(cfg.Proxy)
	carrierClient := httpclient.NewClientWithProxy(cfg.HTTP.Timeout, proxySettings)
	adapters := adapter.NewCarrierAdapters(cfg.Carriers, cfg.HTTP.UserAgent)

	opts := []service.Option{
		service.WithLookupTimeout(cfg.HTTP.LookupTimeout),
	}

	if cfg.Track123.Enabled() {
		track123 := adapter.NewTrack123Client(
			cfg.Track123.URL,
			cfg.Track123.Secret,
			httpclient.NewClient(cfg.HTTP.Timeout),
		)
		opts = append(opts, service.WithFallback(track123, couriers))
	} else if len(couriers) > 0 {
		logger.Get().Warn("TRACK123_API_SECRET is not set, fallback carriers are disabled",
			zap.Int("fallback_couriers", len(couriers)),
		)
	}

	closeFn := func() error { return nil }
	if len(cfg.HTTP.BrowserCarriers) > 0 {
		browser := adapter.NewBrowserFetcher(carrierClient, proxySettings)
		for _, key := range cfg.HTTP.BrowserCarriers {
			carrier := domain.ParseCarrier(key)
			if carrier == "" {
				continue
			}
			opts = append(opts, service.WithCarrierFetcher(carrier, browser))
		}
		closeFn = browser.Close

		logger.Get().Info("Headless browser enabled",
			zap.Strings("carriers", cfg.HTTP.BrowserCarriers),
			zap.Bool("proxy_enabled", proxySettings.HasProxy()),
		)
	}

	svc := service.NewTrackingService(adapters, adapter.NewHTTPFetcher(carrierClient), opts...)
	return svc, closeFn, nil
}
