package adapter

import (
	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/features/tracking/ports"
)

// NewCarrierAdapters builds one adapter per scraped carrier from the configured endpoints.
func NewCarrierAdapters(cfg config.CarriersConfig, userAgent string) []ports.CarrierAdapter {
	return []ports.CarrierAdapter{
		NewSagawaAdapter(cfg.SagawaURL),
		NewYamatoAdapter(cfg.YamatoURL, userAgent),
		NewFukutsuAdapter(cfg.FukutsuURL),
		NewSeinoAdapter(cfg.SeinoURL),
		NewTonamiAdapter(cfg.TonamiURL),
		NewHidaAdapter(cfg.HidaURL),
	}
}
