package adapter

import (
	"parcel-tracker/internal/features/tracking/domain"
)

var hidaRules = []statusRule{
	rule(`該当なし`, domain.StatusUnregistered),
	rule(`配達完了|配達済`, domain.StatusDelivered),
}

// HidaAdapter handles tracking for Hida Transport.
// The page renders no status element at all for unknown numbers.
type HidaAdapter struct {
	baseURL string
}

// NewHidaAdapter creates a new HidaAdapter with the given base URL.
func NewHidaAdapter(baseURL string) *HidaAdapter {
	return &HidaAdapter{
		baseURL: baseURL,
	}
}

// Carrier returns the hida key.
func (a *HidaAdapter) Carrier() domain.Carrier {
	return domain.CarrierHida
}

// BuildRequest queries sho100.html with the number in okurijoNo.
func (a *HidaAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	return getWithQuery(a.baseURL, "okurijoNo", trackingNumber)
}

// Extract reads the status cell and the labeled time cell.
func (a *HidaAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	raw := text(doc.Find("span.status, td.status"))
	if raw == "" {
		return &domain.TrackingResult{Status: domain.StatusUnregistered}, nil
	}

	result := &domain.TrackingResult{Status: normalizeStatus(raw, hidaRules)}
	if result.Status != domain.StatusUnregistered {
		result.Time = normalizeTime(text(doc.Find("td.time, .date, .delivery-time")))
	}
	return result, nil
}
