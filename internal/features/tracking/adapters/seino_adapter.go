package adapter

import (
	"regexp"

	"parcel-tracker/internal/features/tracking/domain"
)

var seinoRules = []statusRule{
	rule(`未登録|誤り`, domain.StatusUnregistered),
	rule(`配達済み`, domain.StatusDelivered),
}

// seinoInlineTime matches the "12/01 10:30" stamp Seino appends to the status value.
var seinoInlineTime = regexp.MustCompile(`[0-9]{1,4}/[0-9]{1,2}(?:/[0-9]{1,2})?\s*[0-9]{1,2}:[0-9]{2}`)

// SeinoAdapter handles tracking for Seino Transportation.
// Results are rendered into read-only form inputs rather than text nodes.
type SeinoAdapter struct {
	baseURL string
}

// NewSeinoAdapter creates a new SeinoAdapter with the given base URL.
func NewSeinoAdapter(baseURL string) *SeinoAdapter {
	return &SeinoAdapter{
		baseURL: baseURL,
	}
}

// Carrier returns the seino key.
func (a *SeinoAdapter) Carrier() domain.Carrier {
	return domain.CarrierSeino
}

// BuildRequest queries gnpquery.pgm with the number in GNPNO1.
func (a *SeinoAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	return getWithQuery(a.baseURL, "GNPNO1", trackingNumber)
}

// Extract reads the first result row's delivery state and delivery date inputs.
func (a *SeinoAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	raw := attr(doc.Find("input#haitatsuJokyo0"), "value")
	if raw == "" {
		return &domain.TrackingResult{Status: domain.StatusUnavailable}, nil
	}

	result := &domain.TrackingResult{Status: normalizeStatus(raw, seinoRules)}
	if result.Status == domain.StatusDelivered {
		result.Time = attr(doc.Find("input#haitatsuTenshoDate0"), "value")
		if result.Time == "" {
			result.Time = seinoInlineTime.FindString(raw)
		}
	}
	return result, nil
}
