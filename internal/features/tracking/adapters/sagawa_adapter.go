package adapter

import (
	"strings"

	"parcel-tracker/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
)

var sagawaRules = []statusRule{
	rule(`^該当なし$`, domain.StatusUnregistered),
	rule(`配達完了`, domain.StatusDelivered),
}

// SagawaAdapter handles tracking for Sagawa Express.
type SagawaAdapter struct {
	baseURL string
}

// NewSagawaAdapter creates a new SagawaAdapter with the given base URL.
func NewSagawaAdapter(baseURL string) *SagawaAdapter {
	return &SagawaAdapter{
		baseURL: baseURL,
	}
}

// Carrier returns the sagawa key.
func (a *SagawaAdapter) Carrier() domain.Carrier {
	return domain.CarrierSagawa
}

// BuildRequest queries okurijosearch.do with the number in okurijoNo.
func (a *SagawaAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	return getWithQuery(a.baseURL, "okurijoNo", trackingNumber)
}

// Extract reads span.state and, once delivered, the 配達完了日 entry of the okurijo_info list.
func (a *SagawaAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	raw := text(doc.Find("span.state"))
	if raw == "" {
		return &domain.TrackingResult{Status: domain.StatusUnavailable}, nil
	}

	result := &domain.TrackingResult{Status: normalizeStatus(raw, sagawaRules)}
	if result.Status != domain.StatusUnregistered {
		result.Time = sagawaCompletedAt(doc)
	}
	return result, nil
}

// sagawaCompletedAt returns the normalized dd following the 配達完了日 dt.
func sagawaCompletedAt(doc *goquery.Document) string {
	var completedAt string
	doc.Find("dl.okurijo_info dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.Contains(dt.Text(), "配達完了日") {
			return true
		}
		completedAt = normalizeTime(text(dt.NextFiltered("dd")))
		return false
	})
	return completedAt
}
