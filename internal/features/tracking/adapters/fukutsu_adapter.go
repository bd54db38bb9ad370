package adapter

import (
	"parcel-tracker/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
)

var fukutsuRules = []statusRule{
	rule(`^該当データはありません。?$`, domain.StatusUnregistered),
	rule(`^配達完了です$`, domain.StatusDelivered),
}

// fukutsuCompletedAtIndex is the position of the completion time among the plain
// <strong> cells of the result page.
const fukutsuCompletedAtIndex = 4

// FukutsuAdapter handles tracking for Fukuyama Transporting.
type FukutsuAdapter struct {
	baseURL string
}

// NewFukutsuAdapter creates a new FukutsuAdapter with the given base URL.
func NewFukutsuAdapter(baseURL string) *FukutsuAdapter {
	return &FukutsuAdapter{
		baseURL: baseURL,
	}
}

// Carrier returns the fukutsu key.
func (a *FukutsuAdapter) Carrier() domain.Carrier {
	return domain.CarrierFukutsu
}

// BuildRequest appends the number to tracking_no_hunt as a path segment.
func (a *FukutsuAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	return getWithPath(a.baseURL, trackingNumber)
}

// Extract reads strong.redbold and, once delivered, the positional completion time.
func (a *FukutsuAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	raw := text(doc.Find("strong.redbold"))
	if raw == "" {
		return &domain.TrackingResult{Status: domain.StatusUnavailable}, nil
	}

	result := &domain.TrackingResult{Status: normalizeStatus(raw, fukutsuRules)}
	if result.Status == domain.StatusDelivered {
		result.Time = normalizeTime(text(plainStrong(doc).Eq(fukutsuCompletedAtIndex)))
	}
	return result, nil
}

// plainStrong selects <strong> elements without attributes or child elements.
func plainStrong(doc *goquery.Document) *goquery.Selection {
	return doc.Find("strong").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return len(s.Nodes[0].Attr) == 0 && s.Children().Length() == 0 && s.Text() != ""
	})
}
