package adapter

import (
	"strings"

	"parcel-tracker/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
)

var tonamiRules = []statusRule{
	rule(`該当|見つかりません|未登録`, domain.StatusUnregistered),
	rule(`配達完了|配完`, domain.StatusDelivered),
}

// tonamiLatestHeading is repeated per result block; the first one belongs to the
// search form, the second to the parcel.
const (
	tonamiLatestHeading  = "最新状況"
	tonamiLatestOccurs   = 2
	tonamiDeliveredLabel = "配完"
)

// TonamiAdapter handles tracking for Tonami Transportation.
type TonamiAdapter struct {
	baseURL string
}

// NewTonamiAdapter creates a new TonamiAdapter with the given base URL.
func NewTonamiAdapter(baseURL string) *TonamiAdapter {
	return &TonamiAdapter{
		baseURL: baseURL,
	}
}

// Carrier returns the tonami key.
func (a *TonamiAdapter) Carrier() domain.Carrier {
	return domain.CarrierTonami
}

// BuildRequest queries excSearch3 with the number as the first id[] entry.
func (a *TonamiAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	return getWithQuery(a.baseURL, "id[0]", trackingNumber)
}

// Extract reads the parcel's 最新状況 cell and the 配完 row of the status table.
func (a *TonamiAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	latest := tonamiLatest(doc)
	deliveredAt := tonamiDeliveredAt(doc)

	switch {
	case latest != "":
		result := &domain.TrackingResult{Status: normalizeStatus(latest, tonamiRules)}
		if result.Status == domain.StatusDelivered {
			result.Time = deliveredAt
		}
		return result, nil
	case deliveredAt != "":
		return &domain.TrackingResult{Status: domain.StatusDelivered, Time: deliveredAt}, nil
	default:
		return &domain.TrackingResult{Status: domain.StatusUnavailable}, nil
	}
}

// tonamiLatest returns the first cell of the row holding the second 最新状況 heading.
func tonamiLatest(doc *goquery.Document) string {
	var seen int
	var latest string
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if strings.TrimSpace(th.Text()) != tonamiLatestHeading {
			return true
		}
		seen++
		if seen < tonamiLatestOccurs {
			return true
		}
		latest = text(th.Parent().Find("td"))
		return false
	})
	return latest
}

// tonamiDeliveredAt returns the normalized cell of the statusTable row headed 配完.
func tonamiDeliveredAt(doc *goquery.Document) string {
	var deliveredAt string
	doc.Find("table.statusTable tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if text(tr.Find("th")) != tonamiDeliveredLabel {
			return true
		}
		deliveredAt = normalizeTime(text(tr.Find("td")))
		return false
	})
	return deliveredAt
}
