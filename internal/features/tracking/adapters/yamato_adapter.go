package adapter

import (
	"net/url"
	"regexp"
	"strings"

	"parcel-tracker/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
)

var yamatoRules = []statusRule{
	rule(`伝票番号未登録|伝票番号誤り`, domain.StatusUnregistered),
	rule(`配達完了`, domain.StatusDelivered),
}

// yamatoSummaryTime matches times like "12月01日 10:30" in the summary block.
var yamatoSummaryTime = regexp.MustCompile(`[0-9]{1,2}月[0-9]{1,2}日\s*[0-9]{1,2}[:：][0-9]{2}`)

// YamatoAdapter handles tracking for Yamato Transport (Kuroneko).
// The tneko endpoint rejects requests without a browser User-Agent and Referer.
type YamatoAdapter struct {
	baseURL   string
	userAgent string
}

// NewYamatoAdapter creates a new YamatoAdapter posting to baseURL with the given User-Agent.
func NewYamatoAdapter(baseURL, userAgent string) *YamatoAdapter {
	return &YamatoAdapter{
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// Carrier returns the yamato key.
func (a *YamatoAdapter) Carrier() domain.Carrier {
	return domain.CarrierYamato
}

// BuildRequest posts the single-number form the public page submits.
func (a *YamatoAdapter) BuildRequest(trackingNumber string) (*domain.RequestDescriptor, error) {
	req, err := postForm(a.baseURL, url.Values{
		"number00": {"1"},
		"number01": {trackingNumber},
	})
	if err != nil {
		return nil, err
	}

	req.Header.Set("Referer", a.baseURL)
	req.Header.Set("User-Agent", a.userAgent)
	return req, nil
}

// Extract reads the invoice state title and, once delivered, the completion time.
func (a *YamatoAdapter) Extract(body []byte) (*domain.TrackingResult, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	raw := text(doc.Find("h4.tracking-invoice-block-state-title"))
	if raw == "" {
		return &domain.TrackingResult{Status: domain.StatusUnavailable}, nil
	}

	result := &domain.TrackingResult{Status: normalizeStatus(raw, yamatoRules)}
	if result.Status == domain.StatusDelivered {
		result.Time = yamatoCompletedAt(doc)
	}
	return result, nil
}

// yamatoCompletedAt prefers the dated 配達完了 step of the detail list and falls back
// to scanning the summary block.
func yamatoCompletedAt(doc *goquery.Document) string {
	var completedAt string
	doc.Find("div.tracking-invoice-block-detail ol li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if !strings.Contains(li.Find("div.item").Text(), "配達完了") {
			return true
		}
		completedAt = text(li.Find("div.date"))
		return false
	})

	if completedAt == "" {
		summary := doc.Find("div.tracking-invoice-block-summary").First().Text()
		completedAt = yamatoSummaryTime.FindString(summary)
	}

	return normalizeTime(completedAt)
}
