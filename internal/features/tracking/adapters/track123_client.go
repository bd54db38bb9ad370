package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"parcel-tracker/internal/features/tracking/domain"
)

const (
	track123SecretHeader = "Track123-Api-Secret"
	track123SuccessCode  = "00000"
	maxAPIResponseSize   = 1 << 20
)

// fieldPath addresses a value inside decoded JSON. Numeric segments index arrays.
type fieldPath []string

func path(s string) fieldPath {
	return strings.Split(s, ".")
}

// lookup walks p through maps and slices and reports whether a non-null value was found.
func (p fieldPath) lookup(v any) (any, bool) {
	cur := v
	for _, seg := range p {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// firstString returns the first path resolving to a non-empty scalar, as text.
func firstString(v any, paths ...fieldPath) string {
	for _, p := range paths {
		raw, ok := p.lookup(v)
		if !ok {
			continue
		}
		var s string
		switch val := raw.(type) {
		case string:
			s = val
		case json.Number:
			s = val.String()
		case bool:
			s = strconv.FormatBool(val)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// The API has moved records between these envelopes across versions.
var (
	track123RecordPaths = []fieldPath{
		path("data.accepted.content.0"),
		path("data.accepted.0"),
		path("data.content.0"),
	}
	track123RejectedPath = path("data.rejected.0")

	track123StatusPaths = []fieldPath{
		path("transitStatus"),
		path("trackingStatus"),
		path("status"),
	}
	track123TimePaths = []fieldPath{
		path("deliveredTime"),
		path("lastTrackingTime"),
		path("localLogisticsInfo.trackingDetails.0.eventTime"),
	}
)

var track123Statuses = map[string]string{
	"DELIVERED": domain.StatusDelivered,
	"NOT_FOUND": domain.StatusUnregistered,
	"NO_RECORD": domain.StatusUnregistered,
}

// track123Time matches ISO-like timestamps such as 2024-12-01T10:30:00+09:00.
var track123Time = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})[T ]([0-9]{2}):([0-9]{2})`)

// Track123Client queries the Track123 aggregation API for carriers without a scraper.
type Track123Client struct {
	url    string
	secret string
	client *http.Client
}

// NewTrack123Client creates a client for the query endpoint at url.
func NewTrack123Client(url, secret string, client *http.Client) *Track123Client {
	return &Track123Client{
		url:    url,
		secret: secret,
		client: client,
	}
}

// Track looks up one tracking number under the given Track123 courier code.
func (c *Track123Client) Track(ctx context.Context, courierCode, trackingNumber string) (*domain.TrackingResult, error) {
	payload, err := json.Marshal(map[string]any{
		"trackNos":    []string{trackingNumber},
		"courierCode": courierCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode track123 request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(track123SecretHeader, c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("track123 returned status: %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxAPIResponseSize))
	decoder.UseNumber()

	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode track123 response: %w", err)
	}

	return parseTrack123(body)
}

func parseTrack123(body map[string]any) (*domain.TrackingResult, error) {
	if code := firstString(body, path("code")); code != "" && code != track123SuccessCode {
		return nil, fmt.Errorf("track123 returned code %s: %s", code, firstString(body, path("msg")))
	}

	var record any
	for _, p := range track123RecordPaths {
		if v, ok := p.lookup(body); ok {
			record = v
			break
		}
	}
	if record == nil {
		if _, ok := track123RejectedPath.lookup(body); ok {
			return &domain.TrackingResult{Status: domain.StatusUnregistered}, nil
		}
		return nil, fmt.Errorf("track123 response has no tracking record")
	}

	return &domain.TrackingResult{
		Status: track123Status(firstString(record, track123StatusPaths...)),
		Time:   track123FormatTime(firstString(record, track123TimePaths...)),
	}, nil
}

func track123Status(raw string) string {
	if raw == "" {
		return domain.StatusUnknown
	}
	if status, ok := track123Statuses[strings.ToUpper(raw)]; ok {
		return status
	}
	return raw
}

// track123FormatTime rewrites ISO timestamps as "YYYY/MM/DD HH:MM"; other text passes through.
func track123FormatTime(raw string) string {
	m := track123Time.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return fmt.Sprintf("%s/%s/%s %s:%s", m[1], m[2], m[3], m[4], m[5])
}
