package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"parcel-tracker/internal/features/tracking/domain"

	"golang.org/x/net/html/charset"
)

// maxPageSize caps how much of a carrier page is read.
const maxPageSize = 4 << 20

// HTTPFetcher performs described requests with a plain HTTP client and returns
// UTF-8 bodies, converting Shift_JIS and EUC-JP pages on the way.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher using the given client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{
		client: client,
	}
}

// Fetch executes req and returns the decoded body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *domain.RequestDescriptor) ([]byte, error) {
	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("carrier returned status: %d", resp.StatusCode)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to detect page encoding: %w", err)
	}

	page, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return page, nil
}
