package adapter

import (
	"fmt"
	"net/http"
	"net/url"

	"parcel-tracker/internal/features/tracking/domain"
)

const acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// getWithQuery describes a GET to baseURL with key=trackingNumber added to its query.
func getWithQuery(baseURL, key, trackingNumber string) (*domain.RequestDescriptor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid carrier url %q: %w", baseURL, err)
	}

	q := u.Query()
	q.Set(key, trackingNumber)
	u.RawQuery = q.Encode()

	return &domain.RequestDescriptor{
		Method: http.MethodGet,
		URL:    u.String(),
		Header: defaultHeader(),
	}, nil
}

// getWithPath describes a GET to baseURL with trackingNumber appended as the last path segment.
func getWithPath(baseURL, trackingNumber string) (*domain.RequestDescriptor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid carrier url %q: %w", baseURL, err)
	}

	return &domain.RequestDescriptor{
		Method: http.MethodGet,
		URL:    u.JoinPath(trackingNumber).String(),
		Header: defaultHeader(),
	}, nil
}

// postForm describes a form-encoded POST to baseURL.
func postForm(baseURL string, form url.Values) (*domain.RequestDescriptor, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid carrier url %q: %w", baseURL, err)
	}

	header := defaultHeader()
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	return &domain.RequestDescriptor{
		Method: http.MethodPost,
		URL:    baseURL,
		Header: header,
		Body:   form.Encode(),
	}, nil
}

func defaultHeader() http.Header {
	header := make(http.Header)
	header.Set("Accept", acceptHTML)
	header.Set("Accept-Language", "ja,en;q=0.5")
	return header
}
