package domain

import "net/http"

// RequestDescriptor fully describes one outbound request to a carrier page.
type RequestDescriptor struct {
	Method string
	URL    string
	Header http.Header
	// Body is the encoded request body; empty for GET.
	Body string
}
