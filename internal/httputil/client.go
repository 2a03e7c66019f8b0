package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// userAgent identifies this application to NOAA services, which ask
// automated clients to send a descriptive User-Agent.
const userAgent = "fishcast/1.0 (github.com/monomoy/fishcast)"

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

// NewClient returns an HTTP client with standard timeout configuration
// and a User-Agent header on every request.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &userAgentTransport{base: http.DefaultTransport},
	}
}
