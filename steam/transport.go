package steam

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// loggingTransport logs each request at debug level. Query strings
// are left out of the log since they can carry access tokens.
type loggingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

// NewLoggingTransport wraps next so requests are logged at debug level and
// failures at error level. A nil next wraps http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, logger *log.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	t.logger.Debug("http request", "method", req.Method, "url", target)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Error("http request failed", "method", req.Method, "url", target, "error", err)
		return nil, err
	}

	t.logger.Debug("http response",
		"status", resp.Status,
		"duration", time.Since(start),
		"method", req.Method,
		"url", target,
	)

	return resp, nil
}
