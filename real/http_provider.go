package real

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/opd-ai/scoremix/interfaces"
	"github.com/sirupsen/logrus"
)

// DefaultUserAgent is sent when the configuration leaves UserAgent empty.
const DefaultUserAgent = "scoremix/1.0"

// HTTPProvider fetches track payloads over HTTP(S).
type HTTPProvider struct {
	client    *http.Client
	userAgent string
	now       func() time.Time
}

// NewHTTPProvider creates a provider. The client has no overall timeout;
// callers bound each attempt through the request context.
func NewHTTPProvider(config *interfaces.AcquisitionConfig) *HTTPProvider {
	ua := DefaultUserAgent
	if config != nil && config.UserAgent != "" {
		ua = config.UserAgent
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewHTTPProvider",
		"user_agent": ua,
	}).Info("Creating HTTP track provider")

	return &HTTPProvider{
		client:    &http.Client{},
		userAgent: ua,
		now:       time.Now,
	}
}

// SetHTTPClient replaces the HTTP client (primarily for testing).
func (p *HTTPProvider) SetHTTPClient(c *http.Client) {
	p.client = c
}

// Fetch implements interfaces.ITrackProvider.
func (p *HTTPProvider) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	u, err := url.Parse(locator)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &interfaces.FetchError{Kind: interfaces.FetchNotFound, Err: fmt.Errorf("unsupported locator %q", locator)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &interfaces.FetchError{Kind: interfaces.FetchNotFound, Err: err}
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "audio/*, application/ogg;q=0.9, */*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithFields(logrus.Fields{
			"function": "HTTPProvider.Fetch",
			"locator":  locator,
			"error":    err.Error(),
		}).Warn("HTTP request failed")
		return nil, &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function":       "HTTPProvider.Fetch",
		"locator":        locator,
		"status":         resp.StatusCode,
		"content_length": resp.ContentLength,
	}).Debug("HTTP response received")

	if fe := p.classify(resp); fe != nil {
		resp.Body.Close()
		return nil, fe
	}

	// An empty 200 is a track without a preview.
	body := bufio.NewReader(resp.Body)
	if _, err := body.Peek(1); err != nil {
		resp.Body.Close()
		if err == io.EOF {
			return nil, &interfaces.FetchError{Kind: interfaces.FetchNoPreview, Err: fmt.Errorf("empty body")}
		}
		return nil, &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: err}
	}
	return &readCloser{Reader: body, Closer: resp.Body}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// classify maps a non-success status to a FetchError, or nil for 2xx.
func (p *HTTPProvider) classify(resp *http.Response) *interfaces.FetchError {
	status := resp.StatusCode
	switch {
	case status == http.StatusNoContent:
		return &interfaces.FetchError{Kind: interfaces.FetchNoPreview, Err: fmt.Errorf("status %d", status)}
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests,
		status == http.StatusServiceUnavailable && resp.Header.Get("Retry-After") != "":
		return &interfaces.FetchError{
			Kind:       interfaces.FetchRateLimited,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), p.now()),
			Err:        fmt.Errorf("status %d", status),
		}
	case status >= 500:
		return &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: fmt.Errorf("status %d", status)}
	default:
		return &interfaces.FetchError{Kind: interfaces.FetchNotFound, Err: fmt.Errorf("status %d", status)}
	}
}

// parseRetryAfter reads a Retry-After value as delay-seconds or an HTTP date.
// Unparseable or past values yield zero.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// Name implements interfaces.ITrackProvider.
func (p *HTTPProvider) Name() string { return "http" }

// IsSimulation implements interfaces.ITrackProvider.
func (p *HTTPProvider) IsSimulation() bool { return false }
