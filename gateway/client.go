// Package gateway issues outbound GET requests to the data providers and
// decodes their JSON responses.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/giygas/yakguide/interfaces"
	"github.com/giygas/yakguide/logging"
	"github.com/giygas/yakguide/metrics"
	"golang.org/x/text/encoding/korean"
)

// Compile-time check to ensure Client implements JSONFetcher
var _ interfaces.JSONFetcher = (*Client)(nil)

// Client performs single-shot JSON GET requests for one provider
type Client struct {
	provider   string
	httpClient *http.Client
	maxBody    int64
}

// NewClient creates a client labelled with the provider name used in logs and metrics
func NewClient(provider string, timeout time.Duration, maxBody int64) *Client {
	return NewClientWithHTTP(provider, &http.Client{Timeout: timeout}, maxBody)
}

// NewClientWithHTTP creates a client around an existing http.Client
func NewClientWithHTTP(provider string, httpClient *http.Client, maxBody int64) *Client {
	return &Client{
		provider:   provider,
		httpClient: httpClient,
		maxBody:    maxBody,
	}
}

// Provider returns the provider label
func (c *Client) Provider() string {
	return c.provider
}

// FetchJSON performs one GET with params encoded into the query string and
// returns the decoded top-level JSON object. Every failure is a *TransportError.
func (c *Client) FetchJSON(ctx context.Context, endpoint string, params map[string]string) (map[string]any, error) {
	start := time.Now()

	payload, err := c.fetch(ctx, endpoint, params)

	outcome := "ok"
	if err != nil {
		outcome = outcomeLabel(err)
		logging.Debug("Upstream request failed",
			"provider", c.provider,
			"outcome", outcome,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
	} else {
		logging.Debug("Upstream request completed",
			"provider", c.provider,
			"duration_ms", time.Since(start).Milliseconds())
	}

	metrics.UpstreamRequestTotals.WithLabelValues(c.provider, outcome).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())

	return payload, err
}

func (c *Client) fetch(ctx context.Context, endpoint string, params map[string]string) (map[string]any, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, c.transportError(endpoint, 0, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint))
	}
	safeEndpoint := redactedEndpoint(u)

	query := u.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.transportError(safeEndpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(safeEndpoint, 0, stripURL(err))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "provider", c.provider, "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, c.transportError(safeEndpoint, resp.StatusCode,
			fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, c.transportError(safeEndpoint, resp.StatusCode, fmt.Errorf("failed to read response body: %w", stripURL(err)))
	}
	if int64(len(body)) > c.maxBody {
		return nil, c.transportError(safeEndpoint, resp.StatusCode, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.maxBody))
	}

	payload, err := decodeObject(body)
	if err != nil {
		return nil, c.transportError(safeEndpoint, resp.StatusCode, err)
	}

	return payload, nil
}

// decodeObject parses body as a JSON object. Bodies that are not valid UTF-8
// are decoded from EUC-KR first.
func decodeObject(body []byte) (map[string]any, error) {
	if !utf8.Valid(body) {
		decoded, err := korean.EUCKR.NewDecoder().Bytes(body)
		if err != nil {
			return nil, fmt.Errorf("%w: undecodable text encoding: %v", ErrMalformedBody, err)
		}
		body = decoded
	}

	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, expected object", ErrMalformedBody, payload)
	}

	return object, nil
}

func (c *Client) transportError(endpoint string, status int, cause error) *TransportError {
	return &TransportError{
		Provider:   c.provider,
		Endpoint:   endpoint,
		StatusCode: status,
		Cause:      cause,
	}
}

// redactedEndpoint drops the query and credentials so API keys never reach logs
func redactedEndpoint(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.Fragment = ""
	clean.User = nil
	return clean.String()
}

// stripURL unwraps *url.Error, whose message embeds the full request URL
// including the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func outcomeLabel(err error) string {
	var te *TransportError
	if !errors.As(err, &te) {
		return "error"
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return "timeout"
	case te.StatusCode != 0 && errors.Is(err, ErrUnexpectedStatus):
		return fmt.Sprintf("http_%dxx", te.StatusCode/100)
	case errors.Is(err, ErrMalformedBody), errors.Is(err, ErrBodyTooLarge):
		return "bad_body"
	case errors.Is(err, ErrInvalidEndpoint):
		return "bad_endpoint"
	default:
		return "network"
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
