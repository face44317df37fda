package zoho

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
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// RetryPolicy selects one of the preset retry behaviors for outbound calls.
type RetryPolicy string

// Retry presets. Retries apply only to transient failures (HTTP 429 and
// 50x gateway/server statuses, timeouts, connection errors); everything else
// fails on the first attempt.
const (
	RetryNone       RetryPolicy = "none"       // single attempt
	RetryStandard   RetryPolicy = "standard"   // 3 retries, 300ms base backoff
	RetryAggressive RetryPolicy = "aggressive" // 5 retries, 600ms base backoff
)

// settings returns the total number of attempts and the base backoff interval
// for the policy. Unknown values behave like RetryStandard.
func (p RetryPolicy) settings() (tries uint, base time.Duration) {
	switch p {
	case RetryNone:
		return 1, 0
	case RetryAggressive:
		return 6, 600 * time.Millisecond
	default:
		return 4, 300 * time.Millisecond
	}
}

// transientStatus is the set of HTTP statuses eligible for retry.
var transientStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

const (
	// maxWireLogBytes caps logged request/response bodies.
	maxWireLogBytes = 2048
	// truncationMarker is appended to clipped log payloads.
	truncationMarker = "…[truncated]"
	// maxResponseBytes bounds how much of a remote response is read.
	maxResponseBytes = 8 << 20
	// defaultTimeout applies when the config leaves Timeout zero.
	defaultTimeout = 20 * time.Second
)

var (
	remoteReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_requests_total",
			Help: "Total number of outbound remote API requests.",
		},
		[]string{"method", "resource", "status"},
	)
	remoteLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_request_duration_seconds",
			Help:    "Duration of outbound remote API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)
)

func init() {
	prometheus.MustRegister(remoteReqs, remoteLat)
}

// Config carries the connection parameters for the remote API.
type Config struct {
	BaseURL        string        // e.g. https://inventory.zoho.com/api/v1
	OrganizationID string        // remote tenant scope, sent on every call
	Timeout        time.Duration // per-attempt request timeout
	Retry          RetryPolicy
}

// Client is the low-level request executor for the remote API. It attaches
// credentials and organization scope to every call, retries transient
// failures per the configured policy, maps every failure to *APIError, and
// records each wire exchange (bodies truncated) to the log.
//
// Client is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens TokenSource
}

// NewClient constructs a Client. httpClient may be nil; the per-attempt
// timeout is enforced via context, not the http.Client.
func NewClient(cfg Config, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, tokens: tokens}
}

// OrganizationID returns the remote tenant scope this client is bound to.
func (c *Client) OrganizationID() string { return c.cfg.OrganizationID }

// Do executes one logical request against the remote API. body (when non-nil)
// is JSON-encoded; on success the response body is decoded into out (when
// non-nil). Failures are *APIError for anything the remote answered, wrapped
// transport errors otherwise. Transient failures are retried per the
// configured policy before surfacing.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	attempt := func() ([]byte, error) {
		data, err := c.roundTrip(ctx, method, path, query, payload)
		if err != nil && !isTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return data, err
	}

	tries, base := c.cfg.Retry.settings()
	var data []byte
	var err error
	if tries <= 1 {
		data, err = attempt()
	} else {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = base
		data, err = backoff.Retry(ctx, attempt, backoff.WithBackOff(bo), backoff.WithMaxTries(tries))
	}
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response for %s %s: %w", method, path, err)
		}
	}
	return nil
}

// roundTrip performs exactly one HTTP exchange and classifies the outcome.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain access token: %w", err)
	}

	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	// The remote wants the tenant scope both as a query parameter and a
	// header; some of its endpoints read one, some the other.
	q.Set("organization_id", c.cfg.OrganizationID)

	rctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(rctx, method, c.cfg.BaseURL+path+"?"+q.Encode(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+tok)
	req.Header.Set("X-com-zoho-inventory-organizationid", c.cfg.OrganizationID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	resource := resourceLabel(path)
	if err != nil {
		remoteReqs.WithLabelValues(method, resource, "error").Inc()
		// Attempt timeout with a live parent context is transient; a
		// cancelled caller is not.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		remoteReqs.WithLabelValues(method, resource, "error").Inc()
		return nil, fmt.Errorf("read response for %s %s: %w", method, path, err)
	}

	remoteReqs.WithLabelValues(method, resource, strconv.Itoa(resp.StatusCode)).Inc()
	remoteLat.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_body", truncateForLog(payload)).
		Str("response_body", truncateForLog(data)).
		Msg("remote call")

	if resp.StatusCode == http.StatusUnauthorized {
		// Cached token went stale ahead of its stated expiry. Drop it so the
		// next call re-authenticates; this call still fails.
		c.tokens.Invalidate()
	}

	// Any 2xx is success. The remote answers 201 for creations and has been
	// seen returning 202 on async accepts; only the embedded application
	// code can turn these into failures.
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		var probe struct {
			Code    *int   `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &probe); err == nil && probe.Code != nil && *probe.Code != 0 {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: *probe.Code, Message: probe.Message}
		}
		return data, nil
	}

	var remoteErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &remoteErr)
	msg := remoteErr.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Code: remoteErr.Code, Message: msg}
}

// isTransient reports whether err is worth retrying: a retryable HTTP status,
// a timed-out attempt, or a connection-level failure.
func isTransient(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return transientStatus[ae.StatusCode]
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// truncateForLog clips a wire payload to the log byte budget, appending a
// marker when bytes were dropped.
func truncateForLog(b []byte) string {
	if len(b) <= maxWireLogBytes {
		return string(b)
	}
	return string(b[:maxWireLogBytes]) + truncationMarker
}

// resourceLabel maps a request path to its first segment, keeping metric
// label cardinality bounded regardless of embedded resource ids.
func resourceLabel(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}
