package zoho

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient points a Client at the given test server with a static token.
func newTestClient(t *testing.T, srv *httptest.Server, retry RetryPolicy) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:        srv.URL,
		OrganizationID: "org-1",
		Timeout:        5 * time.Second,
		Retry:          retry,
	}, StaticToken("tok-123"), srv.Client())
}

func TestDo_AttachesAuthAndOrgScope(t *testing.T) {
	var gotAuth, gotOrgHeader, gotOrgQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotOrgHeader = r.Header.Get("X-com-zoho-inventory-organizationid")
		gotOrgQuery = r.URL.Query().Get("organization_id")
		w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, RetryNone)
	if err := c.Do(context.Background(), http.MethodGet, "/items", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Zoho-oauthtoken tok-123" {
		t.Fatalf("authorization header wrong: %q", gotAuth)
	}
	if gotOrgHeader != "org-1" || gotOrgQuery != "org-1" {
		t.Fatalf("org scope missing: header=%q query=%q", gotOrgHeader, gotOrgQuery)
	}
}

func TestDo_Any2xxIsSuccess(t *testing.T) {
	for _, status := range []int{200, 201, 202, 204} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"code":0,"message":"fine"}`))
		}))
		c := newTestClient(t, srv, RetryNone)
		if err := c.Do(context.Background(), http.MethodPost, "/salesorders", nil, map[string]string{"a": "b"}, nil); err != nil {
			t.Fatalf("status %d should be success, got %v", status, err)
		}
		srv.Close()
	}
}

func TestDo_EmbeddedErrorCodeIn2xxBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"code":36026,"message":"Duplicate reference number"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, RetryStandard)
	err := c.Do(context.Background(), http.MethodPost, "/salesorders", nil, nil, nil)
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Code != 36026 || ae.StatusCode != 200 {
		t.Fatalf("unexpected APIError: %+v", ae)
	}
	// An application error in a 2xx body is not transient.
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestDo_RetryCeilingStandard(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"code":1,"message":"try later"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, RetryStandard)
	err := c.Do(context.Background(), http.MethodGet, "/items", nil, nil, nil)
	var ae *APIError
	if !errors.As(err, &ae) || ae.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 APIError, got %v", err)
	}
	// 1 original + 3 retries.
	if n := atomic.LoadInt32(&calls); n != 4 {
		t.Fatalf("expected 4 calls under standard policy, got %d", n)
	}
}

func TestDo_NoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":4,"message":"Invalid value passed for customer_id"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, RetryAggressive)
	err := c.Do(context.Background(), http.MethodPost, "/contacts", nil, nil, nil)
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Message != "Invalid value passed for customer_id" {
		t.Fatalf("message not propagated: %q", ae.Message)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("non-transient status must not retry, got %d calls", n)
	}
}

func TestDo_RetryPolicyNone(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, RetryNone)
	if err := c.Do(context.Background(), http.MethodGet, "/items", nil, nil, nil); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("none policy must make exactly 1 call, got %d", n)
	}
}

type invalidatingTokens struct {
	invalidated int32
}

func (f *invalidatingTokens) Token(context.Context) (string, error) { return "stale", nil }
func (f *invalidatingTokens) Invalidate()                           { atomic.AddInt32(&f.invalidated, 1) }

func TestDo_UnauthorizedInvalidatesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":57,"message":"You are not authorized to perform this operation"}`))
	}))
	defer srv.Close()

	tokens := &invalidatingTokens{}
	c := NewClient(Config{BaseURL: srv.URL, OrganizationID: "org-1", Retry: RetryNone}, tokens, srv.Client())
	err := c.Do(context.Background(), http.MethodGet, "/items", nil, nil, nil)
	var ae *APIError
	if !errors.As(err, &ae) || ae.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if atomic.LoadInt32(&tokens.invalidated) != 1 {
		t.Fatal("401 must invalidate the cached token")
	}
}

func TestTruncateForLog(t *testing.T) {
	small := []byte("hello")
	if got := truncateForLog(small); got != "hello" {
		t.Fatalf("small payload must pass through, got %q", got)
	}
	big := []byte(strings.Repeat("x", maxWireLogBytes+500))
	got := truncateForLog(big)
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatal("truncated payload must carry the marker")
	}
	if len(got) != maxWireLogBytes+len(truncationMarker) {
		t.Fatalf("unexpected truncated length %d", len(got))
	}
}

func TestResourceLabel(t *testing.T) {
	cases := map[string]string{
		"/items":               "/items",
		"/items/123":           "/items",
		"/salesorders/abc/def": "/salesorders",
		"/organizations":       "/organizations",
	}
	for in, want := range cases {
		if got := resourceLabel(in); got != want {
			t.Fatalf("resourceLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreatedDespiteError(t *testing.T) {
	if !CreatedDespiteError(&APIError{StatusCode: 422, Message: "The Sales Order has been created."}) {
		t.Fatal("quirk message must be detected")
	}
	if CreatedDespiteError(&APIError{StatusCode: 422, Message: "Invalid customer"}) {
		t.Fatal("ordinary failure must not be detected as created")
	}
	if CreatedDespiteError(errors.New("has been created")) {
		t.Fatal("only APIErrors qualify")
	}
}
