package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TokenSource supplies a valid bearer token for outbound calls. Implementations
// must be safe for concurrent use; Invalidate drops any cached token so the
// next Token call fetches a fresh one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// StaticToken is a TokenSource backed by a fixed string. Useful for tests and
// for deployments that manage tokens externally.
type StaticToken string

// Token returns the fixed token.
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// Invalidate is a no-op for static tokens.
func (StaticToken) Invalidate() {}

// expirySkew refreshes tokens slightly before the remote's stated expiry so
// an in-flight request never carries a token that dies mid-call.
const expirySkew = 60 * time.Second

// OAuthConfig holds the refresh-token grant parameters.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// OAuthTokenSource obtains access tokens through the remote's refresh-token
// OAuth grant and caches them until shortly before expiry.
//
// The cache is guarded by a mutex, but correctness does not depend on it:
// the grant endpoint is idempotent per refresh token within its validity
// window, so two racing refreshes both obtain usable tokens.
type OAuthTokenSource struct {
	cfg  OAuthConfig
	http *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time

	now func() time.Time // test seam
}

// NewOAuthTokenSource constructs a token source for the given grant config.
// httpClient may be nil, in which case a client with a short timeout is used.
func NewOAuthTokenSource(cfg OAuthConfig, httpClient *http.Client) *OAuthTokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &OAuthTokenSource{cfg: cfg, http: httpClient, now: time.Now}
}

// Token returns the cached access token, refreshing it when absent or within
// the expiry skew.
func (s *OAuthTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiry.Add(-expirySkew)) {
		return s.token, nil
	}
	return s.refreshLocked(ctx)
}

// Invalidate drops the cached token. The next Token call refreshes.
func (s *OAuthTokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiry = time.Time{}
	s.mu.Unlock()
}

// refreshLocked performs the refresh-token grant. Caller holds s.mu.
func (s *OAuthTokenSource) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.cfg.RefreshToken},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "token refresh rejected"}
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if grant.Error != "" || grant.AccessToken == "" {
		return "", fmt.Errorf("token refresh failed: %s", firstNonEmptyStr(grant.Error, "empty access token"))
	}

	ttl := time.Duration(grant.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 50 * time.Minute
	}
	s.token = grant.AccessToken
	s.expiry = s.now().Add(ttl)

	log.Debug().Dur("ttl", ttl).Msg("access token refreshed")
	return s.token, nil
}

func firstNonEmptyStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
