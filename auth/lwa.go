package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLWAEndpoint is the Login with Amazon token endpoint.
const DefaultLWAEndpoint = "https://api.amazon.com/auth/o2/token"

// tokenExpirySlack is subtracted from the reported token lifetime before
// caching, so a token is never served moments before Amazon rejects it.
const tokenExpirySlack = 60 * time.Second

// TokenStore caches LWA access tokens between exchanges. Implemented by the
// tokencache package (memory, Redis, noop).
type TokenStore interface {
	// Get retrieves a cached token. Implementations return an error on
	// miss; any error is treated as a miss here.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a token with a TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// LWAError is a failed token exchange, carrying Amazon's error code and
// description alongside the raw response body.
type LWAError struct {
	// Code is Amazon's OAuth error code (e.g. "invalid_grant").
	Code string `json:"error"`

	// Description is the human-readable error description.
	Description string `json:"error_description"`

	// StatusCode is the HTTP status of the token response.
	StatusCode int `json:"-"`

	// Body is the raw response body.
	Body []byte `json:"-"`
}

func (e *LWAError) Error() string {
	return fmt.Sprintf("LWA token exchange failed (%d): %s: %s", e.StatusCode, e.Code, e.Description)
}

// LWAClient exchanges a long-lived refresh token for short-lived access
// tokens and caches them until shortly before expiry.
type LWAClient struct {
	clientID     string
	clientSecret string
	refreshToken string
	endpoint     string

	httpClient *http.Client
	store      TokenStore
	logger     zerolog.Logger

	now func() time.Time
}

// LWAOptions tunes an LWAClient. The zero value selects the production
// endpoint, http.DefaultClient and no caching.
type LWAOptions struct {
	// Endpoint overrides the token endpoint (tests).
	Endpoint string

	// HTTPClient overrides the HTTP client used for the exchange.
	HTTPClient *http.Client

	// Store caches tokens between exchanges. Nil disables caching.
	Store TokenStore

	// Logger receives debug logging.
	Logger zerolog.Logger
}

// NewLWAClient creates a token client. Missing client credentials or refresh
// token are configuration errors.
func NewLWAClient(clientID, clientSecret, refreshToken string, opts LWAOptions) (*LWAClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, NewError(ErrMissingClientCredentials)
	}
	if refreshToken == "" {
		return nil, NewError(ErrMissingRefreshToken)
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultLWAEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &LWAClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		endpoint:     endpoint,
		httpClient:   httpClient,
		store:        opts.Store,
		logger:       opts.Logger.With().Str("component", "lwa").Logger(),
		now:          time.Now,
	}, nil
}

// tokenResponse is the LWA token endpoint success payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AccessToken returns a valid LWA access token, from cache when possible.
func (c *LWAClient) AccessToken(ctx context.Context) (string, error) {
	key := c.cacheKey()

	if c.store != nil {
		if token, err := c.store.Get(ctx, key); err == nil && token != "" {
			return token, nil
		}
	}

	token, ttl, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}

	if c.store != nil && ttl > 0 {
		if err := c.store.Set(ctx, key, token, ttl); err != nil {
			c.logger.Warn().Err(err).Msg("failed to cache access token")
		}
	}

	return token, nil
}

// exchange performs the refresh-token grant against the token endpoint.
func (c *LWAClient) exchange(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &Error{Kind: KindToken, Err: err}
	}
	req.Header.Set(ContentTypeHeader, "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, &Error{Kind: KindToken, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &Error{Kind: KindToken, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		lwaErr := &LWAError{StatusCode: resp.StatusCode, Body: body}
		_ = json.Unmarshal(body, lwaErr)
		c.logger.Debug().Int("status", resp.StatusCode).Str("code", lwaErr.Code).Msg("token exchange rejected")
		return "", 0, &Error{Kind: KindToken, Err: lwaErr}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, &Error{Kind: KindToken, Err: fmt.Errorf("malformed token response: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", 0, &Error{Kind: KindToken, Err: fmt.Errorf("token response carried no access token")}
	}

	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenExpirySlack
	c.logger.Debug().Dur("ttl", ttl).Msg("exchanged refresh token")

	return tr.AccessToken, ttl, nil
}

// cacheKey derives a cache key from the refresh token without storing the
// token itself in the key.
func (c *LWAClient) cacheKey() string {
	sum := sha256.Sum256([]byte(c.clientID + ":" + c.refreshToken))
	return "spapi:lwa:" + hex.EncodeToString(sum[:8])
}
