// Package spapi provides the Selling Partner API client and typed wrappers
// for its resource groups.
package spapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/s-aga-r/amazon-sp-api/auth"
	"github.com/s-aga-r/amazon-sp-api/config"
	"github.com/s-aga-r/amazon-sp-api/marketplaces"
)

// Client is a Selling Partner API client for one marketplace. The
// configuration it is built from is never mutated; a Client is safe for
// concurrent use.
type Client struct {
	cfg         *config.Config
	marketplace marketplaces.Marketplace
	endpoint    string

	httpClient  *http.Client
	lwa         *auth.LWAClient
	credentials auth.CredentialsProvider
	logger      zerolog.Logger
	metrics     *Metrics
}

// Options carries optional collaborators for a Client. The zero value works.
type Options struct {
	// HTTPClient overrides the transport. Defaults to a client bound by
	// the configured timeout.
	HTTPClient *http.Client

	// TokenStore caches LWA access tokens. Defaults to no caching; wire a
	// tokencache backend to share tokens across requests or processes.
	TokenStore auth.TokenStore

	// CredentialsProvider overrides AWS credential sourcing (tests).
	CredentialsProvider auth.CredentialsProvider

	// Logger receives client logging.
	Logger zerolog.Logger

	// Metrics overrides the metrics collector. When nil and metrics are
	// enabled in the configuration, collectors register on the default
	// Prometheus registerer.
	Metrics *Metrics
}

// New builds a Client from configuration. Configuration problems (missing
// credentials, unknown marketplace) surface here, never on the request path.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mp, err := marketplaces.ByCountry(cfg.Marketplace.Country)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.Marketplace.Endpoint
	if endpoint == "" {
		endpoint = mp.Endpoint
	}

	logger := opts.Logger.With().Str("component", "spapi").Str("marketplace", mp.CountryCode).Logger()

	lwa, err := auth.NewLWAClient(cfg.LWA.ClientID, cfg.LWA.ClientSecret, cfg.LWA.RefreshToken, auth.LWAOptions{
		Endpoint:   cfg.LWA.Endpoint,
		HTTPClient: opts.HTTPClient,
		Store:      opts.TokenStore,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	creds := opts.CredentialsProvider
	if creds == nil {
		creds, err = newCredentialsProvider(ctx, cfg, mp.Region)
		if err != nil {
			return nil, err
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTP.Timeout}
	}

	metrics := opts.Metrics
	if metrics == nil && cfg.Metrics.Enabled {
		metrics = NewMetrics(prometheus.DefaultRegisterer)
	}

	return &Client{
		cfg:         cfg,
		marketplace: mp,
		endpoint:    endpoint,
		httpClient:  httpClient,
		lwa:         lwa,
		credentials: creds,
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// newCredentialsProvider picks role assumption when a role ARN is configured,
// static keys otherwise.
func newCredentialsProvider(ctx context.Context, cfg *config.Config, region string) (auth.CredentialsProvider, error) {
	if cfg.AWS.RoleARN != "" {
		return auth.NewAssumeRoleProvider(ctx, auth.AssumeRoleConfig{
			AccessKeyID:     cfg.AWS.AccessKey,
			SecretAccessKey: cfg.AWS.SecretKey,
			RoleARN:         cfg.AWS.RoleARN,
			Region:          region,
			SessionName:     cfg.AWS.SessionName,
		})
	}
	return auth.NewStaticCredentialsProvider(cfg.AWS.AccessKey, cfg.AWS.SecretKey)
}

// Marketplace returns the marketplace this client targets.
func (c *Client) Marketplace() marketplaces.Marketplace {
	return c.marketplace
}

// =============================================================================
// Request Execution
// =============================================================================

// get issues a GET request against the SP-API and decodes the response into out.
func (c *Client) get(ctx context.Context, api, path string, query url.Values, out any) error {
	return c.do(ctx, api, http.MethodGet, path, query, nil, out)
}

// post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) post(ctx context.Context, api, path string, body, out any) error {
	return c.do(ctx, api, http.MethodPost, path, nil, body, out)
}

// do executes one SP-API call: build, authenticate, sign, send, decode —
// retrying throttled and server-side failures a bounded number of times with
// a fixed interval between attempts.
func (c *Client) do(ctx context.Context, api, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("request_id", requestID).
		Str("api", api).
		Str("method", method).
		Str("path", path).
		Logger()

	var responseBody []byte
	attempt := 0

	operation := func() error {
		attempt++
		if attempt > 1 {
			c.metrics.observeRetry()
			logger.Warn().Int("attempt", attempt).Msg("retrying request")
		}

		var err error
		responseBody, err = c.attempt(ctx, api, method, path, query, payload)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.cfg.HTTP.RetryInterval),
			uint64(c.cfg.HTTP.MaxRetries-1),
		),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		logger.Error().Err(err).Int("attempts", attempt).Msg("request failed")
		return err
	}

	if out != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}
	return nil
}

// attempt performs a single signed request. Transient failures come back as
// plain errors so the retry policy reissues them; permanent failures are
// wrapped with backoff.Permanent.
func (c *Client) attempt(ctx context.Context, api, method, path string, query url.Values, payload []byte) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, query, payload)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors are retryable.
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.observeRequest(api, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newAPIError(resp.StatusCode, body)
		if apiErr.Retryable() {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	return body, nil
}

// newRequest assembles a fully-headed, signed request ready to send. The
// LWA access token rides on x-amz-access-token and is therefore part of the
// signed header set; credentials are fetched fresh for every request.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if len(payload) > 0 {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	token, err := c.lwa.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set(auth.XAmzAccessTokenHeader, token)

	if len(payload) > 0 {
		req.Header.Set(auth.ContentTypeHeader, "application/json")
	}
	if c.cfg.HTTP.UserAgent != "" {
		req.Header.Set(auth.UserAgentHeader, c.cfg.HTTP.UserAgent)
	}

	creds, err := c.credentials.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(creds, c.marketplace.Region, auth.ServiceExecuteAPI)
	if err != nil {
		return nil, err
	}
	if err := signer.Sign(req, payload); err != nil {
		return nil, err
	}

	return req, nil
}
