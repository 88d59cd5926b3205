// Package transport is the single point of outgoing request
// construction. It owns the two cross-cutting behaviors of the HTTP
// pipeline: attaching the stored bearer token to every request, and
// transparently retrying a request exactly once after a token refresh
// when the server reports unauthorized.
package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	interrors "github.com/eventkit/go-event-client/internal/errors"
	"github.com/eventkit/go-event-client/keystore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	refreshPath         = "/event-user/refresh"
	refreshKey          = "token-refresh"
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "

	defaultTimeout = 10 * time.Second
)

var (
	// ErrConnection is returned for network-level failures (timeouts,
	// connectivity loss).
	ErrConnection = interrors.ErrConnection

	// ErrSessionExpired is returned after a failed token refresh. By the
	// time the caller sees it, the local token pair has been cleared.
	ErrSessionExpired = interrors.ErrSessionExpired

	errNoRefreshToken = errors.New("no refresh token")
)

// Client is an HTTP client bound to the event backend. All requests pass
// through Do; context cancellation and the transport timeout apply to
// every call.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        keystore.Store
	refreshGroup singleflight.Group
	log          zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithLogger attaches a logger; the default client is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithTimeout overrides the fixed transport-level timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client (primarily for
// testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, store keystore.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[transport.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[transport.New] store is required")
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// BaseURL returns the backend base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends the request with the stored bearer token attached. On a 401
// response it refreshes the token pair and resubmits the request exactly
// once; a second 401 is returned to the caller unchanged. Concurrent
// requests that hit 401 independently share a single in-flight refresh
// call.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	requestID := uuid.New().String()
	req.Header.Set(headerRequestID, requestID)
	logger := c.log.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Logger()

	c.attachBearer(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "[Do] %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// The original request body has been consumed; without a rewind
	// there is nothing to resubmit.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	logger.Debug().Msg("unauthorized, attempting token refresh")

	accessToken, refreshErr := c.refresh(req)
	if refreshErr != nil {
		if errors.Is(refreshErr, errNoRefreshToken) {
			// Nothing to refresh with: propagate the original 401.
			return resp, nil
		}
		drainAndClose(resp.Body)
		logger.Warn().Err(refreshErr).Msg("token refresh failed, session cleared")
		return nil, refreshErr
	}
	drainAndClose(resp.Body)

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[Do] rewind body")
		}
		retry.Body = body
	}
	retry.Header.Set(headerAuthorization, bearerPrefix+accessToken)

	resp, err = c.httpClient.Do(retry)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "[Do] retry: %v", err)
	}
	return resp, nil
}

// attachBearer adds the stored access token to the request. A storage
// read failure must not block the request; it proceeds without the
// header.
func (c *Client) attachBearer(req *http.Request) {
	accessToken, err := c.store.Get(keystore.KeyAccessToken)
	if err != nil || accessToken == "" {
		return
	}
	req.Header.Set(headerAuthorization, bearerPrefix+accessToken)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges the stored refresh token for a rotated pair and
// persists it. All concurrent callers share one in-flight exchange. On
// any refresh failure other than a missing token, the local identity
// keys are cleared (fail-closed logout) and ErrSessionExpired is
// returned.
func (c *Client) refresh(req *http.Request) (string, error) {
	result, err, _ := c.refreshGroup.Do(refreshKey, func() (interface{}, error) {
		refreshToken, err := c.store.Get(keystore.KeyRefreshToken)
		if err != nil || refreshToken == "" {
			return nil, errNoRefreshToken
		}

		pair, err := c.exchangeRefreshToken(req, refreshToken)
		if err != nil {
			if clearErr := keystore.ClearTokens(c.store); clearErr != nil {
				c.log.Error().Err(clearErr).Msg("failed to clear tokens after refresh failure")
			}
			return nil, errors.Wrap(ErrSessionExpired, err.Error())
		}

		if err := keystore.UpdateTokenPair(c.store, pair); err != nil {
			return nil, errors.Wrap(err, "[refresh] persist rotated pair")
		}
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Client) exchangeRefreshToken(req *http.Request, refreshToken string) (keystore.TokenPair, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return keystore.TokenPair{}, errors.Wrap(err, "[exchangeRefreshToken] marshal")
	}

	refreshReq, err := http.NewRequestWithContext(req.Context(), http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(body))
	if err != nil {
		return keystore.TokenPair{}, errors.Wrap(err, "[exchangeRefreshToken] build request")
	}
	refreshReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(refreshReq)
	if err != nil {
		return keystore.TokenPair{}, errors.Wrapf(ErrConnection, "[exchangeRefreshToken] %v", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return keystore.TokenPair{}, errors.Errorf("[exchangeRefreshToken] refresh rejected: status %d", resp.StatusCode)
	}

	var pair keystore.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return keystore.TokenPair{}, errors.Wrap(err, "[exchangeRefreshToken] decode")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return keystore.TokenPair{}, errors.New("[exchangeRefreshToken] incomplete token pair")
	}
	return pair, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
