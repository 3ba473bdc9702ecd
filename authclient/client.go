package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/rs/zerolog/log"
)

const (
	RouteLogin   = "/api/auth/login"
	RouteRefresh = "/api/auth/refresh"
	RouteLogout  = "/api/auth/logout"
)

// Client performs the three credential round trips. It keeps a cookie jar so
// the backend's HTTP-only refresh cookie set by Login is forwarded on Refresh
// and Logout. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. A cookie jar is added if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each round trip
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("[authclient New] cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// Login exchanges credentials for an access token. Rejected credentials
// yield an *errors.APIError of kind ErrAuthRejected carrying the backend's message.
func (c *Client) Login(ctx context.Context, email, password string) (models.TokenResponse, error) {
	var out models.TokenResponse
	resp, err := c.post(ctx, RouteLogin, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := errors.KindForStatus(resp.StatusCode)
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			kind = errors.ErrAuthRejected
		}
		return out, errors.FromResponse(resp, kind)
	}
	return decodeToken(resp)
}

// Refresh asks for a new access token using only the refresh cookie
func (c *Client) Refresh(ctx context.Context) (models.TokenResponse, error) {
	var out models.TokenResponse
	resp, err := c.post(ctx, RouteRefresh, struct{}{})
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := errors.KindForStatus(resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = errors.ErrRefreshRejected
		}
		return out, errors.FromResponse(resp, kind)
	}
	return decodeToken(resp)
}

// Logout invalidates the server-side session behind the refresh cookie
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, RouteLogout, struct{}{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.FromResponse(resp, nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) post(ctx context.Context, route string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("[authclient] marshal %s: %w", route, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("[authclient] build %s: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("route", route).Msg("auth request failed")
		return nil, errors.Transport(err)
	}
	log.Debug().Str("route", route).Int("status", resp.StatusCode).Msg("auth request")
	return resp, nil
}

func decodeToken(resp *http.Response) (models.TokenResponse, error) {
	var out models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: decode token response: %w", errors.ErrMalformedCredential, err)
	}
	if out.AccessToken == "" {
		return models.TokenResponse{}, errors.Wrapf(errors.ErrMalformedCredential, "token response has no accessToken")
	}
	return out, nil
}
