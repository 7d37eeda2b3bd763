// Package api is the single HTTP gateway to the newsroom backend. Every
// request goes through one client that attaches the bearer credential and
// applies the centralized 401 policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/log"
)

// authWhitelist lists the endpoints whose 401 responses are an expected,
// locally handled outcome and must never force a redirect.
var authWhitelist = []string{
	"/auth/login",
	"/auth/register",
	"/auth/2fa/setup",
	"/auth/2fa/verify",
}

// Client is the newsroom API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu            sync.RWMutex
	credential    string
	onAuthExpired func(path string)

	log *log.Logger
}

// NewClient creates a new API client
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.With("component", "api"),
	}
}

// SetCredential sets the bearer credential attached to subsequent requests.
// An empty token clears it. The session store calls this synchronously on
// every token transition, before any dependent request is issued.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.credential = token
	c.mu.Unlock()
}

// Credential returns the currently attached bearer credential
func (c *Client) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// OnAuthExpired registers the forced-redirect hook invoked when a protected
// call answers 401. The hook runs at most once per response.
func (c *Client) OnAuthExpired(fn func(path string)) {
	c.mu.Lock()
	c.onAuthExpired = fn
	c.mu.Unlock()
}

// doRequest performs an HTTP request with credential attachment
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("request failed", "method", method, "path", path)
		return nil, errors.NewRequestFailedError(path, err)
	}

	return resp, nil
}

// serverError is the backend's error payload shape
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseResponse enforces the centralized status policy and decodes the body
// into target. Exactly one outcome per response: a whitelisted 401 passes
// through to the caller, a protected 401 fires the redirect hook and returns
// the session-expired sentinel, everything else maps to a coded error.
func (c *Client) parseResponse(resp *http.Response, path string, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if target != nil {
			if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
				return errors.Wrap(errors.ErrCodeDecodeFailed,
					fmt.Sprintf("decode response from %s", path), err)
			}
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if whitelisted(path) {
			return errors.New(errors.ErrCodeInvalidCredentials, serverMessage(resp, "unauthorized"))
		}
		c.log.Warn("forcing re-authentication", "path", path)
		c.mu.RLock()
		expired := c.onAuthExpired
		c.mu.RUnlock()
		if expired != nil {
			expired(path)
		}
		return errors.NewSessionExpiredError(path)

	case http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, serverMessage(resp, fmt.Sprintf("%s not found", path)))

	case http.StatusConflict:
		return errors.New(errors.ErrCodeConflict, serverMessage(resp, "conflict"))

	default:
		msg := serverMessage(resp, fmt.Sprintf("request to %s failed with status %d", path, resp.StatusCode))
		return errors.New(errors.ErrCodeServerRejected, msg)
	}
}

// whitelisted reports whether the path is exempt from the 401 redirect rule
func whitelisted(path string) bool {
	for _, suffix := range authWhitelist {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// serverMessage pulls a human-readable message out of an error response body
func serverMessage(resp *http.Response, fallback string) string {
	body, _ := io.ReadAll(resp.Body)

	var se serverError
	if err := json.Unmarshal(body, &se); err == nil {
		if se.Error != "" {
			return se.Error
		}
		if se.Message != "" {
			return se.Message
		}
	}

	return fallback
}

// call is the shared dispatch: request, status policy, decode
func (c *Client) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, path, target)
}
