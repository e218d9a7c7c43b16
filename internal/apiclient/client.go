package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSessionExpired is returned when a 401 could not be recovered by a
// token refresh. The session has already been cleared; callers send the
// operator back to the login page.
var ErrSessionExpired = errors.New("session expired, please log in again")

// TokenStore gives the client access to the persisted token pair.
// Satisfied by session.Store. ReplaceTokens is the only way the client
// ever writes the access token; Clear is called on unrecoverable refresh.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	ReplaceTokens(accessToken, refreshToken string) error
	Clear()
}

// APIError carries the HTTP status and the server-provided message of a
// failed call, so pages can show the backend's own wording.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the IronPress backend. It attaches the bearer token from
// the session and transparently refreshes it once when a request comes
// back 401.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     *logrus.Logger

	// refreshMu makes token refresh single-flight: concurrent 401s queue
	// here, and a waiter that finds the token already rotated reuses it
	// instead of issuing a second refresh.
	refreshMu sync.Mutex

	Auth          AuthAPI
	Bills         BillsAPI
	Categories    CategoriesAPI
	Stores        StoresAPI
	Users         UsersAPI
	Subscriptions SubscriptionsAPI
	Admin         AdminAPI
	Notifications NotificationsAPI
}

// New creates a client against baseURL (no trailing slash).
// Timeouts are left to the transport defaults.
func New(baseURL string, tokens TokenStore, log *logrus.Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		tokens:  tokens,
		log:     log,
	}
	c.Auth = AuthAPI{c}
	c.Bills = BillsAPI{c}
	c.Categories = CategoriesAPI{c}
	c.Stores = StoresAPI{c}
	c.Users = UsersAPI{c}
	c.Subscriptions = SubscriptionsAPI{c}
	c.Admin = AdminAPI{c}
	c.Notifications = NotificationsAPI{c}
	return c
}

// request is one logical API call. The retry counter lives on this object,
// not on the wire request, so a replayed call can never loop.
type request struct {
	id      string
	method  string
	path    string
	query   url.Values
	body    any
	retries int
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, &request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, &request{method: http.MethodPost, path: path, body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, &request{method: http.MethodPut, path: path, body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, &request{method: http.MethodPatch, path: path, body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, &request{method: http.MethodDelete, path: path}, nil)
}

// do sends the request, handling exactly one refresh-and-retry cycle on a
// 401. A second 401 after a successful refresh is a final failure.
func (c *Client) do(ctx context.Context, req *request, out any) error {
	req.id = uuid.NewString()

	for {
		usedToken := c.tokens.AccessToken()
		status, env, err := c.send(ctx, req, usedToken)
		if err != nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}

		// Only a 401 on an authenticated request means a stale token; a 401
		// on a bare request (e.g. bad login credentials) passes through.
		if status == http.StatusUnauthorized && req.retries == 0 && usedToken != "" {
			req.retries++
			if refreshErr := c.refresh(ctx, usedToken); refreshErr != nil {
				// Unrecoverable: drop the session and send the caller to
				// login, but keep the original failure visible.
				c.tokens.Clear()
				c.log.WithFields(logrus.Fields{
					"request_id": req.id,
					"path":       req.path,
				}).WithError(refreshErr).Warn("token refresh failed, session cleared")
				return fmt.Errorf("%w: %s", ErrSessionExpired, env.Message)
			}
			// Reissue the original request with the new token.
			continue
		}

		if status < 200 || status >= 300 {
			return &APIError{Status: status, Message: env.Message}
		}

		if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
			}
		}
		return nil
	}
}

// send performs one wire round trip and decodes the response envelope.
func (c *Client) send(ctx context.Context, req *request, token string) (int, envelope, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var payload io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return 0, envelope{}, err
		}
		payload = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, payload)
	if err != nil {
		return 0, envelope{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.WithFields(logrus.Fields{
		"request_id": req.id,
		"method":     req.method,
		"path":       req.path,
		"attempt":    req.retries + 1,
	}).Debug("api request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, envelope{}, err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 {
			// Not every endpoint wraps its payload; fall back to the raw body.
			env.Data = raw
		}
	}
	return resp.StatusCode, env, nil
}

// refreshResponse is the token pair returned by /auth/refresh-token.
type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges the stored refresh token for a new pair and persists
// it. usedToken is the access token the failed request carried; if it has
// already been rotated by the time we hold the lock, the new pair is
// reused and no second refresh goes out.
func (c *Client) refresh(ctx context.Context, usedToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.tokens.AccessToken(); current != "" && current != usedToken {
		return nil
	}

	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return errors.New("no refresh token")
	}

	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh-token", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	var env envelope
	var pair refreshResponse
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		err = json.Unmarshal(env.Data, &pair)
		if err != nil {
			return err
		}
	} else if err := json.Unmarshal(raw, &pair); err != nil {
		return err
	}
	if pair.AccessToken == "" {
		return errors.New("refresh response missing access token")
	}

	c.log.Info("access token refreshed")
	return c.tokens.ReplaceTokens(pair.AccessToken, pair.RefreshToken)
}
