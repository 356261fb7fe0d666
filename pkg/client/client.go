// Package client is a typed SDK for the AgroSkills REST API.
//
// Every service call returns a Result envelope. Authenticated calls read the
// bearer token from the session store first and the local store second; a
// 401 on a request that carried a token wipes both stores and every later
// authenticated call fails with ErrNotAuthenticated until the next login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotAuthenticated = errors.New("client: not authenticated")
	ErrAlreadyApplied   = errors.New("client: already applied to this job")
	ErrApplyInProgress  = errors.New("client: application already in progress")
	ErrEmptyVideo       = errors.New("client: video is empty")
	ErrInvalidQuestion  = errors.New("client: invalid question number")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Result mirrors the {success, data|error} envelope every service returns.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	Error   error
}

func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Error
}

func failed[T any](err error) Result[T] {
	return Result[T]{Error: err}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"request_id"`
}

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

const maxResponseBytes = 16 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	local      Store
	session    Store
	log        *slog.Logger
	now        func() time.Time
	applies    *applyTracker

	hookMu         sync.Mutex
	onUnauthorized []func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithLocalStore replaces the keyring backed persistent store.
func WithLocalStore(s Store) Option {
	return func(c *Client) { c.local = s }
}

func WithSessionStore(s Store) Option {
	return func(c *Client) { c.session = s }
}

func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(ResolveBaseURL(cfg.Env, cfg.BaseURL), "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		session: NewMemoryStore(),
		log:     slog.Default(),
		now:     time.Now,
		applies: newApplyTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.local == nil {
		c.local = NewKeyringStore(cfg.KeyringService)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnUnauthorized registers fn to run after credentials are cleared by a 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.hookMu.Lock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
	c.hookMu.Unlock()
}

// SetAuthToken stores a bearer token in the persistent local store. An empty
// token removes it.
func (c *Client) SetAuthToken(token string) error {
	if token == "" {
		return c.local.Delete(KeyToken)
	}
	return c.local.Set(KeyToken, token)
}

// Token returns the bearer token that the next authenticated call will send.
func (c *Client) Token() string {
	if t := lookup(c.session, KeyAccessToken); t != "" {
		return t
	}
	return lookup(c.local, KeyToken)
}

// ClearCredentials wipes both stores and forgets known applications.
func (c *Client) ClearCredentials() {
	for _, key := range []string{KeyUser, KeyAccessToken, KeyRefreshToken} {
		if err := c.session.Delete(key); err != nil {
			c.log.Warn("failed to clear session credential", "key", key, "error", err)
		}
	}
	if err := c.local.Delete(KeyToken); err != nil {
		c.log.Warn("failed to clear local credential", "key", KeyToken, "error", err)
	}
	c.applies.reset()
}

// bearer returns a usable token, dropping one whose exp claim has passed.
// Tokens that are not JWTs are sent as they are.
func (c *Client) bearer() string {
	token := c.Token()
	if token == "" {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil && claims.ExpiresAt != nil {
		if !claims.ExpiresAt.After(c.now()) {
			c.log.Info("stored token expired, clearing credentials")
			c.ClearCredentials()
			return ""
		}
	}
	return token
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "agroskills-go-client/1.0")
	return req, nil
}

// send executes req and returns the body of a 2xx response.
func (c *Client) send(req *http.Request, mode authMode) ([]byte, error) {
	var token string
	if mode != authNone {
		token = c.bearer()
		if mode == authRequired && token == "" {
			return nil, ErrNotAuthenticated
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.log.Debug("api request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
		)
		return body, nil
	}

	apiErr := decodeAPIError(resp.StatusCode, body)
	c.log.Warn("api error",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"message", apiErr.Message,
		"request_id", apiErr.RequestID,
	)

	// A 401 without a token (wrong password on login) is not a session expiry.
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		c.ClearCredentials()
		c.hookMu.Lock()
		hooks := append([]func(){}, c.onUnauthorized...)
		c.hookMu.Unlock()
		for _, fn := range hooks {
			fn()
		}
	}
	return nil, apiErr
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.Message
		apiErr.RequestID = env.RequestID
		if apiErr.Message == "" && len(env.Error) > 0 {
			var s string
			if json.Unmarshal(env.Error, &s) == nil {
				apiErr.Message = s
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func decodeData[T any](body []byte) Result[T] {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return failed[T](fmt.Errorf("decode response: %w", err))
	}
	var out T
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return failed[T](fmt.Errorf("decode response data: %w", err))
		}
	}
	return Result[T]{Success: true, Data: out, Message: env.Message}
}

// doJSON sends in as a JSON body (when non-nil) and decodes the data field.
func doJSON[T any](ctx context.Context, c *Client, method, path string, in any, mode authMode) Result[T] {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return failed[T](fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return failed[T](err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	raw, err := c.send(req, mode)
	if err != nil {
		return failed[T](err)
	}
	return decodeData[T](raw)
}
