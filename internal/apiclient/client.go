// Package apiclient talks to the content backend. Every failed call is
// turned into a typed *Error and reported once to the notifier; callers
// decide what to do with local state.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/session"
)

// LoginPath is where the operator is sent when the session expires.
const LoginPath = "/login"

const maxResponseBytes = 8 << 20

// Navigator moves the operator to another screen.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type Client struct {
	baseURL  string
	http     *http.Client
	session  *session.Session
	notifier notify.Notifier
	nav      Navigator
	logger   *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option  { return func(c *Client) { c.http = h } }
func WithNotifier(n notify.Notifier) Option { return func(c *Client) { c.notifier = n } }
func WithNavigator(n Navigator) Option      { return func(c *Client) { c.nav = n } }
func WithLogger(l *zap.Logger) Option       { return func(c *Client) { c.logger = l } }

// WithTimeout bounds every request made through the client's HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		session:  sess,
		notifier: notify.Discard,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Session() *session.Session { return c.session }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Do sends a JSON request and decodes the response's data member into out
// (when out is non-nil). It returns the response's message.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (string, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return "", fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, http.MethodGet, path, nil, out)
	return err
}

func (c *Client) Post(ctx context.Context, path string, body, out any) (string, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) (string, error) {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) (string, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) send(req *http.Request, out any) (string, error) {
	req.Header.Set("Accept", "application/json")
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.fail(req, &Error{Kind: KindNetwork, Message: "request failed", Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", c.fail(req, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "reading response failed", Err: err})
	}
	c.logger.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= 400 {
		return "", c.fail(req, decodeError(resp.StatusCode, raw))
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", c.fail(req, &Error{Kind: KindApplication, Status: resp.StatusCode, Message: "malformed response", Err: err})
		}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", c.fail(req, &Error{Kind: KindApplication, Status: resp.StatusCode, Message: "unexpected response data", Err: err})
		}
	}
	return env.Message, nil
}

func decodeError(status int, raw []byte) *Error {
	e := &Error{Kind: kindForStatus(status), Status: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		e.Message, e.Code = body.Message, body.Code
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// fail reports e to the operator and returns it. A cancelled request is
// returned silently: nobody is waiting for the answer.
func (c *Client) fail(req *http.Request, e *Error) error {
	ctx := req.Context()
	c.logger.Warn("api call failed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Stringer("kind", e.Kind),
		zap.Int("status", e.Status),
		zap.String("code", e.Code),
		zap.Error(e.Err))

	if e.Kind == KindNetwork && (errors.Is(e.Err, context.Canceled) || ctx.Err() == context.Canceled) {
		return e
	}

	switch {
	case e.Code == CodeSessionExpired:
		if err := c.session.Invalidate(context.WithoutCancel(ctx)); err != nil {
			c.logger.Error("clearing expired session failed", zap.Error(err))
		}
		notify.Warning(c.notifier, "Your session has expired. Please sign in again.")
		if c.nav != nil {
			c.nav.Navigate(LoginPath)
		}
	case e.Code == CodeInvalidCredentials:
		notify.Error(c.notifier, "Invalid email or password.")
	case e.Kind == KindAuth:
		notify.Error(c.notifier, "You are not allowed to do that. Please sign in again if the problem persists.")
	case e.Kind == KindNetwork:
		notify.Error(c.notifier, "Network error. Please try again later.")
	default:
		notify.Error(c.notifier, e.Message)
	}
	return e
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	var res models.AuthResult
	body := map[string]string{"email": email, "password": password}
	if _, err := c.Post(ctx, "/auth/login", body, &res); err != nil {
		return models.User{}, err
	}
	if res.Token == "" {
		err := &Error{Kind: KindApplication, Status: http.StatusOK, Message: "login response carried no token"}
		notify.Error(c.notifier, err.Message)
		return models.User{}, err
	}
	if err := c.session.Authenticate(ctx, res.Token, res.User); err != nil {
		return models.User{}, err
	}
	return res.User, nil
}

// Logout forgets the session locally.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Invalidate(ctx)
}
