// Package apiclient is the single point of contact with the options-lab REST
// API. Every call carries the stored bearer token; a 401 clears the session.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/optionslab/optionslab-client/internal/logging"
	"github.com/optionslab/optionslab-client/internal/metrics"
	"github.com/optionslab/optionslab-client/internal/session"
)

// LoginRoute is where the navigator is sent after a 401.
const LoginRoute = "/"

// Navigator moves the user to another route, e.g. back to login.
type Navigator interface {
	Redirect(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Redirect(route string) { f(route) }

type Client struct {
	http      *resty.Client
	store     session.Store
	navigator Navigator
	log       logrus.FieldLogger
}

type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithNavigator sets the handler invoked after a 401.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		c.log = l
		c.http.SetLogger(l)
	}
}

// WithTransport swaps the HTTP round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.SetTransport(rt) }
}

// New builds a client for baseURL that reads its bearer token from store.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15*time.Second).
			SetHeader("Accept", "application/json").
			SetDisableWarn(true),
		store:     store,
		navigator: NavigatorFunc(func(string) {}),
		log:       logging.Discard(),
	}
	c.http.OnBeforeRequest(c.attachToken)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) attachToken(_ *resty.Client, req *resty.Request) error {
	if token, ok := c.store.Get(session.AccessTokenKey); ok && token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

// Store exposes the credential store the client reads from.
func (c *Client) Store() session.Store { return c.store }

func (c *Client) handleUnauthorized(path string) {
	if err := session.Clear(c.store); err != nil {
		c.log.WithError(err).Warn("apiclient: clear session after 401")
	}
	c.log.WithField("path", path).Info("session rejected by api, redirecting to login")
	c.navigator.Redirect(LoginRoute)
}

type call struct {
	method     string
	path       string
	pathParams map[string]string
	body       any
	result     any
}

func (c *Client) do(ctx context.Context, in call) error {
	req := c.http.R().SetContext(ctx)
	if len(in.pathParams) > 0 {
		req.SetPathParams(in.pathParams)
	}
	if in.body != nil {
		req.SetBody(in.body)
	}
	if in.result != nil {
		req.SetResult(in.result)
	}

	start := time.Now()
	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		metrics.ObserveAPIRequest(in.path, 0, time.Since(start))
		return fmt.Errorf("apiclient: %s %s: %w", in.method, in.path, err)
	}
	metrics.ObserveAPIRequest(in.path, resp.StatusCode(), time.Since(start))

	c.log.WithFields(logrus.Fields{
		"method": in.method,
		"path":   in.path,
		"status": resp.StatusCode(),
	}).Debug("api request")

	if resp.StatusCode() == http.StatusUnauthorized {
		c.handleUnauthorized(in.path)
		return ErrUnauthorized
	}
	if resp.IsError() {
		return &APIError{
			Method:     in.method,
			Path:       in.path,
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(resp.Body()),
		}
	}
	return nil
}
