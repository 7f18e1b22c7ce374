// Package modportal talks to the Factorio mod portal and auth server.
package modportal

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/furrctorio/furrctorio/internal/cache"
	"github.com/furrctorio/furrctorio/internal/constants"
	"github.com/furrctorio/furrctorio/internal/environment"
	"github.com/furrctorio/furrctorio/internal/httpclient"
	"github.com/furrctorio/furrctorio/internal/perf"
	"go.opentelemetry.io/otel/attribute"
)

type Client struct {
	client    httpclient.Doer
	portalURL string
	authURL   string
	cache     cache.Cache
	cacheTTL  time.Duration
}

type Option func(*Client)

func WithPortalURL(url string) Option {
	return func(c *Client) {
		c.portalURL = strings.TrimRight(url, "/")
	}
}

func WithAuthURL(url string) Option {
	return func(c *Client) {
		c.authURL = strings.TrimRight(url, "/")
	}
}

// WithCache stores summary and detail responses in store for ttl.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

func NewClient(doer httpclient.Doer, opts ...Option) *Client {
	c := &Client{
		client:    doer,
		portalURL: environment.DefaultPortalURL,
		authURL:   environment.DefaultAuthURL,
		cache:     cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) PortalURL() string {
	return c.portalURL
}

func (c *Client) Do(request *http.Request) (*http.Response, error) {
	ctx, span := perf.StartSpan(request.Context(), "modportal.http.request",
		perf.WithAttributes(
			attribute.String("method", request.Method),
			attribute.String("path", request.URL.Path),
		),
	)
	defer span.End()

	request.Header.Set("User-Agent", constants.UserAgent+" "+environment.AppVersion())
	if request.Header.Get("Accept") == "" {
		request.Header.Set("Accept", "application/json")
	}

	response, err := c.client.Do(request.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("status", response.StatusCode))
	return response, nil
}

// cached returns the stored body for key or calls fetch and stores what it
// returns. Cache failures never fail the request.
func (c *Client) cached(ctx context.Context, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, key, data, c.cacheTTL)
	return data, nil
}

func decode[T any](data []byte) (*T, error) {
	result := new(T)
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}
	return result, nil
}
