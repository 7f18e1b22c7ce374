// Package httpclient provides the rate limited, retrying HTTP client shared by
// every portal call.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/furrctorio/furrctorio/internal/perf"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

type Doer interface {
	Do(request *http.Request) (*http.Response, error)
}

type RetryConfig struct {
	MaxRetries int
	Interval   time.Duration
}

var defaultRetryConfig = RetryConfig{MaxRetries: 3, Interval: time.Second}

// RLHTTPClient waits on a shared limiter before every attempt and retries
// 5xx answers a fixed number of times.
type RLHTTPClient struct {
	client      *http.Client
	Ratelimiter *rate.Limiter
	RetryConfig *RetryConfig
}

func NewRLClient(limiter *rate.Limiter) *RLHTTPClient {
	return &RLHTTPClient{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(perf.TracerProvider()),
			),
		},
		Ratelimiter: limiter,
	}
}

// NewUnlimitedClient is NewRLClient without a rate limit.
func NewUnlimitedClient() *RLHTTPClient {
	return NewRLClient(rate.NewLimiter(rate.Inf, 0))
}

func NoRetries() *RetryConfig {
	return &RetryConfig{}
}

func (client *RLHTTPClient) Do(request *http.Request) (*http.Response, error) {
	ctx, span := perf.StartSpan(request.Context(), "net.http.request",
		perf.WithAttributes(
			attribute.String("method", request.Method),
			attribute.String("host", request.URL.Host),
			attribute.String("path", request.URL.Path),
		),
	)
	defer span.End()

	retries := client.retryConfig()
	for attempt := 0; ; attempt++ {
		response, err := client.attempt(ctx, request, attempt)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false), attribute.Int("attempts", attempt+1))
			return nil, err
		}

		if !isServerError(response) || attempt >= retries.MaxRetries {
			span.SetAttributes(
				attribute.Bool("success", !isServerError(response)),
				attribute.Int("status", response.StatusCode),
				attribute.Int("attempts", attempt+1),
			)
			return response, nil
		}

		span.AddEvent("retry", attribute.Int("attempt", attempt), attribute.Int("status", response.StatusCode))
		if drainErr := drainAndClose(response.Body); drainErr != nil {
			span.SetAttributes(attribute.String("cleanup_error", drainErr.Error()))
		}
		if err := sleep(ctx, retries.Interval); err != nil {
			return nil, WrapTimeoutError(err)
		}
	}
}

func (client *RLHTTPClient) attempt(ctx context.Context, request *http.Request, attempt int) (*http.Response, error) {
	if err := client.Ratelimiter.Wait(ctx); err != nil {
		if IsTimeoutError(err) {
			return nil, WrapTimeoutError(err)
		}
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	outgoing := request.WithContext(ctx)
	if attempt > 0 && request.GetBody != nil {
		body, err := request.GetBody()
		if err != nil {
			return nil, err
		}
		outgoing.Body = body
	}

	response, err := client.client.Do(outgoing)
	if err != nil {
		return nil, WrapTimeoutError(err)
	}
	return response, nil
}

func (client *RLHTTPClient) retryConfig() RetryConfig {
	if client.RetryConfig != nil {
		return *client.RetryConfig
	}
	return defaultRetryConfig
}

func isServerError(response *http.Response) bool {
	return response.StatusCode >= 500 && response.StatusCode < 600
}

func sleep(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainAndClose(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, readErr := io.Copy(io.Discard, body)
	return errors.Join(readErr, body.Close())
}
