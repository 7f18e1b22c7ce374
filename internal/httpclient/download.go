package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/furrctorio/furrctorio/internal/perf"
	"go.opentelemetry.io/otel/attribute"
)

// Progress receives the fraction of the body read so far. It is only called
// when the server announces a content length.
type Progress func(ratio float64)

type progressWriter struct {
	total      int64
	read       int64
	onProgress Progress
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.read += int64(len(p))
	if pw.total > 0 && pw.onProgress != nil {
		pw.onProgress(float64(pw.read) / float64(pw.total))
	}
	return len(p), nil
}

// StatusError is returned by Fetch for any answer other than 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Fetch downloads url completely into memory.
func Fetch(ctx context.Context, url string, client Doer, onProgress Progress) ([]byte, error) {
	ctx, span := perf.StartSpan(ctx, "net.http.fetch", perf.WithAttributes(attribute.String("url", withoutQuery(url))))
	defer span.End()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := client.Do(request)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		err := &StatusError{URL: withoutQuery(url), StatusCode: response.StatusCode}
		span.RecordError(err)
		return nil, err
	}

	buffer := &bytes.Buffer{}
	if response.ContentLength > 0 {
		buffer.Grow(int(response.ContentLength))
	}
	pw := &progressWriter{total: response.ContentLength, onProgress: onProgress}
	if _, err := io.Copy(buffer, io.TeeReader(response.Body, pw)); err != nil {
		err = WrapTimeoutError(err)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read download: %w", err)
	}

	span.SetAttributes(attribute.Int("bytes", buffer.Len()))
	return buffer.Bytes(), nil
}

// withoutQuery keeps credentials passed as query parameters out of spans and
// error messages.
func withoutQuery(url string) string {
	base, _, _ := strings.Cut(url, "?")
	return base
}
