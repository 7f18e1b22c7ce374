package modportal

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/furrctorio/furrctorio/internal/globalerrors"
	"github.com/furrctorio/furrctorio/internal/httpclient"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// GetMod fetches the short form of a mod, which carries the latest release
// only.
func (c *Client) GetMod(ctx context.Context, name string) (*models.ModSummary, error) {
	ctx, span := perf.StartSpan(ctx, "modportal.mod", perf.WithAttributes(attribute.String("mod", name)))
	defer span.End()

	data, err := c.cached(ctx, "mod:"+name, func() ([]byte, error) {
		return c.getModJSON(ctx, name, "/api/mods/"+url.PathEscape(name))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	summary, err := decode[models.ModSummary](data)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(errors.Wrap(err, "invalid mod summary"), name)
	}
	return summary, nil
}

// GetModFull fetches every release of a mod along with its description,
// changelog and license.
func (c *Client) GetModFull(ctx context.Context, name string) (*models.ModDetail, error) {
	ctx, span := perf.StartSpan(ctx, "modportal.mod.full", perf.WithAttributes(attribute.String("mod", name)))
	defer span.End()

	data, err := c.cached(ctx, "mod-full:"+name, func() ([]byte, error) {
		return c.getModJSON(ctx, name, "/api/mods/"+url.PathEscape(name)+"/full")
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	detail, err := decode[models.ModDetail](data)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(errors.Wrap(err, "invalid mod detail"), name)
	}
	span.SetAttributes(attribute.Int("releases", len(detail.Releases)))
	return detail, nil
}

func (c *Client) getModJSON(ctx context.Context, name string, path string) ([]byte, error) {
	ctx, cancel := httpclient.WithMetadataTimeout(ctx)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.portalURL+path, nil)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(err, name)
	}

	response, err := c.Do(request)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(httpclient.WrapTimeoutError(err), name)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, &globalerrors.ModNotFoundError{Name: name}
	}

	if response.StatusCode != http.StatusOK {
		return nil, &globalerrors.ModAPIError{
			Name:       name,
			StatusCode: response.StatusCode,
			Err:        errors.Errorf("unexpected status code: %d", response.StatusCode),
		}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(httpclient.WrapTimeoutError(err), name)
	}
	return data, nil
}
