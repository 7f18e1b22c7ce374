package modportal

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/furrctorio/furrctorio/internal/globalerrors"
	"github.com/furrctorio/furrctorio/internal/httpclient"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// MaxPageSize asks the portal for every result on one page.
const MaxPageSize = -1

const pageListName = "mod list"

type PageQuery struct {
	Page           int
	PageSize       int
	Version        models.FactorioVersion
	Namelist       []string
	HideDeprecated bool
}

func (q PageQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	switch {
	case q.PageSize == MaxPageSize:
		values.Set("page_size", "max")
	case q.PageSize > 0:
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Version != "" {
		values.Set("version", q.Version.String())
	}
	if len(q.Namelist) > 0 {
		values.Set("namelist", strings.Join(q.Namelist, ","))
	}
	if q.HideDeprecated {
		values.Set("hide_deprecated", "true")
	}
	return values
}

func (c *Client) GetPage(ctx context.Context, query PageQuery) (*models.ModPage, error) {
	ctx, span := perf.StartSpan(ctx, "modportal.page", perf.WithAttributes(attribute.Int("page", query.Page)))
	defer span.End()

	ctx, cancel := httpclient.WithMetadataTimeout(ctx)
	defer cancel()

	endpoint := c.portalURL + "/api/mods"
	if encoded := query.values().Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(err, pageListName)
	}

	response, err := c.Do(request)
	if err != nil {
		span.RecordError(err)
		return nil, globalerrors.ModAPIErrorWrap(httpclient.WrapTimeoutError(err), pageListName)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &globalerrors.ModAPIError{
			Name:       pageListName,
			StatusCode: response.StatusCode,
			Err:        errors.Errorf("unexpected status code: %d", response.StatusCode),
		}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(httpclient.WrapTimeoutError(err), pageListName)
	}

	page, err := decode[models.ModPage](data)
	if err != nil {
		return nil, globalerrors.ModAPIErrorWrap(errors.Wrap(err, "invalid mod page"), pageListName)
	}
	span.SetAttributes(attribute.Int("results", len(page.Results)))
	return page, nil
}

// AllMods walks the pages starting at query.Page and calls visit for every
// result until the last page. An error from visit stops the walk and is
// returned as is.
func (c *Client) AllMods(ctx context.Context, query PageQuery, visit func(models.ModSummary) error) error {
	if query.Page < 1 {
		query.Page = 1
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := c.GetPage(ctx, query)
		if err != nil {
			return err
		}

		for _, mod := range page.Results {
			if err := visit(mod); err != nil {
				return err
			}
		}

		if page.IsLast() {
			return nil
		}
		query.Page = page.Pagination.Page + 1
	}
}
