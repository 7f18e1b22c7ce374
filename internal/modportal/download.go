package modportal

import (
	"context"
	"net/url"
	"strings"

	"github.com/furrctorio/furrctorio/internal/globalerrors"
	"github.com/furrctorio/furrctorio/internal/httpclient"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type Credentials struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (c Credentials) IsZero() bool {
	return c.Username == "" || c.Token == ""
}

// DownloadURL is where the archive of release can be fetched with creds. The
// release URL must be relative or point at the portal host.
func (c *Client) DownloadURL(release models.Release, creds Credentials) (string, error) {
	if release.DownloadURL == "" {
		return "", errors.Errorf("release %s has no download url", release.FileName)
	}

	target, err := url.Parse(release.DownloadURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid download url")
	}
	base, err := url.Parse(c.portalURL + "/")
	if err != nil {
		return "", errors.Wrap(err, "invalid portal url")
	}
	foreignScheme := target.Scheme != "" && !strings.EqualFold(target.Scheme, base.Scheme)
	foreignHost := target.Host != "" && !strings.EqualFold(target.Host, base.Host)
	if foreignScheme || foreignHost {
		return "", errors.Wrapf(ErrForeignDownloadHost, "%s for %s", target.Host, release.FileName)
	}
	// Credentials only ever travel to the portal itself.
	target = base.ResolveReference(&url.URL{Path: strings.TrimPrefix(target.Path, "/"), RawQuery: target.RawQuery})

	query := target.Query()
	query.Set("username", creds.Username)
	query.Set("token", creds.Token)
	target.RawQuery = query.Encode()
	return target.String(), nil
}

// Download fetches the whole archive of release. The caller is expected to
// check it against the declared SHA-1.
func (c *Client) Download(ctx context.Context, release models.Release, creds Credentials) ([]byte, error) {
	return c.DownloadWithProgress(ctx, release, creds, nil)
}

func (c *Client) DownloadWithProgress(ctx context.Context, release models.Release, creds Credentials, onProgress httpclient.Progress) ([]byte, error) {
	ctx, span := perf.StartSpan(ctx, "modportal.download",
		perf.WithAttributes(
			attribute.String("file", release.FileName),
			attribute.String("version", release.Version.String()),
		),
	)
	defer span.End()

	if creds.IsZero() {
		return nil, ErrMissingCredentials
	}

	target, err := c.DownloadURL(release, creds)
	if err != nil {
		return nil, err
	}

	ctx, cancel := httpclient.WithDownloadTimeout(ctx)
	defer cancel()

	data, err := httpclient.Fetch(ctx, target, c, onProgress)
	if err != nil {
		span.RecordError(err)
		return nil, globalerrors.ModAPIErrorWrap(httpclient.WrapTimeoutError(err), release.FileName)
	}
	span.SetAttributes(attribute.Int("bytes", len(data)))
	return data, nil
}
