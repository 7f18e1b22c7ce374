// Package testutil holds shared test helpers.
package testutil

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/furrctorio/furrctorio/internal/httpclient"
)

// ErrUnroutedHost is returned for requests to hosts the doer was not told to
// route.
var ErrUnroutedHost = errors.New("request to unrouted host")

// ServerDoer sends requests for real portal hosts to a local test server and
// remembers what was asked for.
type ServerDoer struct {
	target *url.URL
	hosts  map[string]struct{}
	next   httpclient.Doer

	mu       sync.Mutex
	requests []string
}

// NewServerDoer routes requests for hosts to serverURL through next. With no
// hosts every request is routed.
func NewServerDoer(serverURL string, next httpclient.Doer, hosts ...string) (*ServerDoer, error) {
	if next == nil {
		return nil, errors.New("next doer is nil")
	}

	target, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("server url %q needs a scheme and host", serverURL)
	}

	doer := &ServerDoer{target: target, next: next}
	if len(hosts) > 0 {
		doer.hosts = make(map[string]struct{}, len(hosts))
		for _, host := range hosts {
			doer.hosts[host] = struct{}{}
		}
	}
	return doer, nil
}

func MustNewServerDoer(serverURL string, next httpclient.Doer, hosts ...string) *ServerDoer {
	doer, err := NewServerDoer(serverURL, next, hosts...)
	if err != nil {
		panic(err)
	}
	return doer
}

func (d *ServerDoer) Do(req *http.Request) (*http.Response, error) {
	if d.hosts != nil {
		if _, ok := d.hosts[req.URL.Host]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnroutedHost, req.URL.Host)
		}
	}

	d.mu.Lock()
	d.requests = append(d.requests, req.Method+" "+req.URL.Host+req.URL.Path)
	d.mu.Unlock()

	routed := req.Clone(req.Context())
	routed.URL.Scheme = d.target.Scheme
	routed.URL.Host = d.target.Host
	routed.Host = d.target.Host
	return d.next.Do(routed)
}

// Requests lists the routed requests as "METHOD host/path", oldest first.
func (d *ServerDoer) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requests...)
}
