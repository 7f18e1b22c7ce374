package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(request *http.Request) (*http.Response, error) {
	return f(request)
}

func TestFetchReadsBodyAndReportsProgress(t *testing.T) {
	payload := []byte("zip archive bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	var last float64
	data, err := Fetch(context.Background(), server.URL+"/file.zip", newTestClient(nil), func(ratio float64) {
		last = ratio
	})
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, 1.0, last)
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL+"/file.zip?username=u&token=secret", newTestClient(nil), nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.NotContains(t, err.Error(), "secret")
}

func TestFetchWrapsTransportErrors(t *testing.T) {
	failing := doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := Fetch(context.Background(), "http://example.invalid/file.zip", failing, nil)
	assert.ErrorContains(t, err, "failed to download file")
}

func TestWithoutQuery(t *testing.T) {
	assert.Equal(t, "https://mods.factorio.com/download/flib/1", withoutQuery("https://mods.factorio.com/download/flib/1?username=u&token=t"))
	assert.Equal(t, "plain", withoutQuery("plain"))
}
