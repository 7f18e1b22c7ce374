package modportal

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeStringResponse(t *testing.T, writer http.ResponseWriter, payload string) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write([]byte(payload)); err != nil {
		t.Fatalf("write string response: %v", err)
	}
}

type responseDoer struct {
	response *http.Response
	err      error
}

func (doer responseDoer) Do(_ *http.Request) (*http.Response, error) {
	return doer.response, doer.err
}

type countingDoer struct {
	calls int
}

func (doer *countingDoer) Do(_ *http.Request) (*http.Response, error) {
	doer.calls++
	return nil, errors.New("unexpected request")
}

func newPortal(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.Client(), WithPortalURL(server.URL)), server
}
