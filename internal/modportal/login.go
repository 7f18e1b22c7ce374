package modportal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/furrctorio/furrctorio/internal/httpclient"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/pkg/errors"
)

type loginFailure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Login exchanges a password for a service token. emailCode is only sent
// when not empty.
func (c *Client) Login(ctx context.Context, username string, password string, emailCode string) (Credentials, error) {
	ctx, span := perf.StartSpan(ctx, "modportal.login")
	defer span.End()

	ctx, cancel := httpclient.WithLoginTimeout(ctx)
	defer cancel()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("api_version", "4")
	form.Set("require_game_ownership", "true")
	if emailCode != "" {
		form.Set("email_authentication_code", emailCode)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/api-login", strings.NewReader(form.Encode()))
	if err != nil {
		return Credentials{}, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.Do(request)
	if err != nil {
		span.RecordError(err)
		return Credentials{}, errors.Wrap(httpclient.WrapTimeoutError(err), "login request failed")
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return Credentials{}, errors.Wrap(httpclient.WrapTimeoutError(err), "login request failed")
	}

	if response.StatusCode != http.StatusOK {
		failure := loginFailure{}
		if err := json.Unmarshal(data, &failure); err != nil || failure.Error == "" {
			failure.Error = http.StatusText(response.StatusCode)
		}
		loginErr := &LoginError{Code: failure.Error, Message: failure.Message, StatusCode: response.StatusCode}
		span.RecordError(loginErr)
		return Credentials{}, loginErr
	}

	return parseLoginResponse(username, data)
}

// parseLoginResponse accepts both answers the auth server gives: a list of
// tokens from older API versions, or an object with username and token.
func parseLoginResponse(username string, data []byte) (Credentials, error) {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err == nil {
		if len(tokens) == 0 || tokens[0] == "" {
			return Credentials{}, errors.New("login response contained no token")
		}
		return Credentials{Username: username, Token: tokens[0]}, nil
	}

	creds := Credentials{}
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, errors.Wrap(err, "unexpected login response")
	}
	if creds.Token == "" {
		return Credentials{}, errors.New("login response contained no token")
	}
	if creds.Username == "" {
		creds.Username = username
	}
	return creds, nil
}
