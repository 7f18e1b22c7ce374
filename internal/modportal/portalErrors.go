package modportal

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials  = errors.New("a username and token are required to download mods")
	ErrForeignDownloadHost = errors.New("download url points outside the mod portal")
)

// LoginError is what the auth server reports for a rejected login, for
// example "login-failed" or "email-authentication-required".
type LoginError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *LoginError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login failed: %s", e.Code)
	}
	return fmt.Sprintf("login failed: %s: %s", e.Code, e.Message)
}

func (e *LoginError) Is(target error) bool {
	t, ok := target.(*LoginError)
	if !ok {
		return false
	}
	return t.Code == "" || e.Code == t.Code
}

// NeedsEmailCode reports whether the login can be retried with the code the
// auth server mailed to the account.
func (e *LoginError) NeedsEmailCode() bool {
	return e.Code == "email-authentication-required"
}
