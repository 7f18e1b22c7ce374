// Package globalerrors holds the errors every portal operation can return,
// so commands can branch on them without importing the client.
package globalerrors

import "fmt"

type ModNotFoundError struct {
	Name string
}

func (e *ModNotFoundError) Error() string {
	return fmt.Sprintf("mod not found on the portal: %s", e.Name)
}

func (e *ModNotFoundError) Is(target error) bool {
	t, ok := target.(*ModNotFoundError)
	if !ok {
		return false
	}
	return e.Name == t.Name
}

// ModAPIError covers transport failures and unexpected portal answers.
// StatusCode is 0 when no response was received.
type ModAPIError struct {
	Name       string
	StatusCode int
	Err        error
}

func (e *ModAPIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mod %s cannot be fetched: portal answered %d", e.Name, e.StatusCode)
	}
	return fmt.Sprintf("mod %s cannot be fetched due to an api error: %v", e.Name, e.Err)
}

func (e *ModAPIError) Is(target error) bool {
	t, ok := target.(*ModAPIError)
	if !ok {
		return false
	}
	return e.Name == t.Name
}

func (e *ModAPIError) Unwrap() error {
	return e.Err
}

func ModAPIErrorWrap(err error, name string) error {
	return &ModAPIError{Name: name, Err: err}
}
