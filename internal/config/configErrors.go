package config

import "fmt"

type ConfigFileNotFoundError struct {
	Path string
}

func (e *ConfigFileNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

type ConfigFileInvalidError struct {
	Path string
	Err  error
}

func (e *ConfigFileInvalidError) Error() string {
	return fmt.Sprintf("configuration file %s is invalid: %s", e.Path, e.Err)
}

func (e *ConfigFileInvalidError) Unwrap() error {
	return e.Err
}

type ConfigFileExistsError struct {
	Path string
}

func (e *ConfigFileExistsError) Error() string {
	return fmt.Sprintf("configuration file already exists: %s", e.Path)
}
