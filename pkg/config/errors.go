package config

import "fmt"

// ConfigError indicates a malformed or ambiguous pipeline configuration
// document. It always fails resolution before any step runs.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "invalid pipeline configuration: " + e.Msg
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
