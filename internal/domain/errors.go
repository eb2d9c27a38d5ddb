package domain

import "fmt"

// ConfigError reports a missing required credential or sheet column. It is
// never retried and never shown verbatim to the end user; the responder logs
// it and replies with a generic failure message.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// ConfigErrorf builds a ConfigError with a formatted reason.
func ConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
