package detector

import "fmt"

// ConfigError reports malformed thresholds. It is fatal to the detector's owner.
type ConfigError struct {
	msg string
}

func (e ConfigError) Error() string {
	return "invalid thresholds: " + e.msg
}

func newConfigError(format string, args ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
