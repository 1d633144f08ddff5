package apkcfg

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRequired   = errors.New("missing required option")
	ErrInvalidRange      = errors.New("invalid range")
	ErrUnknownSigningRef = errors.New("unknown signing config")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrInvalidValue      = errors.New("invalid value")
	ErrConflict          = errors.New("conflicting options")
	ErrUnknownOption     = errors.New("unknown option")
)

// ConfigError describes a single problem with a single option.
// It unwraps to one of the Err* kinds above so that callers
// can use errors.Is even through an errors.Join.
type ConfigError struct {
	Key    string
	Kind   error
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %s", e.Key, e.Kind, e.Detail)
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

func newConfigError(key string, kind error, format string, a ...any) *ConfigError {
	return &ConfigError{Key: key, Kind: kind, Detail: fmt.Sprintf(format, a...)}
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	cerr := &ConfigError{}
	return errors.As(err, &cerr)
}
