package filter

import (
	"errors"
	"fmt"
)

var ErrUnknownFilter = errors.New("unknown filter")

// ConfigError reports a broken dashboard or filter definition. The offending
// construction is aborted and nothing is returned.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("filter config: %s", e.Reason)
	}
	return fmt.Sprintf("filter config %q: %s", e.Key, e.Reason)
}

// EncodingError is returned when a value can not be serialized to query
// parameters. The state must not be persisted when this happens.
type EncodingError struct {
	Key    string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode filter %q: %s", e.Key, e.Reason)
}

// ValueError is returned when a value is rejected by a filter, nothing is
// committed and no change is reported.
type ValueError struct {
	Key    string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value for filter %q: %s", e.Key, e.Reason)
}

func valueTypeError(key string, value Value) *ValueError {
	return &ValueError{Key: key, Reason: fmt.Sprintf("unsupported value type %T", value)}
}
