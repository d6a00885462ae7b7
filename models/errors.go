package models

import (
	"fmt"
)

// ConfigError reports a model specification that cannot be built. It is always returned as a
// pointer, and can be found with errors.As or errors.Cause.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("models: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
