package config

import "fmt"

// ConfigurationError is fatal: nothing downstream can be trusted once the
// configuration itself is wrong, so the whole run aborts. It always names the
// offending file, and the key/value when one is involved.
type ConfigurationError struct {
	File  string
	Key   string
	Value string
	Msg   string
	Err   error
}

func (e *ConfigurationError) Error() string {
	s := fmt.Sprintf("invalid configuration in %s", e.File)
	if e.Key != "" {
		s += fmt.Sprintf(": key %q", e.Key)
	}
	if e.Value != "" {
		s += fmt.Sprintf(" = %q", e.Value)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
