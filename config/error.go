package config

import "fmt"

// Error is a configuration error: a setting that is missing, unknown, or out
// of range. It is always fatal to the run.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error in '%s': %s", e.Key, e.Reason)
}
