// Package parsererror defines the typed errors surfaced by the engine's I/O
// boundaries: persisted tables, datasets and caller-supplied parameters.
package parsererror

import "fmt"

// ParseError represents a failure to decode a record of a dataset file.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TableError reports a persisted rule or exception table that could not be loaded.
// Key is set when a specific entry is at fault.
type TableError struct {
	Path   string
	Key    string
	Reason string
	Err    error
}

func (e *TableError) Error() string {
	msg := fmt.Sprintf("malformed table %s", e.Path)
	if e.Key != "" {
		msg += fmt.Sprintf(" (entry '%s')", e.Key)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// ValidationError represents a rejected caller-supplied parameter.
type ValidationError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Param, e.Value, e.Reason)
}
