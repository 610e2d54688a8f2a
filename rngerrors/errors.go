package rngerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSchema indicates a malformed schema file.
	ErrSchema = errors.New("schema error")

	// ErrFormatVersion indicates an unsupported schema format version.
	ErrFormatVersion = errors.New("unsupported format version")

	// ErrRef indicates a ref pattern naming an undefined define.
	ErrRef = errors.New("dangling ref")

	// ErrDatatype indicates an unknown datatype or invalid datatype parameters.
	ErrDatatype = errors.New("datatype error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SchemaError represents a failure to read a compiled schema file.
// This includes JSON deserialization errors and structural issues such as
// a node array with the wrong shape or an unknown pattern constructor.
type SchemaError struct {
	// Path is the file path or source identifier
	Path string
	// NodePath is the schema-internal path of the offending node, when the
	// file carries path strings (empty otherwise)
	NodePath string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaError) Error() string {
	msg := "schema error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.NodePath != "" {
		msg += " at " + e.NodePath
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// FormatVersionError represents a schema file whose format version is not
// supported by this build. Only version 3 is understood.
type FormatVersionError struct {
	// Found is the version declared by the file
	Found int
	// Supported is the version this build understands
	Supported int
}

// Error returns a human-readable error message.
func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("unsupported format version %d (supported: %d)", e.Found, e.Supported)
}

// Unwrap returns nil as FormatVersionError has no underlying cause.
func (e *FormatVersionError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *FormatVersionError) Is(target error) bool {
	return target == ErrFormatVersion
}

// RefError represents a ref pattern that names a define absent from the
// enclosing grammar. A conforming conversion tool never emits these, so a
// RefError normally means the schema file was edited or truncated.
type RefError struct {
	// Name is the define name the ref could not resolve
	Name string
	// NodePath is the schema-internal path of the ref, when available
	NodePath string
}

// Error returns a human-readable error message.
func (e *RefError) Error() string {
	msg := fmt.Sprintf("dangling ref: %q", e.Name)
	if e.NodePath != "" {
		msg += " at " + e.NodePath
	}
	return msg
}

// Unwrap returns nil as RefError has no underlying cause.
func (e *RefError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *RefError) Is(target error) bool {
	return target == ErrRef
}

// DatatypeError represents an unknown datatype or invalid datatype
// parameters discovered while loading a schema. Value errors found in the
// instance document are reported as issues instead, never as DatatypeError.
type DatatypeError struct {
	// Library is the datatypeLibrary URI
	Library string
	// Type is the datatype name within the library
	Type string
	// Param is the offending parameter name, if the problem is a parameter
	Param string
	// Message describes the failure
	Message string
	// Incomplete is true when the type is known to exist but is not
	// implemented by this build (the allow-incomplete-types case)
	Incomplete bool
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DatatypeError) Error() string {
	msg := "datatype error"
	if e.Type != "" {
		msg += ": " + e.Type
		if e.Library != "" {
			msg += " (" + e.Library + ")"
		}
	}
	if e.Param != "" {
		msg += ": parameter " + e.Param
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DatatypeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DatatypeError) Is(target error) bool {
	return target == ErrDatatype
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when loading exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "file_size", "nesting_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil && e.Value != "" {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
