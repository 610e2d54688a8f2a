// Package rngerrors provides structured error types for the rngtools library.
//
// Import path: github.com/erraggy/rngtools/rngerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides six core error types:
//
//   - [SchemaError]: malformed JSON schema files and structural issues
//   - [FormatVersionError]: unsupported schema format versions
//   - [RefError]: ref patterns naming an undefined define
//   - [DatatypeError]: unknown datatypes and invalid datatype parameters
//   - [ResourceLimitError]: resource exhaustion (depth, size limits)
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a matching sentinel usable with [errors.Is]:
// [ErrSchema], [ErrFormatVersion], [ErrRef], [ErrDatatype],
// [ErrResourceLimit], and [ErrConfig].
//
// # Scope
//
// These types cover schema-time failures, which are fatal to a validation
// session. Problems found in the XML instance document are deliberately not
// errors: walkers report them as issue values and remain usable, so an
// editor can show a diagnostic and keep validating.
package rngerrors
