// Package issues provides a unified issue type for problems found while
// validating an XML document against a grammar.
package issues

import (
	"fmt"

	"github.com/erraggy/rngtools/internal/severity"
)

// Kind classifies what a validation issue is about.
type Kind int

const (
	// KindGeneral is the catch-all for structural problems, such as an
	// unexpected end tag or content left over at document end.
	KindGeneral Kind = iota
	// KindElementName reports an element whose name is outside the
	// expected name class.
	KindElementName
	// KindAttributeName reports an attribute whose name is outside the
	// expected name class.
	KindAttributeName
	// KindAttributeValue reports an attribute value rejected by its datatype.
	KindAttributeValue
	// KindText reports character data rejected by its datatype.
	KindText
	// KindChoice reports an event rejected by every branch of a choice.
	KindChoice
	// KindIncompleteType reports a datatype degraded to token semantics
	// under the incomplete-types allowance.
	KindIncompleteType
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindElementName:
		return "element-name"
	case KindAttributeName:
		return "attribute-name"
	case KindAttributeValue:
		return "attribute-value"
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	case KindIncompleteType:
		return "incomplete-type"
	default:
		return "unknown"
	}
}

// Issue represents a single problem found during validation.
type Issue struct {
	// Kind classifies the issue
	Kind Kind
	// Path is the slash-separated element path to the problem site
	// (e.g., "/library/book[2]/@isbn")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Name is the expanded XML name involved, in Clark notation
	// (e.g., "{http://example.com/ns}title"); empty when not applicable
	Name string
	// Value is the problematic value (optional)
	Value any
	// Line is the 1-based line number in the source document (0 if unknown)
	Line int
	// Column is the 1-based column number in the source document (0 if unknown)
	Column int
	// File is the source file path (empty when validating a reader)
	File string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	site := i.Path
	if site == "" {
		site = "document"
	}

	var result string
	if i.Line > 0 {
		result = fmt.Sprintf("%s %s (line %d, col %d): %s", symbol, site, i.Line, i.Column, i.Message)
	} else {
		result = fmt.Sprintf("%s %s: %s", symbol, site, i.Message)
	}
	return result
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line:column" if file is set, "line:column" if only line is set,
// or the element path if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Path
	}
	if i.File != "" {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// HasLocation returns true if this issue has source location information.
func (i Issue) HasLocation() bool {
	return i.Line > 0
}
