package patterns

import (
	"fmt"
	"strings"

	"github.com/erraggy/rngtools/names"
)

// ErrorKind classifies a validation error for callers that aggregate them
// into reports.
type ErrorKind int

const (
	// ErrGeneral covers structural problems: unexpected end tags,
	// incomplete content.
	ErrGeneral ErrorKind = iota
	// ErrElementName marks an element name outside the expected class.
	ErrElementName
	// ErrAttributeName marks an attribute name outside the expected class,
	// or a required attribute that never appeared.
	ErrAttributeName
	// ErrAttributeValue marks an attribute value rejected by its pattern.
	ErrAttributeValue
	// ErrText marks character data rejected by its pattern.
	ErrText
	// ErrChoice marks an event rejected by every branch of a choice.
	ErrChoice
)

// ValidationError is a problem found in the document. Validation errors
// are values, not control flow: walkers return them from FireEvent and End
// and remain usable for subsequent events.
type ValidationError interface {
	error

	// Kind classifies the error.
	Kind() ErrorKind

	// Name returns the expanded name involved, or a zero name when the
	// error is not about a name.
	Name() names.ExpandedName
}

// ElementNameError reports an element whose name no open pattern accepts.
type ElementNameError struct {
	// Actual is the offending element name
	Actual names.ExpandedName
}

func (e *ElementNameError) Error() string {
	return fmt.Sprintf("element %s not allowed here", e.Actual)
}

func (e *ElementNameError) Kind() ErrorKind { return ErrElementName }
func (e *ElementNameError) Name() names.ExpandedName { return e.Actual }

// AttributeNameError reports an attribute whose name no open pattern
// accepts, or — when Missing is set — a required attribute that never
// appeared before leaveStartTag.
type AttributeNameError struct {
	// Actual is the offending or expected attribute name; for an open
	// expected class, Class is set instead
	Actual names.ExpandedName
	// Class is the expected name class for missing-attribute errors
	Class names.NameClass
	// Missing distinguishes "unexpected attribute" from "attribute required"
	Missing bool
}

func (e *AttributeNameError) Error() string {
	if e.Missing {
		if e.Class != nil {
			return fmt.Sprintf("attribute %s is required", e.Class)
		}
		return fmt.Sprintf("attribute %s is required", e.Actual)
	}
	return fmt.Sprintf("attribute %s not allowed here", e.Actual)
}

func (e *AttributeNameError) Kind() ErrorKind { return ErrAttributeName }
func (e *AttributeNameError) Name() names.ExpandedName { return e.Actual }

// AttributeValueError reports an attribute value its pattern rejects.
type AttributeValueError struct {
	// Attr is the attribute's expanded name
	Attr names.ExpandedName
	// Value is the rejected raw value
	Value string
	// Cause carries the datatype's rejection when one is available
	Cause error
}

func (e *AttributeValueError) Error() string {
	msg := fmt.Sprintf("invalid value %q for attribute %s", e.Value, e.Attr)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AttributeValueError) Kind() ErrorKind { return ErrAttributeValue }
func (e *AttributeValueError) Name() names.ExpandedName { return e.Attr }
func (e *AttributeValueError) Unwrap() error { return e.Cause }

// TextError reports character data no open pattern accepts.
type TextError struct {
	// Value is the rejected text
	Value string
}

func (e *TextError) Error() string {
	return fmt.Sprintf("text %q not allowed here", abbreviate(e.Value))
}

func (e *TextError) Kind() ErrorKind { return ErrText }
func (e *TextError) Name() names.ExpandedName { return names.ExpandedName{} }

// ChoiceError reports that no branch of a choice accepted the input.
type ChoiceError struct {
	// Alternatives describes what the branches would have accepted
	Alternatives []string
}

func (e *ChoiceError) Error() string {
	if len(e.Alternatives) == 0 {
		return "no choice matched"
	}
	return "no choice matched; expected one of: " + strings.Join(e.Alternatives, ", ")
}

func (e *ChoiceError) Kind() ErrorKind { return ErrChoice }
func (e *ChoiceError) Name() names.ExpandedName { return names.ExpandedName{} }

// GeneralError is the catch-all for structural problems.
type GeneralError struct {
	Message string
}

func (e *GeneralError) Error() string {
	return e.Message
}

func (e *GeneralError) Kind() ErrorKind { return ErrGeneral }
func (e *GeneralError) Name() names.ExpandedName { return names.ExpandedName{} }

func generalErrorf(format string, args ...any) *GeneralError {
	return &GeneralError{Message: fmt.Sprintf(format, args...)}
}

// abbreviate shortens long text for error messages.
func abbreviate(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
