// Package datatypes provides the simple-type libraries used by data and
// value patterns during validation: the minimal built-in Relax NG library
// (string, token) and the W3C XML Schema datatypes library with its
// parameter facets.
//
// Datatypes separate schema-time work from validation-time work. Parameters
// (facets) are parsed once when a grammar is loaded; a facet problem there
// is fatal and surfaces as a [rngerrors.DatatypeError]. Values are checked
// while walking the document; a value problem is recoverable and surfaces
// as a [*ValueError] that the walker reports as an issue and moves past.
package datatypes

import (
	"fmt"

	"github.com/erraggy/rngtools/names"
	"github.com/erraggy/rngtools/rngerrors"
)

// Library URIs recognized in the datatypeLibrary attribute of a schema.
const (
	// BuiltinLibrary is the URI of the minimal built-in library (the empty string).
	BuiltinLibrary = ""
	// XSDLibrary is the URI of the W3C XML Schema datatypes library.
	XSDLibrary = "http://www.w3.org/2001/XMLSchema-datatypes"
)

// Value is a parsed datatype value. The concrete type depends on the
// datatype: string, bool, decimal.Decimal, float64, time.Time, []byte, or
// names.ExpandedName.
type Value any

// Context carries the document state a context-dependent datatype needs.
// Only QName resolution reads it.
type Context struct {
	// Resolver is the namespace resolver positioned at the value's element
	Resolver *names.Resolver
}

// RawParam is one unparsed datatype parameter from the schema.
type RawParam struct {
	Name  string
	Value string
}

// Datatype is one simple type in a library.
type Datatype interface {
	// Name returns the type's name within its library.
	Name() string

	// Library returns the URI of the library the type belongs to.
	Library() string

	// ParseParams validates and compiles the type's parameters. The
	// location names the schema site for error messages. Called at
	// grammar-load time; an error is fatal to loading.
	ParseParams(location string, params []RawParam) (*Params, error)

	// ParseValue parses a lexical value into its value-space
	// representation, applying the type's whitespace handling. A non-nil
	// error is always a *ValueError.
	ParseValue(raw string, ctx *Context) (Value, error)

	// Equal reports whether two parsed values are equal in the type's
	// value space.
	Equal(a, b Value) bool

	// Disallows checks a lexical value against the type and the given
	// parameters. A nil return means the value is allowed; a non-nil
	// return is always a *ValueError. Params may be nil when the pattern
	// carried no parameters.
	Disallows(raw string, params *Params, ctx *Context) error

	// IsBuiltin reports whether the type belongs to the built-in library.
	IsBuiltin() bool

	// NeedsContext reports whether ParseValue requires a Context with a
	// live resolver.
	NeedsContext() bool
}

// Library is a registry of datatypes keyed by name.
type Library interface {
	// URI returns the library's datatypeLibrary URI.
	URI() string

	// Datatype looks up a type by name.
	Datatype(name string) (Datatype, bool)

	// Names returns the names of all types in the library.
	Names() []string
}

// libraries is the process-wide registry, populated by init in
// builtin.go and xsd.go. Read-only afterwards.
var libraries = map[string]Library{}

// Get returns the library registered for uri.
func Get(uri string) (Library, bool) {
	lib, ok := libraries[uri]
	return lib, ok
}

// Find resolves a type by library URI and name. The returned error is a
// *rngerrors.DatatypeError when either lookup fails.
func Find(uri, name string) (Datatype, error) {
	lib, ok := libraries[uri]
	if !ok {
		return nil, &rngerrors.DatatypeError{
			Library: uri,
			Type:    name,
			Message: "unknown datatype library",
		}
	}
	dt, ok := lib.Datatype(name)
	if !ok {
		return nil, &rngerrors.DatatypeError{
			Library: uri,
			Type:    name,
			Message: "unknown datatype",
		}
	}
	return dt, nil
}

// ValueError reports a lexical value rejected by a datatype. It is the
// recoverable, instance-side counterpart of rngerrors.DatatypeError:
// walkers convert it into a validation issue and continue.
type ValueError struct {
	// Type is the datatype name
	Type string
	// Value is the offending lexical value
	Value string
	// Message describes the rejection
	Message string
}

// Error returns a human-readable error message.
func (e *ValueError) Error() string {
	return fmt.Sprintf("%q is not a valid %s: %s", e.Value, e.Type, e.Message)
}

func valueErrorf(typeName, raw, format string, args ...any) *ValueError {
	return &ValueError{Type: typeName, Value: raw, Message: fmt.Sprintf(format, args...)}
}
