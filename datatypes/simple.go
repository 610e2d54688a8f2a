package datatypes

import (
	"github.com/shopspring/decimal"
)

// simpleType is the one concrete Datatype implementation. Each type in a
// library is a simpleType value differing only in its function fields; the
// shared Disallows logic strings whitespace handling, value parsing, and
// facet checking together.
type simpleType struct {
	name         string
	library      string
	builtin      bool
	needsContext bool
	whiteSpace   whiteSpaceMode
	facets       facet

	// parse maps a whitespace-normalized lexical value into value space
	parse func(st *simpleType, norm string, ctx *Context) (Value, error)
	// equal compares two values; nil means comparable via ==
	equal func(a, b Value) bool
	// compare orders two values; nil means the type is unordered
	compare func(a, b Value) int
	// length measures a value for the length facets; nil means no length
	length func(v Value) int
}

func (st *simpleType) Name() string       { return st.name }
func (st *simpleType) Library() string    { return st.library }
func (st *simpleType) IsBuiltin() bool    { return st.builtin }
func (st *simpleType) NeedsContext() bool { return st.needsContext }

func (st *simpleType) ParseParams(location string, params []RawParam) (*Params, error) {
	return st.parseParams(location, params)
}

func (st *simpleType) ParseValue(raw string, ctx *Context) (Value, error) {
	norm := applyWhiteSpace(raw, st.whiteSpace)
	return st.parse(st, norm, ctx)
}

func (st *simpleType) Equal(a, b Value) bool {
	if st.equal != nil {
		return st.equal(a, b)
	}
	return a == b
}

func (st *simpleType) Disallows(raw string, params *Params, ctx *Context) error {
	norm := applyWhiteSpace(raw, st.whiteSpace)
	v, err := st.parse(st, norm, ctx)
	if err != nil {
		return err
	}
	if params == nil {
		return nil
	}

	for _, tr := range params.Patterns {
		ok, err := tr.Matches(norm)
		if err != nil {
			return valueErrorf(st.name, raw, "pattern check failed: %v", err)
		}
		if !ok {
			return valueErrorf(st.name, raw, "does not match pattern %s", tr.Source)
		}
	}

	if st.length != nil {
		n := st.length(v)
		if params.Length != nil && n != *params.Length {
			return valueErrorf(st.name, raw, "length is %d, must be %d", n, *params.Length)
		}
		if params.MinLength != nil && n < *params.MinLength {
			return valueErrorf(st.name, raw, "length is %d, must be at least %d", n, *params.MinLength)
		}
		if params.MaxLength != nil && n > *params.MaxLength {
			return valueErrorf(st.name, raw, "length is %d, must be at most %d", n, *params.MaxLength)
		}
	}

	if st.compare != nil {
		if params.MinInclusive != nil && st.compare(v, params.MinInclusive) < 0 {
			return valueErrorf(st.name, raw, "less than minInclusive")
		}
		if params.MinExclusive != nil && st.compare(v, params.MinExclusive) <= 0 {
			return valueErrorf(st.name, raw, "not greater than minExclusive")
		}
		if params.MaxInclusive != nil && st.compare(v, params.MaxInclusive) > 0 {
			return valueErrorf(st.name, raw, "greater than maxInclusive")
		}
		if params.MaxExclusive != nil && st.compare(v, params.MaxExclusive) >= 0 {
			return valueErrorf(st.name, raw, "not less than maxExclusive")
		}
	}

	if params.TotalDigits != nil || params.FractionDigits != nil {
		if err := checkDigits(st, raw, v, params.TotalDigits, params.FractionDigits); err != nil {
			return err
		}
	}

	if len(params.Enumeration) > 0 {
		allowed := false
		for _, e := range params.Enumeration {
			if st.Equal(v, e) {
				allowed = true
				break
			}
		}
		if !allowed {
			return valueErrorf(st.name, raw, "not among the enumerated values")
		}
	}
	return nil
}

// checkDigits enforces totalDigits and fractionDigits on decimal values.
func checkDigits(st *simpleType, raw string, v Value, total, frac *int) error {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return nil
	}
	if total != nil {
		digits := len(d.Abs().Coefficient().String())
		if digits > *total {
			return valueErrorf(st.name, raw, "has %d digits, totalDigits allows %d", digits, *total)
		}
	}
	if frac != nil {
		exp := int(d.Exponent())
		places := 0
		if exp < 0 {
			places = -exp
		}
		if places > *frac {
			return valueErrorf(st.name, raw, "has %d fraction digits, fractionDigits allows %d", places, *frac)
		}
	}
	return nil
}

// libraryImpl is a name-indexed set of simpleTypes.
type libraryImpl struct {
	uri   string
	types map[string]*simpleType
}

func (l *libraryImpl) URI() string { return l.uri }

func (l *libraryImpl) Datatype(name string) (Datatype, bool) {
	st, ok := l.types[name]
	return st, ok
}

func (l *libraryImpl) Names() []string {
	out := make([]string, 0, len(l.types))
	for name := range l.types {
		out = append(out, name)
	}
	return out
}

func newLibrary(uri string, types []*simpleType) *libraryImpl {
	m := make(map[string]*simpleType, len(types))
	for _, st := range types {
		st.library = uri
		m[st.name] = st
	}
	return &libraryImpl{uri: uri, types: m}
}
