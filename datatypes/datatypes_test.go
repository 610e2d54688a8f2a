package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rngtools/names"
	"github.com/erraggy/rngtools/rngerrors"
)

func mustType(t *testing.T, uri, name string) Datatype {
	t.Helper()
	dt, err := Find(uri, name)
	require.NoError(t, err)
	return dt
}

func TestRegistry(t *testing.T) {
	t.Run("builtin library", func(t *testing.T) {
		lib, ok := Get(BuiltinLibrary)
		require.True(t, ok)
		assert.Equal(t, BuiltinLibrary, lib.URI())
		assert.ElementsMatch(t, []string{"string", "token"}, lib.Names())
	})

	t.Run("xsd library", func(t *testing.T) {
		lib, ok := Get(XSDLibrary)
		require.True(t, ok)
		assert.Contains(t, lib.Names(), "integer")
		assert.Contains(t, lib.Names(), "QName")
	})

	t.Run("unknown library", func(t *testing.T) {
		_, err := Find("urn:bogus", "string")
		assert.ErrorIs(t, err, rngerrors.ErrDatatype)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Find(XSDLibrary, "ENTITY")
		assert.ErrorIs(t, err, rngerrors.ErrDatatype)
	})
}

func TestBuiltinString(t *testing.T) {
	dt := mustType(t, BuiltinLibrary, "string")
	assert.True(t, dt.IsBuiltin())
	assert.False(t, dt.NeedsContext())

	a, err := dt.ParseValue("  a  b  ", nil)
	require.NoError(t, err)
	b, err := dt.ParseValue("a b", nil)
	require.NoError(t, err)
	assert.False(t, dt.Equal(a, b), "string preserves whitespace")
	assert.True(t, dt.Equal(a, a))

	// The built-in types accept no parameters.
	_, err = dt.ParseParams("", []RawParam{{Name: "minLength", Value: "1"}})
	assert.ErrorIs(t, err, rngerrors.ErrDatatype)
}

func TestBuiltinToken(t *testing.T) {
	dt := mustType(t, BuiltinLibrary, "token")

	a, err := dt.ParseValue("  a \t b \n", nil)
	require.NoError(t, err)
	b, err := dt.ParseValue("a b", nil)
	require.NoError(t, err)
	assert.True(t, dt.Equal(a, b), "token compares collapsed")
}

func TestXSDStringTypes(t *testing.T) {
	t.Run("normalizedString replaces", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "normalizedString")
		v, err := dt.ParseValue("a\tb\nc", nil)
		require.NoError(t, err)
		assert.Equal(t, "a b c", v)
	})

	t.Run("token collapses", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "token")
		v, err := dt.ParseValue("  a   b  ", nil)
		require.NoError(t, err)
		assert.Equal(t, "a b", v)
	})

	t.Run("NCName rejects colon", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "NCName")
		_, err := dt.ParseValue("a:b", nil)
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "NCName", verr.Type)

		_, err = dt.ParseValue("ok-name", nil)
		assert.NoError(t, err)
	})

	t.Run("Name allows colon", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "Name")
		_, err := dt.ParseValue("a:b", nil)
		assert.NoError(t, err)
		_, err = dt.ParseValue("2bad", nil)
		assert.Error(t, err)
	})

	t.Run("NMTOKEN", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "NMTOKEN")
		_, err := dt.ParseValue("2-is.fine", nil)
		assert.NoError(t, err)
		_, err = dt.ParseValue("has space", nil)
		assert.Error(t, err)
	})

	t.Run("language", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "language")
		_, err := dt.ParseValue(" en-US ", nil)
		assert.NoError(t, err)
		_, err = dt.ParseValue("not a language", nil)
		assert.Error(t, err)
	})
}

func TestXSDQName(t *testing.T) {
	dt := mustType(t, XSDLibrary, "QName")
	assert.True(t, dt.NeedsContext())

	resolver := names.NewResolver()
	resolver.EnterContext()
	resolver.DefinePrefix("p", "urn:one")
	ctx := &Context{Resolver: resolver}

	v, err := dt.ParseValue("p:local", ctx)
	require.NoError(t, err)
	assert.Equal(t, names.ExpandedName{NS: "urn:one", Local: "local"}, v)

	_, err = dt.ParseValue("nope:local", ctx)
	assert.Error(t, err, "unresolvable prefix")

	_, err = dt.ParseValue("p:local", nil)
	assert.Error(t, err, "QName requires a context")

	// Equality is in the expanded value space: different prefixes bound to
	// the same URI compare equal.
	resolver.DefinePrefix("q", "urn:one")
	w, err := dt.ParseValue("q:local", ctx)
	require.NoError(t, err)
	assert.True(t, dt.Equal(v, w))
}

func TestXSDBoolean(t *testing.T) {
	dt := mustType(t, XSDLibrary, "boolean")

	for raw, want := range map[string]bool{"true": true, "1": true, "false": false, "0": false} {
		v, err := dt.ParseValue(" "+raw+" ", nil)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err := dt.ParseValue("TRUE", nil)
	assert.Error(t, err)
}

func TestXSDDecimal(t *testing.T) {
	dt := mustType(t, XSDLibrary, "decimal")

	a, err := dt.ParseValue("1.50", nil)
	require.NoError(t, err)
	b, err := dt.ParseValue("01.5", nil)
	require.NoError(t, err)
	assert.True(t, dt.Equal(a, b), "decimal equality is numeric")

	_, err = dt.ParseValue("1.", nil)
	assert.NoError(t, err, "trailing dot is valid XSD decimal")

	for _, bad := range []string{"1e5", "abc", "1..2", ""} {
		_, err := dt.ParseValue(bad, nil)
		assert.Error(t, err, "%q should be rejected", bad)
	}
}

func TestXSDIntegerAndDerived(t *testing.T) {
	tests := []struct {
		typeName string
		ok       []string
		bad      []string
	}{
		{"integer", []string{"0", "-42", "+7", "99999999999999999999999999"}, []string{"1.5", "1e2", ""}},
		{"nonPositiveInteger", []string{"0", "-5"}, []string{"1"}},
		{"negativeInteger", []string{"-1"}, []string{"0"}},
		{"nonNegativeInteger", []string{"0", "5"}, []string{"-1"}},
		{"positiveInteger", []string{"1"}, []string{"0"}},
		{"long", []string{"9223372036854775807"}, []string{"9223372036854775808"}},
		{"int", []string{"2147483647"}, []string{"2147483648"}},
		{"short", []string{"-32768"}, []string{"-32769"}},
		{"byte", []string{"127"}, []string{"128"}},
		{"unsignedLong", []string{"18446744073709551615"}, []string{"-1", "18446744073709551616"}},
		{"unsignedInt", []string{"4294967295"}, []string{"4294967296"}},
		{"unsignedShort", []string{"65535"}, []string{"65536"}},
		{"unsignedByte", []string{"255"}, []string{"256"}},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			dt := mustType(t, XSDLibrary, tt.typeName)
			for _, raw := range tt.ok {
				_, err := dt.ParseValue(raw, nil)
				assert.NoError(t, err, "%s should accept %q", tt.typeName, raw)
			}
			for _, raw := range tt.bad {
				_, err := dt.ParseValue(raw, nil)
				assert.Error(t, err, "%s should reject %q", tt.typeName, raw)
			}
		})
	}
}

func TestXSDFloatDouble(t *testing.T) {
	dt := mustType(t, XSDLibrary, "double")

	v, err := dt.ParseValue("1.5e3", nil)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, v)

	for _, special := range []string{"INF", "-INF", "NaN"} {
		_, err := dt.ParseValue(special, nil)
		assert.NoError(t, err, "%q is a valid double", special)
	}

	// NaN equals itself in the XSD value space.
	nan1, _ := dt.ParseValue("NaN", nil)
	nan2, _ := dt.ParseValue("NaN", nil)
	assert.True(t, dt.Equal(nan1, nan2))

	_, err = dt.ParseValue("1.5.3", nil)
	assert.Error(t, err)
}

func TestXSDBinary(t *testing.T) {
	t.Run("hexBinary", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "hexBinary")
		v, err := dt.ParseValue("0FB7", nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x0f, 0xb7}, v)

		_, err = dt.ParseValue("0FB", nil)
		assert.Error(t, err, "odd length")
	})

	t.Run("base64Binary", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "base64Binary")
		v, err := dt.ParseValue("aGVsbG8=", nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), v)

		_, err = dt.ParseValue("not base64!", nil)
		assert.Error(t, err)
	})
}

func TestXSDTemporal(t *testing.T) {
	t.Run("date", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "date")
		_, err := dt.ParseValue("2024-02-29", nil)
		assert.NoError(t, err)
		_, err = dt.ParseValue("2023-02-29", nil)
		assert.Error(t, err, "not a leap year")
	})

	t.Run("dateTime with zone", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "dateTime")
		a, err := dt.ParseValue("2024-01-01T12:00:00Z", nil)
		require.NoError(t, err)
		b, err := dt.ParseValue("2024-01-01T13:00:00+01:00", nil)
		require.NoError(t, err)
		assert.True(t, dt.Equal(a, b), "same instant in different zones")
	})

	t.Run("time", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "time")
		_, err := dt.ParseValue("13:20:00", nil)
		assert.NoError(t, err)
		_, err = dt.ParseValue("25:00:00", nil)
		assert.Error(t, err)
	})

	t.Run("gregorian fragments", func(t *testing.T) {
		for raw, typeName := range map[string]string{
			"2024":    "gYear",
			"2024-06": "gYearMonth",
			"--06-15": "gMonthDay",
			"---15":   "gDay",
			"--06":    "gMonth",
		} {
			dt := mustType(t, XSDLibrary, typeName)
			_, err := dt.ParseValue(raw, nil)
			assert.NoError(t, err, "%s should accept %q", typeName, raw)
			_, err = dt.ParseValue("nope", nil)
			assert.Error(t, err)
		}
	})

	t.Run("duration", func(t *testing.T) {
		dt := mustType(t, XSDLibrary, "duration")
		_, err := dt.ParseValue("P1Y2M3DT4H5M6.7S", nil)
		assert.NoError(t, err)
	})
}

func TestParseParamsValidation(t *testing.T) {
	str := mustType(t, XSDLibrary, "string")

	t.Run("minLength greater than maxLength", func(t *testing.T) {
		_, err := str.ParseParams("start", []RawParam{
			{Name: "minLength", Value: "5"},
			{Name: "maxLength", Value: "2"},
		})
		assert.ErrorIs(t, err, rngerrors.ErrDatatype)
	})

	t.Run("length excludes minLength", func(t *testing.T) {
		_, err := str.ParseParams("", []RawParam{
			{Name: "length", Value: "5"},
			{Name: "minLength", Value: "2"},
		})
		assert.Error(t, err)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := str.ParseParams("", []RawParam{{Name: "pattern", Value: `ab\`}})
		assert.ErrorIs(t, err, rngerrors.ErrDatatype)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		_, err := str.ParseParams("", []RawParam{{Name: "frobnicate", Value: "1"}})
		assert.Error(t, err)
	})

	t.Run("inapplicable parameter", func(t *testing.T) {
		boolean := mustType(t, XSDLibrary, "boolean")
		_, err := boolean.ParseParams("", []RawParam{{Name: "minInclusive", Value: "0"}})
		assert.Error(t, err)
	})

	t.Run("bound parsed in value space", func(t *testing.T) {
		integer := mustType(t, XSDLibrary, "integer")
		_, err := integer.ParseParams("", []RawParam{{Name: "minInclusive", Value: "abc"}})
		assert.Error(t, err)

		p, err := integer.ParseParams("", []RawParam{{Name: "minInclusive", Value: "10"}})
		require.NoError(t, err)
		require.NotNil(t, p.MinInclusive)
	})

	t.Run("crossed bounds", func(t *testing.T) {
		integer := mustType(t, XSDLibrary, "integer")
		_, err := integer.ParseParams("", []RawParam{
			{Name: "minInclusive", Value: "10"},
			{Name: "maxInclusive", Value: "5"},
		})
		assert.Error(t, err)
	})

	t.Run("no params yields nil bag", func(t *testing.T) {
		p, err := str.ParseParams("", nil)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestDisallows(t *testing.T) {
	t.Run("length facets count runes", func(t *testing.T) {
		str := mustType(t, XSDLibrary, "string")
		p, err := str.ParseParams("", []RawParam{
			{Name: "minLength", Value: "2"},
			{Name: "maxLength", Value: "4"},
		})
		require.NoError(t, err)

		assert.NoError(t, str.Disallows("ab", p, nil))
		assert.NoError(t, str.Disallows("héllo"[:5], p, nil)) // "héll" is 4 runes
		assert.Error(t, str.Disallows("a", p, nil))
		assert.Error(t, str.Disallows("abcde", p, nil))
	})

	t.Run("pattern facet", func(t *testing.T) {
		str := mustType(t, XSDLibrary, "token")
		p, err := str.ParseParams("", []RawParam{{Name: "pattern", Value: `[a-z]+`}})
		require.NoError(t, err)

		assert.NoError(t, str.Disallows("abc", p, nil))
		assert.NoError(t, str.Disallows("  abc  ", p, nil), "pattern sees the collapsed value")
		assert.Error(t, str.Disallows("abc1", p, nil))
	})

	t.Run("repeated pattern params all apply", func(t *testing.T) {
		str := mustType(t, XSDLibrary, "string")
		p, err := str.ParseParams("", []RawParam{
			{Name: "pattern", Value: `[a-z]+`},
			{Name: "pattern", Value: `.{3}`},
		})
		require.NoError(t, err)

		assert.NoError(t, str.Disallows("abc", p, nil))
		assert.Error(t, str.Disallows("ab", p, nil))
		assert.Error(t, str.Disallows("ab1", p, nil))
	})

	t.Run("integer bounds", func(t *testing.T) {
		integer := mustType(t, XSDLibrary, "integer")
		p, err := integer.ParseParams("", []RawParam{
			{Name: "minInclusive", Value: "0"},
			{Name: "maxExclusive", Value: "100"},
		})
		require.NoError(t, err)

		assert.NoError(t, integer.Disallows("0", p, nil))
		assert.NoError(t, integer.Disallows("99", p, nil))
		assert.Error(t, integer.Disallows("-1", p, nil))
		assert.Error(t, integer.Disallows("100", p, nil))
	})

	t.Run("digit facets", func(t *testing.T) {
		dec := mustType(t, XSDLibrary, "decimal")
		p, err := dec.ParseParams("", []RawParam{
			{Name: "totalDigits", Value: "4"},
			{Name: "fractionDigits", Value: "2"},
		})
		require.NoError(t, err)

		assert.NoError(t, dec.Disallows("12.34", p, nil))
		assert.Error(t, dec.Disallows("123.45", p, nil), "five digits")
		assert.Error(t, dec.Disallows("1.234", p, nil), "three fraction digits")
	})

	t.Run("enumeration", func(t *testing.T) {
		tok := mustType(t, XSDLibrary, "token")
		p, err := tok.ParseParams("", []RawParam{
			{Name: "enumeration", Value: "red"},
			{Name: "enumeration", Value: "green"},
		})
		require.NoError(t, err)

		assert.NoError(t, tok.Disallows("red", p, nil))
		assert.NoError(t, tok.Disallows(" green ", p, nil))
		assert.Error(t, tok.Disallows("blue", p, nil))
	})

	t.Run("malformed value reported as ValueError", func(t *testing.T) {
		integer := mustType(t, XSDLibrary, "integer")
		err := integer.Disallows("12x", nil, nil)
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "integer", verr.Type)
		assert.Contains(t, verr.Error(), "12x")
	})

	t.Run("nil params allows any valid value", func(t *testing.T) {
		integer := mustType(t, XSDLibrary, "integer")
		assert.NoError(t, integer.Disallows("12", nil, nil))
	})
}
