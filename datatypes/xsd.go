package datatypes

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/erraggy/rngtools/xsdregex"
)

// Lexical checkers for types whose value space we model as strings. These
// are XSD expressions themselves, so the translator exercises its own
// dialect here.
var (
	lexName       = xsdregex.MustTranslate(`\i\c*`)
	lexNCName     = xsdregex.MustTranslate(`[\i-[:]][\c-[:]]*`)
	lexNMTOKEN    = xsdregex.MustTranslate(`\c+`)
	lexLanguage   = xsdregex.MustTranslate(`[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*`)
	lexDecimal    = xsdregex.MustTranslate(`(\+|-)?([0-9]+(\.[0-9]*)?|\.[0-9]+)`)
	lexInteger    = xsdregex.MustTranslate(`(\+|-)?[0-9]+`)
	lexFloat      = xsdregex.MustTranslate(`(\+|-)?([0-9]+(\.[0-9]*)?|\.[0-9]+)([Ee](\+|-)?[0-9]+)?|INF|-INF|NaN`)
	lexHexBinary  = xsdregex.MustTranslate(`([0-9a-fA-F]{2})*`)
	lexGYear      = xsdregex.MustTranslate(`-?[0-9][0-9][0-9][0-9]+` + lexTimezoneOpt)
	lexGYearMonth = xsdregex.MustTranslate(`-?[0-9][0-9][0-9][0-9]+-[0-9][0-9]` + lexTimezoneOpt)
	lexGMonthDay  = xsdregex.MustTranslate(`--[0-9][0-9]-[0-9][0-9]` + lexTimezoneOpt)
	lexGDay       = xsdregex.MustTranslate(`---[0-9][0-9]` + lexTimezoneOpt)
	lexGMonth     = xsdregex.MustTranslate(`--[0-9][0-9]` + lexTimezoneOpt)
	lexDuration   = xsdregex.MustTranslate(`-?P([0-9]+Y)?([0-9]+M)?([0-9]+D)?(T([0-9]+H)?([0-9]+M)?([0-9]+(\.[0-9]+)?S)?)?`)
)

const lexTimezoneOpt = `(Z|(\+|-)[0-9][0-9]:[0-9][0-9])?`

// checkLexical rejects norm unless it matches the checker.
func checkLexical(st *simpleType, norm string, lex *xsdregex.Translation) error {
	ok, err := lex.Matches(norm)
	if err != nil || !ok {
		return valueErrorf(st.name, norm, "malformed %s", st.name)
	}
	return nil
}

func runeLength(v Value) int {
	return utf8.RuneCountInString(v.(string))
}

func byteLength(v Value) int {
	return len(v.([]byte))
}

const (
	stringFacets  = lengthFacets | facetPattern | facetEnumeration
	numericFacets = facetPattern | facetEnumeration | boundFacets
)

// parseStringValue is the parse hook for all plain string-valued types.
func parseStringValue(_ *simpleType, norm string, _ *Context) (Value, error) {
	return norm, nil
}

// stringChecked builds a parse hook validating against a lexical checker.
func stringChecked(lex *xsdregex.Translation) func(*simpleType, string, *Context) (Value, error) {
	return func(st *simpleType, norm string, _ *Context) (Value, error) {
		if err := checkLexical(st, norm, lex); err != nil {
			return nil, err
		}
		return norm, nil
	}
}

func parseLanguage(st *simpleType, norm string, _ *Context) (Value, error) {
	if err := checkLexical(st, norm, lexLanguage); err != nil {
		return nil, err
	}
	if _, err := language.Parse(norm); err != nil {
		return nil, valueErrorf(st.name, norm, "not a well-formed language tag: %v", err)
	}
	return norm, nil
}

func parseQName(st *simpleType, norm string, ctx *Context) (Value, error) {
	ok, err := lexName.Matches(norm)
	if err != nil || !ok || strings.Count(norm, ":") > 1 {
		return nil, valueErrorf(st.name, norm, "malformed QName")
	}
	if ctx == nil || ctx.Resolver == nil {
		return nil, valueErrorf(st.name, norm, "QName requires a namespace context")
	}
	expanded, rerr := ctx.Resolver.ResolveName(norm, false)
	if rerr != nil {
		return nil, valueErrorf(st.name, norm, "%v", rerr)
	}
	return expanded, nil
}

func parseBoolean(st *simpleType, norm string, _ *Context) (Value, error) {
	switch norm {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return nil, valueErrorf(st.name, norm, "must be true, false, 1, or 0")
}

func parseDecimal(st *simpleType, norm string, _ *Context) (Value, error) {
	if err := checkLexical(st, norm, lexDecimal); err != nil {
		return nil, err
	}
	// "1." is valid XSD but not accepted by the decimal parser.
	d, err := decimal.NewFromString(strings.TrimSuffix(norm, "."))
	if err != nil {
		return nil, valueErrorf(st.name, norm, "%v", err)
	}
	return d, nil
}

// integerType builds an integer-valued simpleType with optional value-space
// bounds, covering integer itself and every bounded type derived from it.
func integerType(name string, lo, hi string) *simpleType {
	var min, max *decimal.Decimal
	if lo != "" {
		d := decimal.RequireFromString(lo)
		min = &d
	}
	if hi != "" {
		d := decimal.RequireFromString(hi)
		max = &d
	}
	return &simpleType{
		name:       name,
		whiteSpace: wsCollapse,
		facets:     numericFacets | digitFacets,
		parse: func(st *simpleType, norm string, _ *Context) (Value, error) {
			if err := checkLexical(st, norm, lexInteger); err != nil {
				return nil, err
			}
			d, err := decimal.NewFromString(norm)
			if err != nil {
				return nil, valueErrorf(st.name, norm, "%v", err)
			}
			if min != nil && d.Cmp(*min) < 0 {
				return nil, valueErrorf(st.name, norm, "below the minimum of %s", min)
			}
			if max != nil && d.Cmp(*max) > 0 {
				return nil, valueErrorf(st.name, norm, "above the maximum of %s", max)
			}
			return d, nil
		},
		equal:   decimalEqual,
		compare: decimalCompare,
	}
}

func decimalEqual(a, b Value) bool {
	return a.(decimal.Decimal).Equal(b.(decimal.Decimal))
}

func decimalCompare(a, b Value) int {
	return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
}

func parseFloat(st *simpleType, norm string, _ *Context) (Value, error) {
	if err := checkLexical(st, norm, lexFloat); err != nil {
		return nil, err
	}
	switch norm {
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil, valueErrorf(st.name, norm, "%v", err)
	}
	return f, nil
}

// floatEqual follows the XSD value space, where NaN equals itself.
func floatEqual(a, b Value) bool {
	fa, fb := a.(float64), b.(float64)
	if math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return fa == fb
}

func floatCompare(a, b Value) int {
	fa, fb := a.(float64), b.(float64)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

func parseAnyURI(st *simpleType, norm string, _ *Context) (Value, error) {
	if _, err := url.Parse(norm); err != nil {
		return nil, valueErrorf(st.name, norm, "%v", err)
	}
	return norm, nil
}

func parseBase64(st *simpleType, norm string, _ *Context) (Value, error) {
	// The lexical space allows whitespace between quartets.
	compact := strings.Map(func(r rune) rune {
		if r == ' ' {
			return -1
		}
		return r
	}, norm)
	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, valueErrorf(st.name, norm, "%v", err)
	}
	return data, nil
}

func parseHex(st *simpleType, norm string, _ *Context) (Value, error) {
	if err := checkLexical(st, norm, lexHexBinary); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(norm)
	if err != nil {
		return nil, valueErrorf(st.name, norm, "%v", err)
	}
	return data, nil
}

func bytesEqual(a, b Value) bool {
	return bytes.Equal(a.([]byte), b.([]byte))
}

// temporalType builds a time.Time-valued simpleType parsed against the
// given layouts, tried in order.
func temporalType(name string, layouts ...string) *simpleType {
	return &simpleType{
		name:       name,
		whiteSpace: wsCollapse,
		facets:     numericFacets,
		parse: func(st *simpleType, norm string, _ *Context) (Value, error) {
			for _, layout := range layouts {
				if t, err := time.Parse(layout, norm); err == nil {
					return t, nil
				}
			}
			return nil, valueErrorf(st.name, norm, "malformed %s", st.name)
		},
		equal: func(a, b Value) bool {
			return a.(time.Time).Equal(b.(time.Time))
		},
		compare: func(a, b Value) int {
			return a.(time.Time).Compare(b.(time.Time))
		},
	}
}

// lexicalType builds a simpleType whose value space we keep as the
// collapsed lexical form, checked against an XSD expression. Covers the
// Gregorian fragments and duration, which are compared only for equality.
func lexicalType(name string, lex *xsdregex.Translation) *simpleType {
	return &simpleType{
		name:       name,
		whiteSpace: wsCollapse,
		facets:     facetPattern | facetEnumeration,
		parse:      stringChecked(lex),
	}
}

func init() {
	types := []*simpleType{
		{
			name:       "string",
			whiteSpace: wsPreserve,
			facets:     stringFacets,
			parse:      parseStringValue,
			length:     runeLength,
		},
		{
			name:       "normalizedString",
			whiteSpace: wsReplace,
			facets:     stringFacets,
			parse:      parseStringValue,
			length:     runeLength,
		},
		{
			name:       "token",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      parseStringValue,
			length:     runeLength,
		},
		{
			name:       "language",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      parseLanguage,
			length:     runeLength,
		},
		{
			name:       "Name",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      stringChecked(lexName),
			length:     runeLength,
		},
		{
			name:       "NCName",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      stringChecked(lexNCName),
			length:     runeLength,
		},
		{
			name:       "NMTOKEN",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      stringChecked(lexNMTOKEN),
			length:     runeLength,
		},
		{
			name:         "QName",
			whiteSpace:   wsCollapse,
			facets:       facetPattern | facetEnumeration,
			needsContext: true,
			parse:        parseQName,
		},
		{
			name:       "boolean",
			whiteSpace: wsCollapse,
			facets:     facetPattern,
			parse:      parseBoolean,
		},
		{
			name:       "decimal",
			whiteSpace: wsCollapse,
			facets:     numericFacets | digitFacets,
			parse:      parseDecimal,
			equal:      decimalEqual,
			compare:    decimalCompare,
		},
		integerType("integer", "", ""),
		integerType("nonPositiveInteger", "", "0"),
		integerType("negativeInteger", "", "-1"),
		integerType("nonNegativeInteger", "0", ""),
		integerType("positiveInteger", "1", ""),
		integerType("long", "-9223372036854775808", "9223372036854775807"),
		integerType("int", "-2147483648", "2147483647"),
		integerType("short", "-32768", "32767"),
		integerType("byte", "-128", "127"),
		integerType("unsignedLong", "0", "18446744073709551615"),
		integerType("unsignedInt", "0", "4294967295"),
		integerType("unsignedShort", "0", "65535"),
		integerType("unsignedByte", "0", "255"),
		{
			name:       "float",
			whiteSpace: wsCollapse,
			facets:     numericFacets,
			parse:      parseFloat,
			equal:      floatEqual,
			compare:    floatCompare,
		},
		{
			name:       "double",
			whiteSpace: wsCollapse,
			facets:     numericFacets,
			parse:      parseFloat,
			equal:      floatEqual,
			compare:    floatCompare,
		},
		{
			name:       "anyURI",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      parseAnyURI,
			length:     runeLength,
		},
		{
			name:       "base64Binary",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      parseBase64,
			equal:      bytesEqual,
			length:     byteLength,
		},
		{
			name:       "hexBinary",
			whiteSpace: wsCollapse,
			facets:     stringFacets,
			parse:      parseHex,
			equal:      bytesEqual,
			length:     byteLength,
		},
		temporalType("date", "2006-01-02Z07:00", "2006-01-02"),
		temporalType("dateTime",
			"2006-01-02T15:04:05.999999999Z07:00",
			"2006-01-02T15:04:05.999999999",
			"2006-01-02T15:04:05Z07:00",
			"2006-01-02T15:04:05"),
		temporalType("time",
			"15:04:05.999999999Z07:00",
			"15:04:05.999999999",
			"15:04:05Z07:00",
			"15:04:05"),
		lexicalType("gYear", lexGYear),
		lexicalType("gYearMonth", lexGYearMonth),
		lexicalType("gMonthDay", lexGMonthDay),
		lexicalType("gDay", lexGDay),
		lexicalType("gMonth", lexGMonth),
		lexicalType("duration", lexDuration),
	}
	lib := newLibrary(XSDLibrary, types)
	libraries[lib.uri] = lib
}
