package datatypes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/rngtools/rngerrors"
	"github.com/erraggy/rngtools/xsdregex"
)

// whiteSpaceMode is the whitespace handling a type applies to lexical
// values before anything else looks at them.
type whiteSpaceMode int

const (
	wsPreserve whiteSpaceMode = iota
	wsReplace
	wsCollapse
)

// applyWhiteSpace normalizes raw according to the mode.
func applyWhiteSpace(raw string, mode whiteSpaceMode) string {
	switch mode {
	case wsPreserve:
		return raw
	case wsReplace:
		return strings.Map(func(r rune) rune {
			if r == '\t' || r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, raw)
	default:
		return strings.Join(strings.Fields(raw), " ")
	}
}

// facet is a bit in the set of facets a type accepts as parameters.
type facet uint16

const (
	facetLength facet = 1 << iota
	facetMinLength
	facetMaxLength
	facetPattern
	facetEnumeration
	facetMinInclusive
	facetMaxInclusive
	facetMinExclusive
	facetMaxExclusive
	facetTotalDigits
	facetFractionDigits
)

const (
	lengthFacets = facetLength | facetMinLength | facetMaxLength
	boundFacets  = facetMinInclusive | facetMaxInclusive | facetMinExclusive | facetMaxExclusive
	digitFacets  = facetTotalDigits | facetFractionDigits
)

// facetBits maps parameter names to their facet bit.
var facetBits = map[string]facet{
	"length":         facetLength,
	"minLength":      facetMinLength,
	"maxLength":      facetMaxLength,
	"pattern":        facetPattern,
	"enumeration":    facetEnumeration,
	"minInclusive":   facetMinInclusive,
	"maxInclusive":   facetMaxInclusive,
	"minExclusive":   facetMinExclusive,
	"maxExclusive":   facetMaxExclusive,
	"totalDigits":    facetTotalDigits,
	"fractionDigits": facetFractionDigits,
}

// Params holds the compiled parameters of one data pattern. Zero fields
// mean the facet is absent.
type Params struct {
	// Length, MinLength, MaxLength constrain value-space length
	Length    *int
	MinLength *int
	MaxLength *int
	// Patterns are matched against the whitespace-normalized lexical
	// value; a repeated pattern parameter means all must match
	Patterns []*xsdregex.Translation
	// Enumeration lists allowed values; a repeated parameter means any
	// may match
	Enumeration []Value
	// Bounds constrain ordered types; values are in the type's value space
	MinInclusive Value
	MaxInclusive Value
	MinExclusive Value
	MaxExclusive Value
	// TotalDigits and FractionDigits constrain decimal types
	TotalDigits    *int
	FractionDigits *int
}

// paramError builds the fatal schema-side error for a bad parameter.
func paramError(st *simpleType, location, param, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if location != "" {
		msg = location + ": " + msg
	}
	return &rngerrors.DatatypeError{
		Library: st.library,
		Type:    st.name,
		Param:   param,
		Message: msg,
	}
}

// parseParams compiles raw parameters against the type's allowed facets.
func (st *simpleType) parseParams(location string, raw []RawParam) (*Params, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	p := &Params{}
	for _, rp := range raw {
		bit, known := facetBits[rp.Name]
		if !known {
			return nil, paramError(st, location, rp.Name, "unknown parameter")
		}
		if st.facets&bit == 0 {
			return nil, paramError(st, location, rp.Name, "parameter not applicable to %s", st.name)
		}
		if err := st.parseParam(p, location, rp); err != nil {
			return nil, err
		}
	}
	return p, validateParamCombos(st, location, p)
}

func (st *simpleType) parseParam(p *Params, location string, rp RawParam) error {
	switch rp.Name {
	case "length", "minLength", "maxLength", "totalDigits", "fractionDigits":
		n, err := strconv.Atoi(strings.TrimSpace(rp.Value))
		if err != nil || n < 0 {
			return paramError(st, location, rp.Name, "must be a non-negative integer, got %q", rp.Value)
		}
		if rp.Name == "totalDigits" && n == 0 {
			return paramError(st, location, rp.Name, "must be positive")
		}
		switch rp.Name {
		case "length":
			p.Length = &n
		case "minLength":
			p.MinLength = &n
		case "maxLength":
			p.MaxLength = &n
		case "totalDigits":
			p.TotalDigits = &n
		case "fractionDigits":
			p.FractionDigits = &n
		}
	case "pattern":
		tr, err := xsdregex.Translate(rp.Value)
		if err != nil {
			return paramError(st, location, rp.Name, "invalid expression %q: %v", rp.Value, err)
		}
		p.Patterns = append(p.Patterns, tr)
	case "enumeration":
		v, err := st.ParseValue(rp.Value, nil)
		if err != nil {
			return paramError(st, location, rp.Name, "invalid value %q: %v", rp.Value, err)
		}
		p.Enumeration = append(p.Enumeration, v)
	case "minInclusive", "maxInclusive", "minExclusive", "maxExclusive":
		v, err := st.ParseValue(rp.Value, nil)
		if err != nil {
			return paramError(st, location, rp.Name, "invalid value %q: %v", rp.Value, err)
		}
		switch rp.Name {
		case "minInclusive":
			p.MinInclusive = v
		case "maxInclusive":
			p.MaxInclusive = v
		case "minExclusive":
			p.MinExclusive = v
		case "maxExclusive":
			p.MaxExclusive = v
		}
	}
	return nil
}

// validateParamCombos rejects facet combinations the XSD recommendation
// forbids.
func validateParamCombos(st *simpleType, location string, p *Params) error {
	if p.Length != nil && (p.MinLength != nil || p.MaxLength != nil) {
		return paramError(st, location, "length", "length cannot be combined with minLength or maxLength")
	}
	if p.MinLength != nil && p.MaxLength != nil && *p.MinLength > *p.MaxLength {
		return paramError(st, location, "minLength", "minLength (%d) is greater than maxLength (%d)", *p.MinLength, *p.MaxLength)
	}
	if p.MinInclusive != nil && p.MinExclusive != nil {
		return paramError(st, location, "minInclusive", "minInclusive cannot be combined with minExclusive")
	}
	if p.MaxInclusive != nil && p.MaxExclusive != nil {
		return paramError(st, location, "maxInclusive", "maxInclusive cannot be combined with maxExclusive")
	}
	if p.MinInclusive != nil && p.MaxInclusive != nil && st.compare != nil &&
		st.compare(p.MinInclusive, p.MaxInclusive) > 0 {
		return paramError(st, location, "minInclusive", "minInclusive is greater than maxInclusive")
	}
	if p.TotalDigits != nil && p.FractionDigits != nil && *p.FractionDigits > *p.TotalDigits {
		return paramError(st, location, "fractionDigits", "fractionDigits (%d) is greater than totalDigits (%d)", *p.FractionDigits, *p.TotalDigits)
	}
	return nil
}
