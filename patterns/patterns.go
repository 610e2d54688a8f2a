package patterns

import (
	"fmt"

	"github.com/erraggy/rngtools/datatypes"
	"github.com/erraggy/rngtools/names"
	"github.com/erraggy/rngtools/rngerrors"
)

// Pattern is one node of a compiled grammar. Patterns are immutable once
// their Grammar has been built and may be shared freely across walkers and
// goroutines.
//
// Nullable is the standard Relax NG nullability predicate: whether the
// pattern matches the empty event sequence. HasAttrs reports whether the
// pattern may consume attribute events. Both are fixed at construction.
type Pattern interface {
	Nullable() bool
	HasAttrs() bool

	// newWalker creates a cursor positioned at the start of the pattern.
	newWalker(sess *session) walker
}

// Empty matches the empty sequence and nothing else.
type Empty struct{}

// NewEmpty creates an Empty pattern.
func NewEmpty() *Empty { return &Empty{} }

func (*Empty) Nullable() bool { return true }
func (*Empty) HasAttrs() bool { return false }

// NotAllowed matches nothing.
type NotAllowed struct{}

// NewNotAllowed creates a NotAllowed pattern.
func NewNotAllowed() *NotAllowed { return &NotAllowed{} }

func (*NotAllowed) Nullable() bool { return false }
func (*NotAllowed) HasAttrs() bool { return false }

// TextPattern matches any number of text events.
type TextPattern struct{}

// NewText creates a text pattern.
func NewText() *TextPattern { return &TextPattern{} }

func (*TextPattern) Nullable() bool { return true }
func (*TextPattern) HasAttrs() bool { return false }

// Ref delegates to a named define of the enclosing grammar. The target
// back reference is non-owning; NewGrammar resolves it by name.
//
// In Relax NG simple form every define wraps an element pattern, so an
// unresolved or resolved Ref is never nullable and never matches
// attributes.
type Ref struct {
	// RefName is the define this ref names
	RefName string

	target *Define
}

// NewRef creates an unresolved ref. NewGrammar links it to its define.
func NewRef(name string) *Ref { return &Ref{RefName: name} }

func (*Ref) Nullable() bool { return false }
func (*Ref) HasAttrs() bool { return false }

// Define is one named pattern of a grammar. It owns its child; refs hold
// non-owning pointers back to it.
type Define struct {
	// DefineName is the name refs use to find this define
	DefineName string
	// Child is the defined pattern
	Child Pattern
}

// NewDefine creates a define.
func NewDefine(name string, child Pattern) *Define {
	return &Define{DefineName: name, Child: child}
}

// ValuePattern matches a single text event equal to a fixed value in some
// datatype's value space.
type ValuePattern struct {
	// Datatype performs parsing and comparison
	Datatype datatypes.Datatype
	// Raw is the schema-side lexical value
	Raw string
	// NS is the default namespace the schema declared for this value,
	// used when the datatype resolves QNames
	NS string

	parsed   datatypes.Value
	nullable bool
}

// NewValue creates a value pattern, parsing the schema-side value once.
// Location names the schema site for error messages; the returned error is
// fatal to loading.
func NewValue(dt datatypes.Datatype, raw, ns, location string) (*ValuePattern, error) {
	v := &ValuePattern{Datatype: dt, Raw: raw, NS: ns}
	ctx := v.schemaContext()
	parsed, err := dt.ParseValue(raw, ctx)
	if err != nil {
		return nil, &rngerrors.DatatypeError{
			Library: dt.Library(),
			Type:    dt.Name(),
			Message: fmt.Sprintf("%s: invalid value %q: %v", location, raw, err),
		}
	}
	v.parsed = parsed
	if empty, eerr := dt.ParseValue("", ctx); eerr == nil {
		v.nullable = dt.Equal(parsed, empty)
	}
	return v, nil
}

// schemaContext builds the namespace context the schema value is parsed
// in: the value's ns attribute as the default namespace.
func (v *ValuePattern) schemaContext() *datatypes.Context {
	if !v.Datatype.NeedsContext() {
		return nil
	}
	resolver := names.NewResolver()
	resolver.EnterContext()
	resolver.DefinePrefix("", v.NS)
	return &datatypes.Context{Resolver: resolver}
}

func (v *ValuePattern) Nullable() bool { return v.nullable }
func (*ValuePattern) HasAttrs() bool { return false }

// DataPattern matches a single text event allowed by a datatype with
// parameters, minus an optional except pattern.
type DataPattern struct {
	// Datatype performs the checking
	Datatype datatypes.Datatype
	// Params are the compiled parameters; nil when none were given
	Params *datatypes.Params
	// Except, when set, carves values out of the type; a value matching
	// it is rejected
	Except Pattern

	nullable bool
}

// NewData creates a data pattern, compiling the raw parameters once.
// Location names the schema site; a parameter error is fatal to loading.
func NewData(dt datatypes.Datatype, rawParams []datatypes.RawParam, except Pattern, location string) (*DataPattern, error) {
	params, err := dt.ParseParams(location, rawParams)
	if err != nil {
		return nil, err
	}
	d := &DataPattern{Datatype: dt, Params: params, Except: except}
	d.nullable = dt.Disallows("", params, nil) == nil && !d.exceptMatchesEmpty()
	return d, nil
}

// exceptMatchesEmpty probes whether the except pattern accepts the empty
// string, which would make the data pattern reject it.
func (d *DataPattern) exceptMatchesEmpty() bool {
	if d.Except == nil {
		return false
	}
	return d.Except.Nullable()
}

func (d *DataPattern) Nullable() bool { return d.nullable }
func (*DataPattern) HasAttrs() bool { return false }

// List matches a single text event whose whitespace-separated tokens match
// the child pattern as a sequence of text events.
type List struct {
	Child Pattern
}

// NewList creates a list pattern.
func NewList(child Pattern) *List { return &List{Child: child} }

func (l *List) Nullable() bool { return l.Child.Nullable() }
func (*List) HasAttrs() bool { return false }

// Group matches a then b, in order. Attribute events are exempt from the
// ordering: they may match either side at any point of the attribute phase.
type Group struct {
	A, B Pattern

	nullable bool
	hasAttrs bool
}

// NewGroup creates a group.
func NewGroup(a, b Pattern) *Group {
	return &Group{
		A:        a,
		B:        b,
		nullable: a.Nullable() && b.Nullable(),
		hasAttrs: a.HasAttrs() || b.HasAttrs(),
	}
}

func (g *Group) Nullable() bool { return g.nullable }
func (g *Group) HasAttrs() bool { return g.hasAttrs }

// Interleave matches any shuffle of a and b, subject to the tag-balance
// rule: a branch that has consumed an unbalanced start tag keeps control
// until it balances.
type Interleave struct {
	A, B Pattern

	nullable bool
	hasAttrs bool
}

// NewInterleave creates an interleave.
func NewInterleave(a, b Pattern) *Interleave {
	return &Interleave{
		A:        a,
		B:        b,
		nullable: a.Nullable() && b.Nullable(),
		hasAttrs: a.HasAttrs() || b.HasAttrs(),
	}
}

func (i *Interleave) Nullable() bool { return i.nullable }
func (i *Interleave) HasAttrs() bool { return i.hasAttrs }

// Choice matches either a or b.
type Choice struct {
	A, B Pattern

	nullable bool
	hasAttrs bool
}

// NewChoice creates a choice.
func NewChoice(a, b Pattern) *Choice {
	return &Choice{
		A:        a,
		B:        b,
		nullable: a.Nullable() || b.Nullable(),
		hasAttrs: a.HasAttrs() || b.HasAttrs(),
	}
}

func (c *Choice) Nullable() bool { return c.nullable }
func (c *Choice) HasAttrs() bool { return c.hasAttrs }

// OneOrMore matches one or more consecutive matches of its child.
type OneOrMore struct {
	Child Pattern
}

// NewOneOrMore creates a oneOrMore pattern.
func NewOneOrMore(child Pattern) *OneOrMore { return &OneOrMore{Child: child} }

func (o *OneOrMore) Nullable() bool { return o.Child.Nullable() }
func (o *OneOrMore) HasAttrs() bool { return o.Child.HasAttrs() }

// Element matches one element whose name is in the class and whose
// attributes and content match the child.
type Element struct {
	// NameClass constrains the element's name
	NameClass names.NameClass
	// Child matches attributes and content
	Child Pattern
}

// NewElement creates an element pattern.
func NewElement(nc names.NameClass, child Pattern) *Element {
	return &Element{NameClass: nc, Child: child}
}

func (*Element) Nullable() bool { return false }
func (*Element) HasAttrs() bool { return false }

// AttributePattern matches one attribute whose name is in the class and
// whose value matches the child.
type AttributePattern struct {
	// NameClass constrains the attribute's name
	NameClass names.NameClass
	// Child matches the value, fed as a single text event
	Child Pattern
}

// NewAttribute creates an attribute pattern.
func NewAttribute(nc names.NameClass, child Pattern) *AttributePattern {
	return &AttributePattern{NameClass: nc, Child: child}
}

func (*AttributePattern) Nullable() bool { return false }
func (*AttributePattern) HasAttrs() bool { return true }

// Grammar is the root of a compiled schema: a start pattern plus the
// defines refs resolve against.
type Grammar struct {
	// Start is the pattern the document must match
	Start Pattern
	// Defines is the table refs are resolved against
	Defines map[string]*Define
}

// NewGrammar builds a grammar and resolves every ref in it against the
// defines table. A ref naming an absent define yields a
// *rngerrors.RefError; the grammar is unusable in that case.
func NewGrammar(start Pattern, defines map[string]*Define) (*Grammar, error) {
	g := &Grammar{Start: start, Defines: defines}
	seen := make(map[Pattern]bool)
	if err := g.resolveRefs(start, seen); err != nil {
		return nil, err
	}
	for _, def := range defines {
		if err := g.resolveRefs(def.Child, seen); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// resolveRefs walks the owned tree binding each Ref to its Define.
func (g *Grammar) resolveRefs(p Pattern, seen map[Pattern]bool) error {
	if p == nil || seen[p] {
		return nil
	}
	seen[p] = true
	switch pat := p.(type) {
	case *Ref:
		def, ok := g.Defines[pat.RefName]
		if !ok {
			return &rngerrors.RefError{Name: pat.RefName}
		}
		pat.target = def
		return nil
	case *Element:
		return g.resolveRefs(pat.Child, seen)
	case *AttributePattern:
		return g.resolveRefs(pat.Child, seen)
	case *Group:
		if err := g.resolveRefs(pat.A, seen); err != nil {
			return err
		}
		return g.resolveRefs(pat.B, seen)
	case *Interleave:
		if err := g.resolveRefs(pat.A, seen); err != nil {
			return err
		}
		return g.resolveRefs(pat.B, seen)
	case *Choice:
		if err := g.resolveRefs(pat.A, seen); err != nil {
			return err
		}
		return g.resolveRefs(pat.B, seen)
	case *OneOrMore:
		return g.resolveRefs(pat.Child, seen)
	case *List:
		return g.resolveRefs(pat.Child, seen)
	case *DataPattern:
		return g.resolveRefs(pat.Except, seen)
	default:
		return nil
	}
}
