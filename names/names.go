// Package names provides XML namespace handling for grammar-driven
// validation: expanded names, the Relax NG name classes that element and
// attribute patterns match against, and a prefix resolver tracking the
// namespace declarations in scope during a walk of the document.
package names

import (
	"fmt"
	"strings"
)

// ExpandedName is a qualified name after prefix resolution: the pair of
// namespace URI and local name that Relax NG name classes match against.
type ExpandedName struct {
	// NS is the namespace URI; empty for no namespace
	NS string
	// Local is the local part of the name
	Local string
}

// String returns the name in Clark notation: "{uri}local", or just the
// local name when there is no namespace.
func (n ExpandedName) String() string {
	if n.NS == "" {
		return n.Local
	}
	return fmt.Sprintf("{%s}%s", n.NS, n.Local)
}

// NameClass describes a set of acceptable expanded names.
//
// Implementations are immutable value objects built once when a grammar is
// loaded and shared by every walker over that grammar.
type NameClass interface {
	// Match reports whether the expanded name (ns, local) is in the class.
	Match(ns, local string) bool

	// ToArray enumerates the concrete names in the class. A nil return
	// signifies an open set (a wildcard is involved) that cannot be
	// enumerated.
	ToArray() []Name

	// String renders the class for diagnostics.
	String() string
}

// Name matches exactly one expanded name.
type Name struct {
	NS    string
	Local string
}

// Match reports whether (ns, local) equals this name.
func (n Name) Match(ns, local string) bool {
	return n.NS == ns && n.Local == local
}

// ToArray returns the single name.
func (n Name) ToArray() []Name {
	return []Name{n}
}

// AsExpandedName converts to an ExpandedName.
func (n Name) AsExpandedName() ExpandedName {
	return ExpandedName{NS: n.NS, Local: n.Local}
}

func (n Name) String() string {
	return n.AsExpandedName().String()
}

// NsName matches any local name in a namespace, minus an optional except.
type NsName struct {
	NS     string
	Except NameClass
}

// Match reports whether (ns, local) is in the namespace and not excepted.
func (n NsName) Match(ns, local string) bool {
	if n.NS != ns {
		return false
	}
	if n.Except != nil && n.Except.Match(ns, local) {
		return false
	}
	return true
}

// ToArray returns nil: the class is an open set.
func (n NsName) ToArray() []Name {
	return nil
}

func (n NsName) String() string {
	s := fmt.Sprintf("{%s}*", n.NS)
	if n.Except != nil {
		s += " - " + n.Except.String()
	}
	return s
}

// AnyName matches every name, minus an optional except.
type AnyName struct {
	Except NameClass
}

// Match reports whether (ns, local) is not excepted.
func (n AnyName) Match(ns, local string) bool {
	if n.Except != nil && n.Except.Match(ns, local) {
		return false
	}
	return true
}

// ToArray returns nil: the class is an open set.
func (n AnyName) ToArray() []Name {
	return nil
}

func (n AnyName) String() string {
	if n.Except != nil {
		return "* - " + n.Except.String()
	}
	return "*"
}

// NameChoice matches the union of two classes.
type NameChoice struct {
	A NameClass
	B NameClass
}

// Match reports whether either branch matches.
func (n NameChoice) Match(ns, local string) bool {
	return n.A.Match(ns, local) || n.B.Match(ns, local)
}

// ToArray returns the concatenation of both branches, or nil if either
// branch is an open set.
func (n NameChoice) ToArray() []Name {
	a := n.A.ToArray()
	if a == nil {
		return nil
	}
	b := n.B.ToArray()
	if b == nil {
		return nil
	}
	out := make([]Name, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func (n NameChoice) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.A.String())
	sb.WriteString(" | ")
	sb.WriteString(n.B.String())
	sb.WriteString(")")
	return sb.String()
}
