package names

import (
	"fmt"
	"strings"
)

// Well-known namespace URIs bound implicitly in every document.
const (
	// XMLNamespace is the namespace the "xml" prefix is always bound to.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XMLNSNamespace is the namespace the "xmlns" prefix is always bound to.
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Resolver maintains the stack of namespace prefix bindings in scope while
// walking an XML document, and resolves qualified names against it.
//
// A Resolver is mutated as the walk proceeds (EnterContext at each start
// tag, DefinePrefix for each xmlns declaration, LeaveContext at each end
// tag) and is not safe for concurrent use.
type Resolver struct {
	// frames[0] is the implicit root context; each EnterContext appends one
	frames []map[string]string
}

// NewResolver creates a Resolver with the implicit bindings of the XML
// specification: "xml", "xmlns", and the absent default namespace.
func NewResolver() *Resolver {
	root := map[string]string{
		"":      "",
		"xml":   XMLNamespace,
		"xmlns": XMLNSNamespace,
	}
	return &Resolver{frames: []map[string]string{root}}
}

// EnterContext starts a new declaration scope. Called when a start tag is
// seen, before any of its namespace declarations are processed.
func (r *Resolver) EnterContext() {
	r.frames = append(r.frames, nil)
}

// LeaveContext discards the innermost declaration scope. Returns an error
// when called more times than EnterContext: the implicit root context
// cannot be left.
func (r *Resolver) LeaveContext() error {
	if len(r.frames) <= 1 {
		return fmt.Errorf("names: cannot leave the root context")
	}
	r.frames = r.frames[:len(r.frames)-1]
	return nil
}

// DefinePrefix binds prefix to uri in the innermost scope. The empty
// prefix sets the default namespace; binding it to "" undeclares it.
func (r *Resolver) DefinePrefix(prefix, uri string) {
	top := len(r.frames) - 1
	if r.frames[top] == nil {
		r.frames[top] = make(map[string]string, 1)
	}
	r.frames[top][prefix] = uri
}

// ResolveName resolves a qualified name against the bindings in scope.
// Attribute resolution differs from element resolution: an unprefixed
// attribute is in no namespace, whereas an unprefixed element takes the
// default namespace. An unknown prefix or a name with more than one colon
// yields an error; the caller reports it as a name issue and continues.
func (r *Resolver) ResolveName(qname string, attribute bool) (ExpandedName, error) {
	prefix, local, err := splitQName(qname)
	if err != nil {
		return ExpandedName{}, err
	}
	if prefix == "" {
		if attribute {
			return ExpandedName{Local: local}, nil
		}
		uri, _ := r.lookup("")
		return ExpandedName{NS: uri, Local: local}, nil
	}
	uri, ok := r.lookup(prefix)
	if !ok {
		return ExpandedName{}, fmt.Errorf("names: unknown prefix %q in %q", prefix, qname)
	}
	return ExpandedName{NS: uri, Local: local}, nil
}

// PrefixFromURI returns a prefix bound to uri, preferring the innermost
// binding, and whether one was found. Used to render diagnostics with the
// document's own prefixes.
func (r *Resolver) PrefixFromURI(uri string) (string, bool) {
	for i := len(r.frames) - 1; i >= 0; i-- {
		for prefix, bound := range r.frames[i] {
			if bound == uri && !r.shadowed(prefix, i) {
				return prefix, true
			}
		}
	}
	return "", false
}

// Clone returns an independent copy of the resolver. Callers that mirror
// the document walk (an editor keeping its own view of the bindings) can
// snapshot the state without affecting the validation session.
func (r *Resolver) Clone() *Resolver {
	frames := make([]map[string]string, len(r.frames))
	for i, frame := range r.frames {
		if frame == nil {
			continue
		}
		cp := make(map[string]string, len(frame))
		for k, v := range frame {
			cp[k] = v
		}
		frames[i] = cp
	}
	return &Resolver{frames: frames}
}

// Depth returns how many contexts are open, the implicit root included.
func (r *Resolver) Depth() int {
	return len(r.frames)
}

// lookup finds the innermost binding for prefix.
func (r *Resolver) lookup(prefix string) (string, bool) {
	for i := len(r.frames) - 1; i >= 0; i-- {
		if uri, ok := r.frames[i][prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// shadowed reports whether prefix is rebound in a frame inner to index.
func (r *Resolver) shadowed(prefix string, index int) bool {
	for i := len(r.frames) - 1; i > index; i-- {
		if _, ok := r.frames[i][prefix]; ok {
			return true
		}
	}
	return false
}

// splitQName splits a qualified name into prefix and local part.
func splitQName(qname string) (prefix, local string, err error) {
	switch strings.Count(qname, ":") {
	case 0:
		return "", qname, nil
	case 1:
		i := strings.IndexByte(qname, ':')
		prefix, local = qname[:i], qname[i+1:]
		if prefix == "" || local == "" {
			return "", "", fmt.Errorf("names: malformed qualified name %q", qname)
		}
		return prefix, local, nil
	default:
		return "", "", fmt.Errorf("names: malformed qualified name %q", qname)
	}
}
