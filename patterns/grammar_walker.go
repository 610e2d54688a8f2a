package patterns

import "github.com/erraggy/rngtools/names"

// GrammarWalker is the top-level driver of a validation session. It owns
// the namespace resolver, routes events into the walker tree, and turns
// unconsumed events into reported errors so the session stays usable after
// a problem.
//
// A GrammarWalker is single-session state: create one per document and do
// not share it across goroutines. The Grammar behind it is immutable and
// may back any number of walkers.
type GrammarWalker struct {
	grammar *Grammar
	sess    *session
	root    walker

	// ignoreDepth counts open elements of a rejected subtree. While
	// non-zero, events are swallowed so one unknown element yields one
	// error instead of an error cascade.
	ignoreDepth int
}

// NewWalker creates a walker positioned before the document's root
// element, with a fresh namespace resolver.
func (g *Grammar) NewWalker() *GrammarWalker {
	sess := &session{resolver: names.NewResolver()}
	return &GrammarWalker{grammar: g, sess: sess, root: g.Start.newWalker(sess)}
}

// NameResolver exposes the session's namespace resolver. Callers driving
// the walker with expanded-name events keep it current themselves:
// EnterContext and the xmlns declarations before the element's attribute
// events, LeaveContext after its end tag. Context-dependent datatypes
// (QName) read the bindings from here.
func (w *GrammarWalker) NameResolver() *names.Resolver {
	return w.sess.resolver
}

// FireEvent feeds one expanded-name event and returns the errors it
// produced, or nil when it was accepted cleanly. Events the pattern
// cannot consume are converted into errors here rather than rejected, so
// validation continues past them.
func (w *GrammarWalker) FireEvent(ev Event) []ValidationError {
	if w.ignoreDepth > 0 {
		switch ev.Kind {
		case EnterStartTag:
			w.ignoreDepth++
		case EndTag:
			w.ignoreDepth--
		}
		return nil
	}
	res := w.root.fireEvent(ev)
	if res.Matched {
		if ev.Kind == EnterStartTag && hasElementNameError(res.Errors) {
			w.ignoreDepth = 1
		}
		return res.Errors
	}
	switch ev.Kind {
	case EnterStartTag:
		w.ignoreDepth = 1
		return []ValidationError{&ElementNameError{Actual: ev.name()}}
	case AttributeName:
		return []ValidationError{&AttributeNameError{Actual: ev.name()}}
	case Text:
		if isWhitespace(ev.Value) {
			return nil
		}
		return []ValidationError{&TextError{Value: ev.Value}}
	case EndTag:
		return []ValidationError{generalErrorf("unexpected end tag %s", ev.name())}
	default:
		// A LeaveStartTag or AttributeValue with nowhere to go follows an
		// already-reported error; swallowing it avoids cascades.
		return nil
	}
}

// ResolveAndFire resolves a qualified name against the current bindings
// and fires the event. This is the one place raw qname-bearing events are
// translated into expanded-name events, for callers whose XML layer does
// not resolve prefixes itself. An unresolvable name is reported as a name
// error appropriate to the event kind.
func (w *GrammarWalker) ResolveAndFire(kind EventKind, qname, value string) []ValidationError {
	switch kind {
	case EnterStartTag, EndTag, AttributeName:
		expanded, err := w.sess.resolver.ResolveName(qname, kind == AttributeName)
		if err != nil {
			if kind == AttributeName {
				return []ValidationError{&AttributeNameError{Actual: names.ExpandedName{Local: qname}}}
			}
			return []ValidationError{&ElementNameError{Actual: names.ExpandedName{Local: qname}}}
		}
		return w.FireEvent(Event{Kind: kind, NS: expanded.NS, Local: expanded.Local})
	default:
		return w.FireEvent(Event{Kind: kind, Value: value})
	}
}

// End signals the end of the document. A nil return means the walker was
// in a state where the document could legally end.
func (w *GrammarWalker) End() []ValidationError {
	return w.root.end()
}

// CanEnd reports whether End would succeed right now.
func (w *GrammarWalker) CanEnd() bool {
	return w.root.canEnd()
}

// Possible returns the set of events that would currently be accepted.
func (w *GrammarWalker) Possible() *EventSet {
	set := NewEventSet()
	w.root.possible(set)
	w.root.possibleAttributes(set)
	return set
}

// Clone returns an independent copy of the walker: same position, same
// pending state, separate mutation. Shared sub-walkers inside the tree
// remain shared in the clone.
func (w *GrammarWalker) Clone() *GrammarWalker {
	sess := &session{resolver: w.sess.resolver.Clone()}
	cm := newCloneMap(sess)
	return &GrammarWalker{
		grammar:     w.grammar,
		sess:        sess,
		root:        cm.cloneWalker(w.root),
		ignoreDepth: w.ignoreDepth,
	}
}

// hasElementNameError reports whether errs contains an element name error.
func hasElementNameError(errs []ValidationError) bool {
	for _, err := range errs {
		if err.Kind() == ErrElementName {
			return true
		}
	}
	return false
}
