package patterns

import "github.com/erraggy/rngtools/names"

// elementState tracks where an element walker is in its lifecycle.
type elementState int

const (
	esExpectStart elementState = iota
	esInAttributes
	esInContent
	esEnded
)

// elementWalker matches one element: a start tag in the name class, an
// attribute phase, a content phase, and an end tag.
//
// The child walker is created only when the start tag arrives, so walker
// trees for recursive grammars grow with the document's nesting depth, not
// with the grammar's.
type elementWalker struct {
	p      *Element
	sess   *session
	state  elementState
	actual names.ExpandedName
	child  walker
}

func (e *Element) newWalker(sess *session) walker {
	return &elementWalker{p: e, sess: sess}
}

func (w *elementWalker) fireEvent(ev Event) FireEventResult {
	switch w.state {
	case esExpectStart:
		if ev.Kind != EnterStartTag || !w.p.NameClass.Match(ev.NS, ev.Local) {
			return notMatched
		}
		w.state = esInAttributes
		w.actual = ev.name()
		w.child = w.p.Child.newWalker(w.sess)
		return matched()

	case esInAttributes:
		return w.fireAttributeEvent(ev)

	case esInContent:
		return w.fireContentEvent(ev)

	default:
		return notMatched
	}
}

// fireAttributeEvent handles the attribute phase. Once the start tag has
// been matched the element is committed, so failures here are reported as
// errors rather than bubbled as non-matches.
func (w *elementWalker) fireAttributeEvent(ev Event) FireEventResult {
	switch ev.Kind {
	case AttributeName:
		if res := w.child.fireEvent(ev); res.Matched {
			return res
		}
		return matched(&AttributeNameError{Actual: ev.name()})

	case AttributeValue:
		if res := w.child.fireEvent(ev); res.Matched {
			return res
		}
		// The matching attribute name was already rejected and reported;
		// its value has nowhere to go and is dropped silently.
		return matched()

	case LeaveStartTag:
		errs := w.child.endAttributes()
		w.state = esInContent
		return matched(errs...)

	default:
		return notMatched
	}
}

// fireContentEvent handles the content phase.
func (w *elementWalker) fireContentEvent(ev Event) FireEventResult {
	if res := w.child.fireEvent(ev); res.Matched {
		return res
	}
	if ev.Kind == EndTag {
		errs := w.child.end()
		w.state = esEnded
		return matched(errs...)
	}
	switch ev.Kind {
	case Text:
		if isWhitespace(ev.Value) {
			return matched()
		}
		return matched(&TextError{Value: ev.Value})
	case EnterStartTag:
		return matched(&ElementNameError{Actual: ev.name()})
	default:
		return notMatched
	}
}

func (w *elementWalker) end() []ValidationError {
	switch w.state {
	case esEnded:
		return nil
	case esExpectStart:
		return []ValidationError{generalErrorf("expected element %s", w.p.NameClass)}
	default:
		return []ValidationError{generalErrorf("element %s left open", w.actual)}
	}
}

func (w *elementWalker) endAttributes() []ValidationError { return nil }

func (w *elementWalker) possible(set *EventSet) {
	switch w.state {
	case esExpectStart:
		set.Add(Event{Kind: EnterStartTag, Name: w.p.NameClass})
	case esInAttributes:
		w.child.possibleAttributes(set)
		if w.child.canEndAttribute() {
			set.Add(Event{Kind: LeaveStartTag})
		}
	case esInContent:
		w.child.possible(set)
		if w.child.canEnd() {
			set.Add(Event{Kind: EndTag, NS: w.actual.NS, Local: w.actual.Local})
		}
	}
}

func (w *elementWalker) possibleAttributes(_ *EventSet) {}

func (w *elementWalker) canEnd() bool {
	return w.state == esEnded
}

func (w *elementWalker) canEndAttribute() bool { return true }

func (w *elementWalker) clone(cm *cloneMap) walker {
	c := &elementWalker{p: w.p, sess: cm.sess, state: w.state, actual: w.actual}
	cm.register(w, c)
	c.child = cm.cloneWalker(w.child)
	return c
}

// attributeState tracks where an attribute walker is in its two-step
// match: the name, then the value.
type attributeState int

const (
	awExpectName attributeState = iota
	awExpectValue
	awDone
)

// attributeWalker matches one attributeName event in the name class and
// the attributeValue event that follows it.
type attributeWalker struct {
	p      *AttributePattern
	sess   *session
	state  attributeState
	actual names.ExpandedName
}

func (a *AttributePattern) newWalker(sess *session) walker {
	return &attributeWalker{p: a, sess: sess}
}

func (w *attributeWalker) fireEvent(ev Event) FireEventResult {
	switch {
	case ev.Kind == AttributeName && w.state == awExpectName:
		if !w.p.NameClass.Match(ev.NS, ev.Local) {
			return notMatched
		}
		w.state = awExpectValue
		w.actual = ev.name()
		return matched()

	case ev.Kind == AttributeValue && w.state == awExpectValue:
		w.state = awDone
		if w.valueAllowed(ev.Value) {
			return matched()
		}
		return matched(&AttributeValueError{Attr: w.actual, Value: ev.Value})

	default:
		return notMatched
	}
}

// valueAllowed feeds the value into a fresh child walker as its sole text
// event and checks that the child accepts and completes.
func (w *attributeWalker) valueAllowed(value string) bool {
	child := w.p.Child.newWalker(w.sess)
	res := child.fireEvent(TextEvent(value))
	if !res.Matched || len(res.Errors) > 0 {
		// An empty value is the empty event sequence: a nullable child
		// accepts it without consuming anything.
		return value == "" && w.p.Child.Nullable()
	}
	return child.end() == nil
}

func (w *attributeWalker) end() []ValidationError { return nil }

func (w *attributeWalker) endAttributes() []ValidationError {
	if w.state == awDone {
		return nil
	}
	return []ValidationError{&AttributeNameError{Class: w.p.NameClass, Missing: true}}
}

func (w *attributeWalker) possible(_ *EventSet) {}

func (w *attributeWalker) possibleAttributes(set *EventSet) {
	switch w.state {
	case awExpectName:
		set.Add(Event{Kind: AttributeName, Name: w.p.NameClass})
	case awExpectValue:
		set.Add(Event{Kind: AttributeValue})
	}
}

func (w *attributeWalker) canEnd() bool { return true }

func (w *attributeWalker) canEndAttribute() bool {
	return w.state == awDone
}

func (w *attributeWalker) clone(cm *cloneMap) walker {
	c := &attributeWalker{p: w.p, sess: cm.sess, state: w.state, actual: w.actual}
	cm.register(w, c)
	return c
}
