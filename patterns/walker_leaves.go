package patterns

import "strings"

// Walkers for the leaf patterns: empty, notAllowed, text, value, data,
// list, and ref.

type emptyWalker struct{}

func (*Empty) newWalker(_ *session) walker { return &emptyWalker{} }

func (w *emptyWalker) fireEvent(_ Event) FireEventResult { return notMatched }
func (w *emptyWalker) end() []ValidationError { return nil }
func (w *emptyWalker) endAttributes() []ValidationError { return nil }
func (w *emptyWalker) possible(_ *EventSet)              {}
func (w *emptyWalker) possibleAttributes(_ *EventSet)    {}
func (w *emptyWalker) canEnd() bool { return true }
func (w *emptyWalker) canEndAttribute() bool { return true }

func (w *emptyWalker) clone(cm *cloneMap) walker {
	c := &emptyWalker{}
	cm.register(w, c)
	return c
}

type notAllowedWalker struct{}

func (*NotAllowed) newWalker(_ *session) walker { return &notAllowedWalker{} }

func (w *notAllowedWalker) fireEvent(_ Event) FireEventResult { return notMatched }

func (w *notAllowedWalker) end() []ValidationError {
	return []ValidationError{generalErrorf("content not allowed here")}
}

func (w *notAllowedWalker) endAttributes() []ValidationError { return nil }
func (w *notAllowedWalker) possible(_ *EventSet)             {}
func (w *notAllowedWalker) possibleAttributes(_ *EventSet)   {}
func (w *notAllowedWalker) canEnd() bool { return false }
func (w *notAllowedWalker) canEndAttribute() bool { return true }

func (w *notAllowedWalker) clone(cm *cloneMap) walker {
	c := &notAllowedWalker{}
	cm.register(w, c)
	return c
}

type textWalker struct{}

func (*TextPattern) newWalker(_ *session) walker { return &textWalker{} }

func (w *textWalker) fireEvent(ev Event) FireEventResult {
	if ev.Kind == Text {
		return matched()
	}
	return notMatched
}

func (w *textWalker) end() []ValidationError { return nil }
func (w *textWalker) endAttributes() []ValidationError { return nil }

func (w *textWalker) possible(set *EventSet) {
	set.Add(Event{Kind: Text})
}

func (w *textWalker) possibleAttributes(_ *EventSet) {}
func (w *textWalker) canEnd() bool { return true }
func (w *textWalker) canEndAttribute() bool { return true }

func (w *textWalker) clone(cm *cloneMap) walker {
	c := &textWalker{}
	cm.register(w, c)
	return c
}

// valueWalker matches one text event equal to the pattern's value.
type valueWalker struct {
	p    *ValuePattern
	sess *session
	done bool
}

func (v *ValuePattern) newWalker(sess *session) walker {
	return &valueWalker{p: v, sess: sess}
}

func (w *valueWalker) fireEvent(ev Event) FireEventResult {
	if ev.Kind != Text || w.done {
		return notMatched
	}
	docValue, err := w.p.Datatype.ParseValue(ev.Value, w.sess.context())
	if err != nil {
		return notMatched
	}
	if !w.p.Datatype.Equal(w.p.parsed, docValue) {
		return notMatched
	}
	w.done = true
	return matched()
}

func (w *valueWalker) end() []ValidationError {
	if w.canEnd() {
		return nil
	}
	return []ValidationError{generalErrorf("expected value %q", w.p.Raw)}
}

func (w *valueWalker) endAttributes() []ValidationError { return nil }

func (w *valueWalker) possible(set *EventSet) {
	if !w.done {
		set.Add(Event{Kind: Text, Value: w.p.Raw})
	}
}

func (w *valueWalker) possibleAttributes(_ *EventSet) {}

func (w *valueWalker) canEnd() bool {
	return w.done || w.p.nullable
}

func (w *valueWalker) canEndAttribute() bool { return true }

func (w *valueWalker) clone(cm *cloneMap) walker {
	c := &valueWalker{p: w.p, sess: cm.sess, done: w.done}
	cm.register(w, c)
	return c
}

// dataWalker matches one text event the datatype allows.
type dataWalker struct {
	p    *DataPattern
	sess *session
	done bool
}

func (d *DataPattern) newWalker(sess *session) walker {
	return &dataWalker{p: d, sess: sess}
}

func (w *dataWalker) fireEvent(ev Event) FireEventResult {
	if ev.Kind != Text || w.done {
		return notMatched
	}
	if w.p.Datatype.Disallows(ev.Value, w.p.Params, w.sess.context()) != nil {
		return notMatched
	}
	if w.p.Except != nil && patternMatchesText(w.p.Except, w.sess, ev.Value) {
		return notMatched
	}
	w.done = true
	return matched()
}

func (w *dataWalker) end() []ValidationError {
	if w.canEnd() {
		return nil
	}
	return []ValidationError{generalErrorf("expected %s value", w.p.Datatype.Name())}
}

func (w *dataWalker) endAttributes() []ValidationError { return nil }

func (w *dataWalker) possible(set *EventSet) {
	if !w.done {
		set.Add(Event{Kind: Text})
	}
}

func (w *dataWalker) possibleAttributes(_ *EventSet) {}

func (w *dataWalker) canEnd() bool {
	return w.done || w.p.nullable
}

func (w *dataWalker) canEndAttribute() bool { return true }

func (w *dataWalker) clone(cm *cloneMap) walker {
	c := &dataWalker{p: w.p, sess: cm.sess, done: w.done}
	cm.register(w, c)
	return c
}

// patternMatchesText probes whether a pattern fully accepts one text
// event. Used for data excepts, which are choices of values in simple form.
func patternMatchesText(p Pattern, sess *session, value string) bool {
	probe := p.newWalker(sess)
	res := probe.fireEvent(TextEvent(value))
	if !res.Matched || len(res.Errors) > 0 {
		// An except of value "" accepts empty text without consuming an event.
		return value == "" && p.Nullable()
	}
	return probe.end() == nil
}

// listWalker matches one text event whose tokens match the child pattern
// fed as a sequence of text events.
type listWalker struct {
	p    *List
	sess *session
	done bool
}

func (l *List) newWalker(sess *session) walker {
	return &listWalker{p: l, sess: sess}
}

func (w *listWalker) fireEvent(ev Event) FireEventResult {
	if ev.Kind != Text || w.done {
		return notMatched
	}
	child := w.p.Child.newWalker(w.sess)
	for _, token := range strings.Fields(ev.Value) {
		res := child.fireEvent(TextEvent(token))
		if !res.Matched || len(res.Errors) > 0 {
			return notMatched
		}
	}
	if child.end() != nil {
		return notMatched
	}
	w.done = true
	return matched()
}

func (w *listWalker) end() []ValidationError {
	if w.canEnd() {
		return nil
	}
	return []ValidationError{generalErrorf("expected a list value")}
}

func (w *listWalker) endAttributes() []ValidationError { return nil }

func (w *listWalker) possible(set *EventSet) {
	if !w.done {
		set.Add(Event{Kind: Text})
	}
}

func (w *listWalker) possibleAttributes(_ *EventSet) {}

func (w *listWalker) canEnd() bool {
	return w.done || w.p.Nullable()
}

func (w *listWalker) canEndAttribute() bool { return true }

func (w *listWalker) clone(cm *cloneMap) walker {
	c := &listWalker{p: w.p, sess: cm.sess, done: w.done}
	cm.register(w, c)
	return c
}

// refWalker delegates to the resolved define's child. The inner walker is
// built lazily so that recursive grammars cost stack only in proportion to
// the document's nesting depth.
type refWalker struct {
	p     *Ref
	sess  *session
	inner walker
}

func (r *Ref) newWalker(sess *session) walker {
	return &refWalker{p: r, sess: sess}
}

func (w *refWalker) walker() walker {
	if w.inner == nil {
		w.inner = w.p.target.Child.newWalker(w.sess)
	}
	return w.inner
}

func (w *refWalker) fireEvent(ev Event) FireEventResult {
	return w.walker().fireEvent(ev)
}

func (w *refWalker) end() []ValidationError {
	return w.walker().end()
}

func (w *refWalker) endAttributes() []ValidationError {
	return w.walker().endAttributes()
}

func (w *refWalker) possible(set *EventSet) {
	w.walker().possible(set)
}

func (w *refWalker) possibleAttributes(set *EventSet) {
	w.walker().possibleAttributes(set)
}

func (w *refWalker) canEnd() bool {
	return w.walker().canEnd()
}

func (w *refWalker) canEndAttribute() bool {
	return w.walker().canEndAttribute()
}

func (w *refWalker) clone(cm *cloneMap) walker {
	c := &refWalker{p: w.p, sess: cm.sess}
	cm.register(w, c)
	c.inner = cm.cloneWalker(w.inner)
	return c
}
