package patterns

// Walkers for the composite patterns: group, choice, oneOrMore, and
// interleave.

// groupWalker matches a then b in order. Attribute events are exempt from
// the ordering: the attribute phase of an element is unordered, so both
// sides stay reachable for them throughout.
type groupWalker struct {
	p        *Group
	a, b     walker
	bStarted bool
}

func (g *Group) newWalker(sess *session) walker {
	return &groupWalker{p: g, a: g.A.newWalker(sess), b: g.B.newWalker(sess)}
}

func isAttributeEvent(ev Event) bool {
	return ev.Kind == AttributeName || ev.Kind == AttributeValue
}

func (w *groupWalker) fireEvent(ev Event) FireEventResult {
	if isAttributeEvent(ev) {
		if res := w.a.fireEvent(ev); res.Matched {
			return res
		}
		return w.b.fireEvent(ev)
	}
	if !w.bStarted {
		if res := w.a.fireEvent(ev); res.Matched {
			return res
		}
		if !w.a.canEnd() {
			return notMatched
		}
	}
	res := w.b.fireEvent(ev)
	if res.Matched {
		w.bStarted = true
	}
	return res
}

func (w *groupWalker) end() []ValidationError {
	errs := w.a.end()
	return append(errs, w.b.end()...)
}

func (w *groupWalker) endAttributes() []ValidationError {
	errs := w.a.endAttributes()
	return append(errs, w.b.endAttributes()...)
}

func (w *groupWalker) possible(set *EventSet) {
	if w.bStarted {
		w.b.possible(set)
		return
	}
	w.a.possible(set)
	if w.a.canEnd() {
		w.b.possible(set)
	}
}

func (w *groupWalker) possibleAttributes(set *EventSet) {
	w.a.possibleAttributes(set)
	w.b.possibleAttributes(set)
}

func (w *groupWalker) canEnd() bool {
	return w.a.canEnd() && w.b.canEnd()
}

func (w *groupWalker) canEndAttribute() bool {
	return w.a.canEndAttribute() && w.b.canEndAttribute()
}

func (w *groupWalker) clone(cm *cloneMap) walker {
	c := &groupWalker{p: w.p, bStarted: w.bStarted}
	cm.register(w, c)
	c.a = cm.cloneWalker(w.a)
	c.b = cm.cloneWalker(w.b)
	return c
}

// choiceWalker holds both alternatives at once and prunes as events
// disambiguate. A branch dies when the other consumed an event it could
// not; once one branch remains every operation folds to it.
//
// A notAllowed branch is dead from the start, which is what makes
// choice(p, notAllowed) behave exactly like p.
type choiceWalker struct {
	p              *Choice
	a, b           walker
	aAlive, bAlive bool
}

func (c *Choice) newWalker(sess *session) walker {
	w := &choiceWalker{p: c, aAlive: true, bAlive: true}
	if _, ok := c.A.(*NotAllowed); ok {
		w.aAlive = false
	}
	if _, ok := c.B.(*NotAllowed); ok {
		w.bAlive = false
	}
	w.a = c.A.newWalker(sess)
	w.b = c.B.newWalker(sess)
	return w
}

func (w *choiceWalker) fireEvent(ev Event) FireEventResult {
	var resA, resB FireEventResult
	if w.aAlive {
		resA = w.a.fireEvent(ev)
	}
	if w.bAlive {
		resB = w.b.fireEvent(ev)
	}
	switch {
	case resA.Matched && resB.Matched:
		if len(resA.Errors) == 0 || len(resB.Errors) == 0 {
			return matched()
		}
		return resA
	case resA.Matched:
		w.bAlive = false
		return resA
	case resB.Matched:
		w.aAlive = false
		return resB
	default:
		return notMatched
	}
}

func (w *choiceWalker) end() []ValidationError {
	var aErrs, bErrs []ValidationError
	if w.aAlive {
		if aErrs = w.a.end(); aErrs == nil {
			return nil
		}
	}
	if w.bAlive {
		if bErrs = w.b.end(); bErrs == nil {
			return nil
		}
	}
	switch {
	case w.aAlive && w.bAlive:
		return []ValidationError{w.choiceError()}
	case w.aAlive:
		return aErrs
	case w.bAlive:
		return bErrs
	default:
		return []ValidationError{generalErrorf("content not allowed here")}
	}
}

func (w *choiceWalker) endAttributes() []ValidationError {
	if w.aAlive && w.a.endAttributes() == nil {
		return nil
	}
	if w.bAlive && w.b.endAttributes() == nil {
		return nil
	}
	switch {
	case w.aAlive && w.bAlive:
		return []ValidationError{w.choiceError()}
	case w.aAlive:
		return w.a.endAttributes()
	case w.bAlive:
		return w.b.endAttributes()
	default:
		return nil
	}
}

// choiceError summarizes what the branches would have accepted.
func (w *choiceWalker) choiceError() *ChoiceError {
	set := NewEventSet()
	w.possible(set)
	w.possibleAttributes(set)
	alts := make([]string, 0, set.Len())
	for _, ev := range set.Events() {
		alts = append(alts, ev.String())
	}
	return &ChoiceError{Alternatives: alts}
}

func (w *choiceWalker) possible(set *EventSet) {
	if w.aAlive {
		w.a.possible(set)
	}
	if w.bAlive {
		w.b.possible(set)
	}
}

func (w *choiceWalker) possibleAttributes(set *EventSet) {
	if w.aAlive {
		w.a.possibleAttributes(set)
	}
	if w.bAlive {
		w.b.possibleAttributes(set)
	}
}

func (w *choiceWalker) canEnd() bool {
	return (w.aAlive && w.a.canEnd()) || (w.bAlive && w.b.canEnd())
}

func (w *choiceWalker) canEndAttribute() bool {
	return (w.aAlive && w.a.canEndAttribute()) || (w.bAlive && w.b.canEndAttribute())
}

func (w *choiceWalker) clone(cm *cloneMap) walker {
	c := &choiceWalker{p: w.p, aAlive: w.aAlive, bAlive: w.bAlive}
	cm.register(w, c)
	c.a = cm.cloneWalker(w.a)
	c.b = cm.cloneWalker(w.b)
	return c
}

// oneOrMoreWalker drives the current child instance and restarts with a
// fresh one when the current instance is complete and cannot consume the
// next event.
type oneOrMoreWalker struct {
	p        *OneOrMore
	sess     *session
	current  walker
	consumed bool
}

func (o *OneOrMore) newWalker(sess *session) walker {
	return &oneOrMoreWalker{p: o, sess: sess, current: o.Child.newWalker(sess)}
}

func (w *oneOrMoreWalker) fireEvent(ev Event) FireEventResult {
	if res := w.current.fireEvent(ev); res.Matched {
		w.consumed = true
		return res
	}
	if !w.consumed || !w.current.canEnd() {
		return notMatched
	}
	fresh := w.p.Child.newWalker(w.sess)
	if res := fresh.fireEvent(ev); res.Matched {
		w.current = fresh
		return res
	}
	return notMatched
}

func (w *oneOrMoreWalker) end() []ValidationError {
	return w.current.end()
}

func (w *oneOrMoreWalker) endAttributes() []ValidationError {
	return w.current.endAttributes()
}

func (w *oneOrMoreWalker) possible(set *EventSet) {
	w.current.possible(set)
	if w.consumed && w.current.canEnd() {
		w.p.Child.newWalker(w.sess).possible(set)
	}
}

func (w *oneOrMoreWalker) possibleAttributes(set *EventSet) {
	w.current.possibleAttributes(set)
}

func (w *oneOrMoreWalker) canEnd() bool {
	return w.current.canEnd()
}

func (w *oneOrMoreWalker) canEndAttribute() bool {
	return w.current.canEndAttribute()
}

func (w *oneOrMoreWalker) clone(cm *cloneMap) walker {
	c := &oneOrMoreWalker{p: w.p, sess: cm.sess, consumed: w.consumed}
	cm.register(w, c)
	c.current = cm.cloneWalker(w.current)
	return c
}

// interleaveWalker accepts any shuffle of its branches, but once a branch
// has consumed a start tag it stays in control until its tag balance at
// this nesting level returns to zero. Branches that never open tags —
// attribute-only or text-only branches — keep a zero balance and stay
// switchable at every event.
//
// Relax NG simplification guarantees the branches cannot both match the
// same event; should a schema slip through anyway, the first branch wins.
type interleaveWalker struct {
	p              *Interleave
	a, b           walker
	depthA, depthB int
}

func (i *Interleave) newWalker(sess *session) walker {
	return &interleaveWalker{p: i, a: i.A.newWalker(sess), b: i.B.newWalker(sess)}
}

// track adjusts a branch's tag balance after it matched ev.
func track(depth *int, ev Event) {
	switch ev.Kind {
	case EnterStartTag:
		*depth++
	case EndTag:
		if *depth > 0 {
			*depth--
		}
	}
}

func (w *interleaveWalker) fireEvent(ev Event) FireEventResult {
	if w.depthA > 0 {
		res := w.a.fireEvent(ev)
		if res.Matched {
			track(&w.depthA, ev)
		}
		return res
	}
	if w.depthB > 0 {
		res := w.b.fireEvent(ev)
		if res.Matched {
			track(&w.depthB, ev)
		}
		return res
	}
	if res := w.a.fireEvent(ev); res.Matched {
		track(&w.depthA, ev)
		return res
	}
	if res := w.b.fireEvent(ev); res.Matched {
		track(&w.depthB, ev)
		return res
	}
	return notMatched
}

func (w *interleaveWalker) end() []ValidationError {
	errs := w.a.end()
	return append(errs, w.b.end()...)
}

func (w *interleaveWalker) endAttributes() []ValidationError {
	errs := w.a.endAttributes()
	return append(errs, w.b.endAttributes()...)
}

func (w *interleaveWalker) possible(set *EventSet) {
	if w.depthA > 0 {
		w.a.possible(set)
		return
	}
	if w.depthB > 0 {
		w.b.possible(set)
		return
	}
	w.a.possible(set)
	w.b.possible(set)
}

func (w *interleaveWalker) possibleAttributes(set *EventSet) {
	w.a.possibleAttributes(set)
	w.b.possibleAttributes(set)
}

func (w *interleaveWalker) canEnd() bool {
	return w.a.canEnd() && w.b.canEnd()
}

func (w *interleaveWalker) canEndAttribute() bool {
	if !w.p.hasAttrs {
		return true
	}
	return w.a.canEndAttribute() && w.b.canEndAttribute()
}

func (w *interleaveWalker) clone(cm *cloneMap) walker {
	c := &interleaveWalker{p: w.p, depthA: w.depthA, depthB: w.depthB}
	cm.register(w, c)
	c.a = cm.cloneWalker(w.a)
	c.b = cm.cloneWalker(w.b)
	return c
}
