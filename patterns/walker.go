package patterns

import (
	"strings"

	"github.com/erraggy/rngtools/datatypes"
	"github.com/erraggy/rngtools/names"
)

// FireEventResult is what a walker reports for one event. Matched false
// with no errors means the walker did not consume the event and is
// unchanged; the caller may offer the event elsewhere.
type FireEventResult struct {
	Matched bool
	Errors  []ValidationError
}

var notMatched = FireEventResult{}

func matched(errs ...ValidationError) FireEventResult {
	return FireEventResult{Matched: true, Errors: errs}
}

// session is the per-validation state walkers share: the namespace
// resolver that context-dependent datatypes read. One session per
// GrammarWalker; cloning a GrammarWalker clones the session.
type session struct {
	resolver *names.Resolver
}

// context builds the datatype context for the current document position.
func (s *session) context() *datatypes.Context {
	return &datatypes.Context{Resolver: s.resolver}
}

// walker is a mutable cursor over one pattern.
//
// The contract every implementation honors:
//
//   - fireEvent mutates the walker only when it returns Matched; a
//     non-matching walker is untouched and may be offered later events
//   - end and endAttributes return nil exactly when canEnd and
//     canEndAttribute, respectively, report true
//   - clone is a deep copy through the memo so that walkers shared
//     between branches stay shared in the clone
type walker interface {
	fireEvent(ev Event) FireEventResult
	end() []ValidationError
	endAttributes() []ValidationError
	possible(set *EventSet)
	possibleAttributes(set *EventSet)
	canEnd() bool
	canEndAttribute() bool
	clone(cm *cloneMap) walker
}

// cloneMap preserves identity while cloning a walker tree: cloning the
// same walker twice yields the same clone, so a DAG stays a DAG.
type cloneMap struct {
	walkers map[walker]walker
	sess    *session
}

func newCloneMap(sess *session) *cloneMap {
	return &cloneMap{walkers: make(map[walker]walker), sess: sess}
}

// cloneWalker clones w through the memo; nil stays nil.
func (cm *cloneMap) cloneWalker(w walker) walker {
	if w == nil {
		return nil
	}
	if c, ok := cm.walkers[w]; ok {
		return c
	}
	c := w.clone(cm)
	return c
}

// register records the clone before descending into children, so cycles
// through shared substructure terminate.
func (cm *cloneMap) register(original, clone walker) {
	cm.walkers[original] = clone
}

// isWhitespace reports whether text is ignorable inter-element whitespace.
func isWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}
