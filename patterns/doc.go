// Package patterns implements the pattern automaton at the heart of
// rngtools: immutable patterns compiled from a Relax NG grammar, and
// mutable walkers that track a position in the automaton while an XML
// document streams past as events.
//
// # Patterns and walkers
//
// A [Pattern] is one node of the compiled grammar: element, attribute,
// group, interleave, choice, oneOrMore, value, data, text, empty,
// notAllowed, list, ref, define. Patterns are frozen after [NewGrammar]
// and safe to share. Recursion happens only through ref patterns, which
// hold non-owning back references into the grammar's defines table.
//
// Walkers implement Relax NG's derivative semantics statefully: instead
// of constructing the derivative pattern for each event, each walker
// mutates itself — or holds parallel branches, for choice and interleave —
// to represent it. A walker that does not consume an event reports a
// non-match and is left untouched, which is what lets composite walkers
// offer the event to their other branches.
//
// # Driving a session
//
// [Grammar.NewWalker] creates a [GrammarWalker], the top-level driver.
// Callers feed it the event kinds of §events: enterStartTag,
// attributeName, attributeValue, leaveStartTag, text, endTag. Each call
// returns the validation errors the event produced — never an error in
// the Go sense: the walker stays usable, so a caller can surface the
// problem and keep going.
//
//	walker := grammar.NewWalker()
//	errs := walker.FireEvent(patterns.StartTagEvent("", "foo"))
//	...
//	errs = walker.End()
//
// [GrammarWalker.Possible] reports the set of events that would currently
// be accepted, for editors offering completion.
package patterns
