package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/rngtools/names"
)

// EventKind enumerates the validation events a walker consumes.
type EventKind int

const (
	// EnterStartTag opens an element; carries the expanded name.
	EnterStartTag EventKind = iota
	// LeaveStartTag closes the attribute list of the current element.
	LeaveStartTag
	// AttributeName names an attribute; carries the expanded name.
	AttributeName
	// AttributeValue carries the raw value of the attribute just named.
	AttributeValue
	// Text carries character data.
	Text
	// EndTag closes an element; carries the expanded name.
	EndTag
)

// String returns the event kind's wire name.
func (k EventKind) String() string {
	switch k {
	case EnterStartTag:
		return "enterStartTag"
	case LeaveStartTag:
		return "leaveStartTag"
	case AttributeName:
		return "attributeName"
	case AttributeValue:
		return "attributeValue"
	case Text:
		return "text"
	case EndTag:
		return "endTag"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one validation event.
//
// Events travel in two directions. Fired events (caller to walker) carry a
// concrete expanded name in NS/Local for the name-bearing kinds, and the
// raw string in Value for AttributeValue and Text. Possible events (walker
// to caller, from Possible) instead carry a name class in Name, since an
// open name class cannot be enumerated into concrete names.
type Event struct {
	Kind  EventKind
	NS    string
	Local string
	Value string
	// Name is set on possible events for EnterStartTag and AttributeName
	Name names.NameClass
}

// StartTagEvent builds an EnterStartTag event for an expanded name.
func StartTagEvent(ns, local string) Event {
	return Event{Kind: EnterStartTag, NS: ns, Local: local}
}

// EndTagEvent builds an EndTag event for an expanded name.
func EndTagEvent(ns, local string) Event {
	return Event{Kind: EndTag, NS: ns, Local: local}
}

// AttributeNameEvent builds an AttributeName event for an expanded name.
func AttributeNameEvent(ns, local string) Event {
	return Event{Kind: AttributeName, NS: ns, Local: local}
}

// AttributeValueEvent builds an AttributeValue event.
func AttributeValueEvent(value string) Event {
	return Event{Kind: AttributeValue, Value: value}
}

// TextEvent builds a Text event.
func TextEvent(value string) Event {
	return Event{Kind: Text, Value: value}
}

// LeaveStartTagEvent builds a LeaveStartTag event.
func LeaveStartTagEvent() Event {
	return Event{Kind: LeaveStartTag}
}

// name returns the event's expanded name.
func (e Event) name() names.ExpandedName {
	return names.ExpandedName{NS: e.NS, Local: e.Local}
}

// Key returns a string identifying the event within an EventSet. Two
// events with the same key are the same possibility.
func (e Event) Key() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Name != nil {
		sb.WriteString(" ")
		sb.WriteString(e.Name.String())
	} else if e.NS != "" || e.Local != "" {
		sb.WriteString(" ")
		sb.WriteString(e.name().String())
	}
	return sb.String()
}

// String renders the event for diagnostics.
func (e Event) String() string {
	return e.Key()
}

// EventSet is a set of possible events, deduplicated by Key.
type EventSet struct {
	events map[string]Event
}

// NewEventSet creates an empty set.
func NewEventSet() *EventSet {
	return &EventSet{events: make(map[string]Event)}
}

// Add inserts an event.
func (s *EventSet) Add(ev Event) {
	s.events[ev.Key()] = ev
}

// Union inserts every event of other.
func (s *EventSet) Union(other *EventSet) {
	for k, ev := range other.events {
		s.events[k] = ev
	}
}

// Has reports whether an event with the same key is present.
func (s *EventSet) Has(ev Event) bool {
	_, ok := s.events[ev.Key()]
	return ok
}

// Len returns the number of distinct events.
func (s *EventSet) Len() int {
	return len(s.events)
}

// Events returns the members sorted by key, for stable output.
func (s *EventSet) Events() []Event {
	keys := make([]string, 0, len(s.events))
	for k := range s.events {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Event, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.events[k])
	}
	return out
}
