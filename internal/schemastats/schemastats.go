// Package schemastats summarizes the structure of a loaded grammar for
// the inspect command and the MCP inspect tool.
package schemastats

import "github.com/erraggy/rngtools/patterns"

// Stats counts the nodes of a pattern tree.
type Stats struct {
	// Defines is the number of named defines in the grammar
	Defines int
	// Patterns maps pattern kind to occurrence count
	Patterns map[string]int
}

// Kinds fixes a display order for the pattern counts.
var Kinds = []string{
	"element", "attribute", "group", "interleave", "choice", "oneOrMore",
	"value", "data", "list", "text", "empty", "notAllowed", "ref",
}

// Collect walks the grammar and counts pattern nodes by kind.
func Collect(g *patterns.Grammar) *Stats {
	stats := &Stats{Patterns: map[string]int{}}
	seen := map[patterns.Pattern]bool{}
	var walk func(p patterns.Pattern)
	walk = func(p patterns.Pattern) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		switch pat := p.(type) {
		case *patterns.Element:
			stats.Patterns["element"]++
			walk(pat.Child)
		case *patterns.AttributePattern:
			stats.Patterns["attribute"]++
			walk(pat.Child)
		case *patterns.Group:
			stats.Patterns["group"]++
			walk(pat.A)
			walk(pat.B)
		case *patterns.Interleave:
			stats.Patterns["interleave"]++
			walk(pat.A)
			walk(pat.B)
		case *patterns.Choice:
			stats.Patterns["choice"]++
			walk(pat.A)
			walk(pat.B)
		case *patterns.OneOrMore:
			stats.Patterns["oneOrMore"]++
			walk(pat.Child)
		case *patterns.ValuePattern:
			stats.Patterns["value"]++
		case *patterns.DataPattern:
			stats.Patterns["data"]++
			walk(pat.Except)
		case *patterns.List:
			stats.Patterns["list"]++
			walk(pat.Child)
		case *patterns.TextPattern:
			stats.Patterns["text"]++
		case *patterns.Empty:
			stats.Patterns["empty"]++
		case *patterns.NotAllowed:
			stats.Patterns["notAllowed"]++
		case *patterns.Ref:
			stats.Patterns["ref"]++
		}
	}
	walk(g.Start)
	for _, def := range g.Defines {
		stats.Defines++
		walk(def.Child)
	}
	return stats
}
