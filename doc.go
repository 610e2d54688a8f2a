// Package rngtools provides tools for validating XML documents against
// Relax NG grammars delivered in a compact JSON schema format.
//
// rngtools is an incremental, event-driven validator: the caller feeds XML
// events (start tag, attribute name/value, text, end tag) and receives, at
// each step, the set of events that would currently be acceptable and any
// validation errors. It does not parse XML itself, although the xmlevents
// package provides a ready-made driver over encoding/xml.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - loader: Read a compiled grammar from the JSON schema format (version 3)
//   - patterns: The pattern automaton — immutable patterns and mutable walkers
//   - datatypes: Simple-type libraries (built-in and W3C XML Schema datatypes)
//   - names: Namespace prefix resolution and Relax NG name classes
//   - xmlevents: Drive a grammar walker from an encoding/xml token stream
//
// Grammars must be in Relax NG simple form, pre-compiled to the JSON format
// by an external conversion tool. The simplification pipeline and the JSON
// writer are out of scope; only the reader lives here.
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/rngtools
//
// # Quick Start
//
// Load a compiled grammar and validate a document:
//
//	import (
//		"github.com/erraggy/rngtools/loader"
//		"github.com/erraggy/rngtools/xmlevents"
//	)
//
//	loaded, err := loader.LoadWithOptions(loader.WithFilePath("schema.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := xmlevents.ValidateReader(loaded.Grammar, xmlFile)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, issue := range result.Issues {
//		fmt.Println(issue)
//	}
//
// Validation errors are reported as values, never panics: a walker stays
// usable after an error so editors can keep validating past a problem.
//
// # Thread Safety
//
// A loaded grammar is immutable and may be shared by any number of
// concurrent walkers. Walkers themselves are single-session state and must
// not be shared across goroutines.
package rngtools
