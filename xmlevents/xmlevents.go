// Package xmlevents drives a grammar walker from an XML document, turning
// encoding/xml tokens into validation events and collecting the resulting
// issues with source positions.
//
// The core validator does not parse XML; this package is the bundled
// SAX-like driver for callers that want end-to-end validation of a file,
// reader, or byte slice. Callers with their own XML layer can feed a
// patterns.GrammarWalker directly instead.
package xmlevents

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/erraggy/rngtools/internal/issues"
	"github.com/erraggy/rngtools/internal/severity"
	"github.com/erraggy/rngtools/patterns"
	"github.com/erraggy/rngtools/rngerrors"
)

// Issue is a single validation problem with its document location.
type Issue = issues.Issue

// Severity re-exports the severity levels carried on issues.
type Severity = severity.Severity

const (
	// SeverityError indicates a problem that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a non-fatal problem
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// Result contains the outcome of validating one document.
type Result struct {
	// Valid is true if no errors were found
	Valid bool
	// Issues contains all problems found, in document order
	Issues []Issue
	// ErrorCount is the number of error-severity issues
	ErrorCount int
	// SourcePath is the document path, or "<reader>" for reader input
	SourcePath string
	// ValidateTime is the time taken to stream and validate the document
	ValidateTime time.Duration
}

// Option is a function that configures a validation operation.
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation.
type validateConfig struct {
	grammar  *patterns.Grammar
	filePath *string
	reader   io.Reader
}

// WithGrammar sets the compiled grammar to validate against. Required.
func WithGrammar(g *patterns.Grammar) Option {
	return func(cfg *validateConfig) error {
		if g == nil {
			return &rngerrors.ConfigError{Option: "WithGrammar", Message: "grammar must not be nil"}
		}
		cfg.grammar = g
		return nil
	}
}

// WithFilePath specifies a document file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(cfg *validateConfig) error {
		if r == nil {
			return &rngerrors.ConfigError{Option: "WithReader", Message: "reader must not be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// ValidateWithOptions validates an XML document using functional options.
//
// Example:
//
//	result, err := xmlevents.ValidateWithOptions(
//	    xmlevents.WithGrammar(loaded.Grammar),
//	    xmlevents.WithFilePath("doc.xml"),
//	)
func ValidateWithOptions(opts ...Option) (*Result, error) {
	cfg := &validateConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("xmlevents: invalid options: %w", err)
		}
	}
	if cfg.grammar == nil {
		return nil, &rngerrors.ConfigError{Option: "WithGrammar", Message: "a grammar is required"}
	}
	sourceCount := 0
	if cfg.filePath != nil {
		sourceCount++
	}
	if cfg.reader != nil {
		sourceCount++
	}
	if sourceCount != 1 {
		return nil, &rngerrors.ConfigError{Message: "must specify exactly one input source (WithFilePath or WithReader)"}
	}

	if cfg.filePath != nil {
		return ValidateFile(cfg.grammar, *cfg.filePath)
	}
	return ValidateReader(cfg.grammar, cfg.reader)
}

// ValidateFile validates the XML document at path against the grammar.
func ValidateFile(g *patterns.Grammar, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xmlevents: cannot open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	result, err := validate(g, f, path)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateReader validates the XML document read from r.
func ValidateReader(g *patterns.Grammar, r io.Reader) (*Result, error) {
	return validate(g, r, "<reader>")
}

// session is the state of one streaming validation run.
type session struct {
	walker  *patterns.GrammarWalker
	decoder *xml.Decoder
	path    *pathTracker
	file    string
	result  *Result
	// pending accumulates character data until a structural token flushes it
	pending     strings.Builder
	havePending bool
}

func validate(g *patterns.Grammar, r io.Reader, sourcePath string) (*Result, error) {
	start := time.Now()
	s := &session{
		walker:  g.NewWalker(),
		decoder: xml.NewDecoder(r),
		path:    newPathTracker(),
		result:  &Result{SourcePath: sourcePath},
	}
	if sourcePath != "<reader>" {
		s.file = sourcePath
	}

	for {
		tok, err := s.decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlevents: malformed document: %w", err)
		}
		if err := s.handleToken(tok); err != nil {
			return nil, err
		}
	}
	s.flushText()
	s.report("", s.walker.End())

	s.result.ErrorCount = countErrors(s.result.Issues)
	s.result.Valid = s.result.ErrorCount == 0
	s.result.ValidateTime = time.Since(start)
	return s.result, nil
}

func (s *session) handleToken(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		s.flushText()
		s.startElement(t)
	case xml.EndElement:
		s.flushText()
		s.report("", s.walker.FireEvent(patterns.EndTagEvent(t.Name.Space, t.Name.Local)))
		s.path.pop()
		if err := s.walker.NameResolver().LeaveContext(); err != nil {
			return fmt.Errorf("xmlevents: %w", err)
		}
	case xml.CharData:
		s.pending.Write(t)
		s.havePending = true
	case xml.Comment, xml.ProcInst, xml.Directive:
		// Not validation events.
	}
	return nil
}

// startElement fires the event burst for one start tag: enterStartTag,
// the attribute pairs, then leaveStartTag. Namespace declarations are fed
// to the resolver rather than validated as attributes.
func (s *session) startElement(t xml.StartElement) {
	resolver := s.walker.NameResolver()
	resolver.EnterContext()
	for _, attr := range t.Attr {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			resolver.DefinePrefix("", attr.Value)
		case attr.Name.Space == "xmlns":
			resolver.DefinePrefix(attr.Name.Local, attr.Value)
		}
	}

	s.path.push(t.Name.Local)
	s.report("", s.walker.FireEvent(patterns.StartTagEvent(t.Name.Space, t.Name.Local)))

	for _, attr := range t.Attr {
		if attr.Name.Local == "xmlns" || attr.Name.Space == "xmlns" {
			continue
		}
		s.report("@"+attr.Name.Local,
			s.walker.FireEvent(patterns.AttributeNameEvent(attr.Name.Space, attr.Name.Local)))
		s.report("@"+attr.Name.Local,
			s.walker.FireEvent(patterns.AttributeValueEvent(attr.Value)))
	}
	s.report("", s.walker.FireEvent(patterns.LeaveStartTagEvent()))
}

// flushText fires accumulated character data as one text event, so that
// entity boundaries inside a value do not split it.
func (s *session) flushText() {
	if !s.havePending {
		return
	}
	text := s.pending.String()
	s.pending.Reset()
	s.havePending = false
	s.report("", s.walker.FireEvent(patterns.TextEvent(text)))
}

// report converts walker errors into issues at the current position.
func (s *session) report(site string, errs []patterns.ValidationError) {
	if len(errs) == 0 {
		return
	}
	line, col := s.position()
	path := s.path.current()
	if site != "" {
		path += "/" + site
	}
	for _, err := range errs {
		s.result.Issues = append(s.result.Issues, Issue{
			Kind:     issueKind(err),
			Path:     path,
			Message:  err.Error(),
			Severity: severity.SeverityError,
			Name:     nameOf(err),
			Line:     line,
			Column:   col,
			File:     s.file,
		})
	}
}

func (s *session) position() (line, col int) {
	l, c := s.decoder.InputPos()
	return l, c
}

// issueKind maps a walker error kind onto the issue taxonomy.
func issueKind(err patterns.ValidationError) issues.Kind {
	switch err.Kind() {
	case patterns.ErrElementName:
		return issues.KindElementName
	case patterns.ErrAttributeName:
		return issues.KindAttributeName
	case patterns.ErrAttributeValue:
		return issues.KindAttributeValue
	case patterns.ErrText:
		return issues.KindText
	case patterns.ErrChoice:
		return issues.KindChoice
	default:
		return issues.KindGeneral
	}
}

func nameOf(err patterns.ValidationError) string {
	name := err.Name()
	if name.Local == "" && name.NS == "" {
		return ""
	}
	return name.String()
}

func countErrors(list []Issue) int {
	n := 0
	for _, issue := range list {
		if issue.Severity == severity.SeverityError {
			n++
		}
	}
	return n
}

// pathTracker renders the element path of the current position, with
// sibling indices for repeated names: /library/book[2]/title.
type pathTracker struct {
	frames []pathFrame
}

type pathFrame struct {
	segment string
	counts  map[string]int
}

func newPathTracker() *pathTracker {
	return &pathTracker{frames: []pathFrame{{counts: map[string]int{}}}}
}

func (p *pathTracker) push(name string) {
	top := &p.frames[len(p.frames)-1]
	top.counts[name]++
	segment := name
	if n := top.counts[name]; n > 1 {
		segment = fmt.Sprintf("%s[%d]", name, n)
	}
	p.frames = append(p.frames, pathFrame{segment: segment, counts: map[string]int{}})
}

func (p *pathTracker) pop() {
	if len(p.frames) > 1 {
		p.frames = p.frames[:len(p.frames)-1]
	}
}

func (p *pathTracker) current() string {
	if len(p.frames) == 1 {
		return "/"
	}
	var sb strings.Builder
	for _, f := range p.frames[1:] {
		sb.WriteString("/")
		sb.WriteString(f.segment)
	}
	return sb.String()
}
