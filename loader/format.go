package loader

import (
	"fmt"
	"strconv"

	"github.com/erraggy/rngtools/datatypes"
	"github.com/erraggy/rngtools/internal/issues"
	"github.com/erraggy/rngtools/internal/severity"
	"github.com/erraggy/rngtools/names"
	"github.com/erraggy/rngtools/patterns"
	"github.com/erraggy/rngtools/rngerrors"
)

const (
	// FormatVersion is the schema file format this build reads.
	FormatVersion = 3

	// OptionNoPaths is the flag bit indicating node path strings are
	// omitted from the file.
	OptionNoPaths = 1
)

// Constructor codes of the compact format. The conversion tool assigns
// these numbers; the verbose (debug) form uses the names instead. The
// table below is the single source of truth — adding a code is a data
// change, not a code change.
const (
	ctorGrammar = iota
	ctorDefine
	ctorRef
	ctorElement
	ctorAttribute
	ctorName
	ctorNameChoice
	ctorNsName
	ctorAnyName
	ctorChoice
	ctorGroup
	ctorInterleave
	ctorOneOrMore
	ctorValue
	ctorData
	ctorList
	ctorText
	ctorEmpty
	ctorNotAllowed
)

// ctorEntry describes one constructor: its verbose name and the number of
// arguments it takes after the optional path string.
type ctorEntry struct {
	code int
	name string
	// minArgs and maxArgs bound the argument count after ctor and path
	minArgs, maxArgs int
}

var ctorTable = []ctorEntry{
	{ctorGrammar, "Grammar", 2, 2},
	{ctorDefine, "Define", 2, 2},
	{ctorRef, "Ref", 1, 1},
	{ctorElement, "Element", 2, 2},
	{ctorAttribute, "Attribute", 2, 2},
	{ctorName, "Name", 2, 2},
	{ctorNameChoice, "NameChoice", 2, 2},
	{ctorNsName, "NsName", 1, 2},
	{ctorAnyName, "AnyName", 0, 1},
	{ctorChoice, "Choice", 2, 2},
	{ctorGroup, "Group", 2, 2},
	{ctorInterleave, "Interleave", 2, 2},
	{ctorOneOrMore, "OneOrMore", 1, 1},
	{ctorValue, "Value", 4, 4},
	{ctorData, "Data", 2, 4},
	{ctorList, "List", 1, 1},
	{ctorText, "Text", 0, 0},
	{ctorEmpty, "Empty", 0, 0},
	{ctorNotAllowed, "NotAllowed", 0, 0},
}

var (
	ctorByCode = func() map[int]*ctorEntry {
		m := make(map[int]*ctorEntry, len(ctorTable))
		for i := range ctorTable {
			m[ctorTable[i].code] = &ctorTable[i]
		}
		return m
	}()
	ctorByName = func() map[string]*ctorEntry {
		m := make(map[string]*ctorEntry, len(ctorTable))
		for i := range ctorTable {
			m[ctorTable[i].name] = &ctorTable[i]
		}
		return m
	}()
)

// builder reconstructs a pattern tree from decoded nodes.
type builder struct {
	cfg      *loadConfig
	logger   Logger
	noPaths  bool
	warnings []issues.Issue
	depth    int
}

// node is one decoded [ctor, path?, args...] array, split into its parts.
type node struct {
	entry *ctorEntry
	path  string
	args  []any
}

// buildError wraps a message into the fatal schema error for a node.
func buildError(nodePath, format string, args ...any) error {
	return &rngerrors.SchemaError{
		NodePath: nodePath,
		Message:  fmt.Sprintf(format, args...),
	}
}

// splitNode validates the raw array shape of a node.
func (b *builder) splitNode(raw any) (*node, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, buildError("", "node is not a non-empty array (got %T)", raw)
	}
	var entry *ctorEntry
	switch ctor := arr[0].(type) {
	case string:
		entry = ctorByName[ctor]
		if entry == nil {
			return nil, buildError("", "unknown constructor name %q", ctor)
		}
	default:
		code, ok := toInt(arr[0])
		if !ok {
			return nil, buildError("", "constructor must be a number or name (got %T)", arr[0])
		}
		entry = ctorByCode[code]
		if entry == nil {
			return nil, buildError("", "unknown constructor code %d", code)
		}
	}
	n := &node{entry: entry, args: arr[1:]}
	if !b.noPaths {
		if len(n.args) == 0 {
			return nil, buildError("", "%s: missing path string", entry.name)
		}
		path, ok := n.args[0].(string)
		if !ok {
			return nil, buildError("", "%s: path must be a string (got %T)", entry.name, n.args[0])
		}
		n.path = path
		n.args = n.args[1:]
	}
	if len(n.args) < entry.minArgs || len(n.args) > entry.maxArgs {
		return nil, buildError(n.path, "%s: want %d..%d arguments, got %d",
			entry.name, entry.minArgs, entry.maxArgs, len(n.args))
	}
	return n, nil
}

// buildPattern reconstructs a pattern subtree.
func (b *builder) buildPattern(raw any) (patterns.Pattern, error) {
	if b.depth++; b.depth > b.cfg.maxDepth {
		return nil, &rngerrors.ResourceLimitError{
			ResourceType: "nesting_depth",
			Limit:        int64(b.cfg.maxDepth),
		}
	}
	defer func() { b.depth-- }()

	n, err := b.splitNode(raw)
	if err != nil {
		return nil, err
	}
	switch n.entry.code {
	case ctorEmpty:
		return patterns.NewEmpty(), nil
	case ctorNotAllowed:
		return patterns.NewNotAllowed(), nil
	case ctorText:
		return patterns.NewText(), nil
	case ctorRef:
		return patterns.NewRef(formatName(n.args[0])), nil
	case ctorChoice, ctorGroup, ctorInterleave:
		a, err := b.buildPattern(n.args[0])
		if err != nil {
			return nil, err
		}
		c, err := b.buildPattern(n.args[1])
		if err != nil {
			return nil, err
		}
		switch n.entry.code {
		case ctorChoice:
			return patterns.NewChoice(a, c), nil
		case ctorGroup:
			return patterns.NewGroup(a, c), nil
		default:
			return patterns.NewInterleave(a, c), nil
		}
	case ctorOneOrMore:
		child, err := b.buildPattern(n.args[0])
		if err != nil {
			return nil, err
		}
		return patterns.NewOneOrMore(child), nil
	case ctorList:
		child, err := b.buildPattern(n.args[0])
		if err != nil {
			return nil, err
		}
		return patterns.NewList(child), nil
	case ctorElement, ctorAttribute:
		nc, err := b.buildNameClass(n.args[0])
		if err != nil {
			return nil, err
		}
		child, err := b.buildPattern(n.args[1])
		if err != nil {
			return nil, err
		}
		if n.entry.code == ctorElement {
			return patterns.NewElement(nc, child), nil
		}
		return patterns.NewAttribute(nc, child), nil
	case ctorValue:
		return b.buildValue(n)
	case ctorData:
		return b.buildData(n)
	case ctorGrammar:
		return nil, buildError(n.path, "nested grammars are not part of the simple form")
	default:
		return nil, buildError(n.path, "%s is not valid in pattern position", n.entry.name)
	}
}

// buildValue reconstructs [Value, path?, datatypeLibrary, type, value, ns].
func (b *builder) buildValue(n *node) (patterns.Pattern, error) {
	lib, typ, err := stringArgs2(n, 0)
	if err != nil {
		return nil, err
	}
	raw, ns, err := stringArgs2(n, 2)
	if err != nil {
		return nil, err
	}
	dt, err := b.resolveDatatype(lib, typ, n.path)
	if err != nil {
		return nil, err
	}
	return patterns.NewValue(dt, raw, ns, n.path)
}

// buildData reconstructs [Data, path?, datatypeLibrary, type, params?, except?].
func (b *builder) buildData(n *node) (patterns.Pattern, error) {
	lib, typ, err := stringArgs2(n, 0)
	if err != nil {
		return nil, err
	}
	dt, err := b.resolveDatatype(lib, typ, n.path)
	if err != nil {
		return nil, err
	}
	var params []datatypes.RawParam
	if len(n.args) > 2 {
		params, err = b.buildParams(n.path, n.args[2])
		if err != nil {
			return nil, err
		}
	}
	var except patterns.Pattern
	if len(n.args) > 3 {
		except, err = b.buildPattern(n.args[3])
		if err != nil {
			return nil, err
		}
	}
	return patterns.NewData(dt, params, except, n.path)
}

// buildParams decodes the flat [name, value, name, value, ...] array.
func (b *builder) buildParams(nodePath string, raw any) ([]datatypes.RawParam, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, buildError(nodePath, "params must be an array (got %T)", raw)
	}
	if len(arr)%2 != 0 {
		return nil, buildError(nodePath, "params array must alternate names and values")
	}
	params := make([]datatypes.RawParam, 0, len(arr)/2)
	for i := 0; i < len(arr); i += 2 {
		name, ok := arr[i].(string)
		if !ok {
			return nil, buildError(nodePath, "param name must be a string (got %T)", arr[i])
		}
		value, ok := arr[i+1].(string)
		if !ok {
			return nil, buildError(nodePath, "param value must be a string (got %T)", arr[i+1])
		}
		params = append(params, datatypes.RawParam{Name: name, Value: value})
	}
	return params, nil
}

// buildNameClass reconstructs a name-class subtree.
func (b *builder) buildNameClass(raw any) (names.NameClass, error) {
	n, err := b.splitNode(raw)
	if err != nil {
		return nil, err
	}
	switch n.entry.code {
	case ctorName:
		ns, local, err := stringArgs2(n, 0)
		if err != nil {
			return nil, err
		}
		return names.Name{NS: ns, Local: local}, nil
	case ctorNameChoice:
		a, err := b.buildNameClass(n.args[0])
		if err != nil {
			return nil, err
		}
		c, err := b.buildNameClass(n.args[1])
		if err != nil {
			return nil, err
		}
		return names.NameChoice{A: a, B: c}, nil
	case ctorNsName:
		ns, ok := n.args[0].(string)
		if !ok {
			return nil, buildError(n.path, "NsName: ns must be a string (got %T)", n.args[0])
		}
		nc := names.NsName{NS: ns}
		if len(n.args) > 1 {
			except, err := b.buildNameClass(n.args[1])
			if err != nil {
				return nil, err
			}
			nc.Except = except
		}
		return nc, nil
	case ctorAnyName:
		nc := names.AnyName{}
		if len(n.args) > 0 {
			except, err := b.buildNameClass(n.args[0])
			if err != nil {
				return nil, err
			}
			nc.Except = except
		}
		return nc, nil
	default:
		return nil, buildError(n.path, "%s is not valid in name-class position", n.entry.name)
	}
}

// buildGrammar reconstructs the top-level Grammar node and resolves refs.
func (b *builder) buildGrammar(raw any) (*patterns.Grammar, error) {
	n, err := b.splitNode(raw)
	if err != nil {
		return nil, err
	}
	if n.entry.code != ctorGrammar {
		return nil, buildError(n.path, "top-level node must be a Grammar, got %s", n.entry.name)
	}
	start, err := b.buildPattern(n.args[0])
	if err != nil {
		return nil, err
	}
	rawDefines, ok := n.args[1].([]any)
	if !ok {
		return nil, buildError(n.path, "Grammar: defines must be an array (got %T)", n.args[1])
	}
	defines := make(map[string]*patterns.Define, len(rawDefines))
	for _, rawDef := range rawDefines {
		dn, err := b.splitNode(rawDef)
		if err != nil {
			return nil, err
		}
		if dn.entry.code != ctorDefine {
			return nil, buildError(dn.path, "Grammar defines must be Define nodes, got %s", dn.entry.name)
		}
		name := formatName(dn.args[0])
		child, err := b.buildPattern(dn.args[1])
		if err != nil {
			return nil, err
		}
		if _, dup := defines[name]; dup {
			return nil, buildError(dn.path, "duplicate define %q", name)
		}
		defines[name] = patterns.NewDefine(name, child)
	}
	b.logger.Debug("built pattern tree", "defines", len(defines))
	return patterns.NewGrammar(start, defines)
}

// resolveDatatype looks a type up, degrading unknown types to token
// semantics when the incomplete-types allowance is on.
func (b *builder) resolveDatatype(lib, typ, nodePath string) (datatypes.Datatype, error) {
	dt, err := datatypes.Find(lib, typ)
	if err == nil {
		return dt, nil
	}
	if !b.cfg.allowIncompleteTypes {
		return nil, err
	}
	fallback, ferr := datatypes.Find(datatypes.BuiltinLibrary, "token")
	if ferr != nil {
		return nil, err
	}
	b.logger.Warn("datatype not implemented, degrading to token", "library", lib, "type", typ)
	if !b.cfg.quietIncompleteTypes {
		b.warnings = append(b.warnings, issues.Issue{
			Kind:     issues.KindIncompleteType,
			Path:     nodePath,
			Message:  fmt.Sprintf("datatype %s (%s) is not implemented; degraded to token", typ, lib),
			Severity: severity.SeverityWarning,
		})
	}
	return fallback, nil
}

// formatName normalizes a define or ref name: the id-optimization pass of
// the conversion tool stores names as numbers.
func formatName(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := toInt(v); ok {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%v", v)
}

// toInt coerces the numeric types the decoder may produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// stringArgs2 extracts two consecutive string arguments.
func stringArgs2(n *node, at int) (string, string, error) {
	a, ok := n.args[at].(string)
	if !ok {
		return "", "", buildError(n.path, "%s: argument %d must be a string (got %T)", n.entry.name, at, n.args[at])
	}
	c, ok := n.args[at+1].(string)
	if !ok {
		return "", "", buildError(n.path, "%s: argument %d must be a string (got %T)", n.entry.name, at+1, n.args[at+1])
	}
	return a, c, nil
}
