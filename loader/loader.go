// Package loader reads a compiled Relax NG grammar from its JSON schema
// format (version 3) and reconstructs the immutable pattern tree the
// patterns package validates against.
//
// The file layout is:
//
//	{ "v": 3, "o": <flags>, "d": <node> }
//
// where each node is an array [ctor, path?, args...]. The compact form
// uses numeric constructor codes; the verbose form, meant for debugging,
// uses constructor names. Bit 0 of the flags (OptionNoPaths) indicates
// that node path strings are omitted.
//
// Loading is fatal-on-error: a malformed file, an unsupported format
// version, a dangling ref, or an invalid datatype parameter all abort the
// load. The one softening is WithAllowIncompleteTypes, which degrades
// datatypes this build does not implement to token semantics and records
// a warning instead of failing.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rngtools/internal/issues"
	"github.com/erraggy/rngtools/patterns"
	"github.com/erraggy/rngtools/rngerrors"
)

const (
	// defaultMaxDepth bounds pattern nesting to keep a hostile file from
	// exhausting the stack.
	defaultMaxDepth = 2000
	// defaultMaxFileSize bounds the schema file size (10MB).
	defaultMaxFileSize = 10 * 1024 * 1024
)

// Result is a successfully loaded grammar plus load metadata.
type Result struct {
	// Grammar is the compiled pattern tree, ready for NewWalker
	Grammar *patterns.Grammar
	// Warnings holds non-fatal load problems, currently only datatype
	// degradations under WithAllowIncompleteTypes
	Warnings []issues.Issue
	// SourcePath is the input path, or "<reader>" for reader input
	SourcePath string
	// SourceSize is the size of the schema file in bytes
	SourceSize int64
	// LoadTime is the time taken to read, decode and link the grammar
	LoadTime time.Duration
}

// Option is a function that configures a load operation.
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation.
type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader

	allowIncompleteTypes bool
	quietIncompleteTypes bool
	logger               Logger
	maxDepth             int
	maxFileSize          int64
}

// WithFilePath specifies a schema file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &rngerrors.ConfigError{Option: "WithReader", Message: "reader must not be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithAllowIncompleteTypes degrades datatypes this build does not
// implement to token semantics instead of failing the load. Each
// degradation is recorded as a warning on the Result.
// Default: false (unknown datatypes are fatal).
func WithAllowIncompleteTypes(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.allowIncompleteTypes = enabled
		return nil
	}
}

// WithQuietIncompleteTypes suppresses the warnings recorded by
// WithAllowIncompleteTypes. It has no effect unless that option is on.
// Default: false.
func WithQuietIncompleteTypes(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.quietIncompleteTypes = enabled
		return nil
	}
}

// WithLogger sets the structured logger for debug output.
// Default: no logging.
func WithLogger(logger Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithMaxDepth overrides the maximum pattern nesting depth.
// Default: 2000.
func WithMaxDepth(depth int) Option {
	return func(cfg *loadConfig) error {
		if depth <= 0 {
			return &rngerrors.ConfigError{Option: "WithMaxDepth", Value: depth, Message: "must be positive"}
		}
		cfg.maxDepth = depth
		return nil
	}
}

// WithMaxFileSize overrides the maximum schema file size in bytes.
// Default: 10MB.
func WithMaxFileSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size <= 0 {
			return &rngerrors.ConfigError{Option: "WithMaxFileSize", Value: size, Message: "must be positive"}
		}
		cfg.maxFileSize = size
		return nil
	}
}

// LoadWithOptions loads a compiled grammar using functional options.
//
// Example:
//
//	result, err := loader.LoadWithOptions(
//	    loader.WithFilePath("schema.json"),
//	    loader.WithAllowIncompleteTypes(true),
//	)
func LoadWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	start := time.Now()
	var (
		data       []byte
		sourcePath string
	)
	if cfg.filePath != nil {
		sourcePath = *cfg.filePath
		data, err = readLimited(cfg, sourcePath)
	} else {
		sourcePath = "<reader>"
		data, err = readAllLimited(cfg, cfg.reader)
	}
	if err != nil {
		return nil, err
	}

	grammar, warnings, err := loadBytes(cfg, data)
	if err != nil {
		return nil, annotatePath(err, sourcePath)
	}

	cfg.logger.Info("grammar loaded",
		"source", sourcePath,
		"bytes", len(data),
		"warnings", len(warnings),
	)
	return &Result{
		Grammar:    grammar,
		Warnings:   warnings,
		SourcePath: sourcePath,
		SourceSize: int64(len(data)),
		LoadTime:   time.Since(start),
	}, nil
}

// applyOptions applies option functions and validates configuration.
func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		logger:      NopLogger{},
		maxDepth:    defaultMaxDepth,
		maxFileSize: defaultMaxFileSize,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sourceCount := 0
	if cfg.filePath != nil {
		sourceCount++
	}
	if cfg.reader != nil {
		sourceCount++
	}
	if sourceCount == 0 {
		return nil, &rngerrors.ConfigError{Message: "must specify an input source (use WithFilePath or WithReader)"}
	}
	if sourceCount > 1 {
		return nil, &rngerrors.ConfigError{Message: "must specify exactly one input source"}
	}
	return cfg, nil
}

// fileEnvelope is the outer object of the schema file.
type fileEnvelope struct {
	V int  `yaml:"v"`
	O uint `yaml:"o"`
	D any  `yaml:"d"`
}

// loadBytes decodes the envelope and builds the grammar.
func loadBytes(cfg *loadConfig, data []byte) (*patterns.Grammar, []issues.Issue, error) {
	var envelope fileEnvelope
	if err := yaml.Unmarshal(data, &envelope); err != nil {
		return nil, nil, &rngerrors.SchemaError{Message: "cannot decode schema file", Cause: err}
	}
	if envelope.V != FormatVersion {
		return nil, nil, &rngerrors.FormatVersionError{Found: envelope.V, Supported: FormatVersion}
	}
	if envelope.D == nil {
		return nil, nil, &rngerrors.SchemaError{Message: "schema file has no pattern data"}
	}

	b := &builder{
		cfg:     cfg,
		logger:  cfg.logger,
		noPaths: envelope.O&OptionNoPaths != 0,
	}
	grammar, err := b.buildGrammar(envelope.D)
	if err != nil {
		return nil, nil, err
	}
	return grammar, b.warnings, nil
}

// readLimited reads a schema file, enforcing the size limit.
func readLimited(cfg *loadConfig, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &rngerrors.SchemaError{Path: path, Message: "cannot open schema file", Cause: err}
	}
	defer func() { _ = f.Close() }()
	return readAllLimited(cfg, f)
}

// readAllLimited reads everything from r, enforcing the size limit.
func readAllLimited(cfg *loadConfig, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, cfg.maxFileSize+1))
	if err != nil {
		return nil, &rngerrors.SchemaError{Message: "cannot read schema data", Cause: err}
	}
	if int64(len(data)) > cfg.maxFileSize {
		return nil, &rngerrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        cfg.maxFileSize,
		}
	}
	return data, nil
}

// annotatePath stamps the source path onto schema errors that lack one.
func annotatePath(err error, sourcePath string) error {
	var schemaErr *rngerrors.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Path == "" {
		schemaErr.Path = sourcePath
	}
	return err
}
