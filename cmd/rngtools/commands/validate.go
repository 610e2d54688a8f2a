package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erraggy/rngtools"
	"github.com/erraggy/rngtools/internal/cliutil"
	"github.com/erraggy/rngtools/loader"
	"github.com/erraggy/rngtools/xmlevents"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Quiet                bool
	Format               string
	FormatVersion        int
	AllowIncompleteTypes string
	Timing               bool
	Verbose              bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.IntVar(&flags.FormatVersion, "format-version", loader.FormatVersion, "schema format version to accept")
	fs.StringVar(&flags.AllowIncompleteTypes, "allow-incomplete-types", "", "degrade unimplemented datatypes instead of failing: warn or quiet")
	fs.BoolVar(&flags.Timing, "timing", false, "report load and validation timing")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose output")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose output")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: rngtools validate [flags] <schema.json> <document.xml|->\n\n")
		cliutil.Writef(fs.Output(), "Validate an XML document against a compiled Relax NG schema.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  rngtools validate schema.json doc.xml\n")
		cliutil.Writef(fs.Output(), "  rngtools validate -q schema.json doc.xml\n")
		cliutil.Writef(fs.Output(), "  cat doc.xml | rngtools validate schema.json -\n")
		cliutil.Writef(fs.Output(), "  rngtools validate --format json schema.json doc.xml | jq '.valid'\n")
		cliutil.Writef(fs.Output(), "  rngtools validate --allow-incomplete-types=quiet schema.json doc.xml\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Document is valid\n")
		cliutil.Writef(fs.Output(), "  1    Document is invalid or a fatal condition occurred\n")
	}

	return fs, flags
}

// validateOutput is the structured output shape for json/yaml formats.
type validateOutput struct {
	Valid      bool            `json:"valid" yaml:"valid"`
	Schema     string          `json:"schema" yaml:"schema"`
	Document   string          `json:"document" yaml:"document"`
	ErrorCount int             `json:"error_count" yaml:"error_count"`
	Issues     []validateIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

type validateIssue struct {
	Kind     string `json:"kind" yaml:"kind"`
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	Severity string `json:"severity" yaml:"severity"`
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("validate command requires a schema path and a document path (or '-' for stdin)")
	}
	schemaPath := fs.Arg(0)
	docPath := fs.Arg(1)

	// Validate flags early to fail fast before expensive operations
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if err := CheckFormatVersion(flags.FormatVersion); err != nil {
		return err
	}
	mode, err := ParseIncompleteTypesMode(flags.AllowIncompleteTypes)
	if err != nil {
		return err
	}

	loadOpts := append([]loader.Option{loader.WithFilePath(schemaPath)}, mode.LoaderOptions()...)
	if flags.Verbose {
		loadOpts = append(loadOpts, loader.WithLogger(verboseLogger()))
	}

	loadStart := time.Now()
	loaded, err := loader.LoadWithOptions(loadOpts...)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	loadTime := time.Since(loadStart)

	var result *xmlevents.Result
	if docPath == StdinFilePath {
		result, err = xmlevents.ValidateReader(loaded.Grammar, os.Stdin)
	} else {
		result, err = xmlevents.ValidateFile(loaded.Grammar, docPath)
	}
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		out := validateOutput{
			Valid:      result.Valid,
			Schema:     schemaPath,
			Document:   docPath,
			ErrorCount: result.ErrorCount,
		}
		for _, issue := range result.Issues {
			out.Issues = append(out.Issues, validateIssue{
				Kind:     issue.Kind.String(),
				Path:     issue.Path,
				Message:  issue.Message,
				Line:     issue.Line,
				Column:   issue.Column,
				Severity: issue.Severity.String(),
			})
		}
		if err := OutputStructured(os.Stdout, out, flags.Format); err != nil {
			return err
		}
		if !result.Valid {
			os.Exit(1)
		}
		return nil
	}

	// Text format output (always to stderr, so stdout stays pipeable)
	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "Relax NG Validator\n")
		cliutil.Writef(os.Stderr, "==================\n\n")
		cliutil.Writef(os.Stderr, "rngtools version: %s\n", rngtools.Version())
		cliutil.Writef(os.Stderr, "Schema: %s\n", schemaPath)
		if docPath == StdinFilePath {
			cliutil.Writef(os.Stderr, "Document: <stdin>\n")
		} else {
			cliutil.Writef(os.Stderr, "Document: %s\n", docPath)
		}
		if flags.Timing {
			cliutil.Writef(os.Stderr, "Load Time: %v\n", loadTime)
			cliutil.Writef(os.Stderr, "Validate Time: %v\n", result.ValidateTime)
		}
		cliutil.Writef(os.Stderr, "\n")

		for _, warning := range loaded.Warnings {
			cliutil.Writef(os.Stderr, "  %s\n", warning.String())
		}
		for _, issue := range result.Issues {
			cliutil.Writef(os.Stderr, "  %s\n", issue.String())
		}
		if len(loaded.Warnings)+len(result.Issues) > 0 {
			cliutil.Writef(os.Stderr, "\n")
		}

		if result.Valid {
			cliutil.Writef(os.Stderr, "✓ Document is valid\n")
		} else {
			cliutil.Writef(os.Stderr, "✗ Document is invalid: %d error%s\n",
				result.ErrorCount, cliutil.Plural(result.ErrorCount))
		}
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}
