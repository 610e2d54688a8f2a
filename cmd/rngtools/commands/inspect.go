package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/rngtools/internal/cliutil"
	"github.com/erraggy/rngtools/internal/schemastats"
	"github.com/erraggy/rngtools/loader"
)

// InspectFlags contains flags for the inspect command
type InspectFlags struct {
	Format               string
	FormatVersion        int
	AllowIncompleteTypes string
}

// SetupInspectFlags creates and configures a FlagSet for the inspect command.
func SetupInspectFlags() (*flag.FlagSet, *InspectFlags) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flags := &InspectFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.IntVar(&flags.FormatVersion, "format-version", loader.FormatVersion, "schema format version to accept")
	fs.StringVar(&flags.AllowIncompleteTypes, "allow-incomplete-types", "", "degrade unimplemented datatypes instead of failing: warn or quiet")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: rngtools inspect [flags] <schema.json>\n\n")
		cliutil.Writef(fs.Output(), "Load a compiled Relax NG schema and display its structure summary.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  rngtools inspect schema.json\n")
		cliutil.Writef(fs.Output(), "  rngtools inspect --format json schema.json | jq '.patterns'\n")
	}

	return fs, flags
}

// SchemaStats summarizes a loaded grammar.
type SchemaStats struct {
	Schema   string         `json:"schema" yaml:"schema"`
	Defines  int            `json:"defines" yaml:"defines"`
	Patterns map[string]int `json:"patterns" yaml:"patterns"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HandleInspect executes the inspect command
func HandleInspect(args []string) error {
	fs, flags := SetupInspectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("inspect command requires exactly one schema path")
	}
	schemaPath := fs.Arg(0)

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
	loaded, err := loader.LoadWithOptions(loadOpts...)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	collected := schemastats.Collect(loaded.Grammar)
	stats := &SchemaStats{Schema: schemaPath, Defines: collected.Defines, Patterns: collected.Patterns}
	for _, warning := range loaded.Warnings {
		stats.Warnings = append(stats.Warnings, warning.Message)
	}

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		return OutputStructured(os.Stdout, stats, flags.Format)
	}

	cliutil.Writef(os.Stdout, "Schema: %s\n", stats.Schema)
	cliutil.Writef(os.Stdout, "Defines: %d\n", stats.Defines)
	cliutil.Writef(os.Stdout, "Patterns:\n")
	for _, kind := range schemastats.Kinds {
		if n := stats.Patterns[kind]; n > 0 {
			cliutil.Writef(os.Stdout, "  %-12s %d\n", kind, n)
		}
	}
	for _, warning := range stats.Warnings {
		cliutil.Writef(os.Stdout, "⚠ %s\n", warning)
	}
	return nil
}
