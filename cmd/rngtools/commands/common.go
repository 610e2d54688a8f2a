// Package commands provides CLI command handlers for rngtools.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rngtools/internal/cliutil"
	"github.com/erraggy/rngtools/loader"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Writef writes formatted output to the writer, tolerating write failures.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to w.
// Returns an error if marshaling fails.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", bytes)
	return nil
}

// IncompleteTypesMode is the parsed value of --allow-incomplete-types.
type IncompleteTypesMode string

const (
	// IncompleteTypesOff fails the load on an unimplemented datatype.
	IncompleteTypesOff IncompleteTypesMode = ""
	// IncompleteTypesWarn degrades unimplemented datatypes with a warning.
	IncompleteTypesWarn IncompleteTypesMode = "warn"
	// IncompleteTypesQuiet degrades unimplemented datatypes silently.
	IncompleteTypesQuiet IncompleteTypesMode = "quiet"
)

// ParseIncompleteTypesMode validates the --allow-incomplete-types value.
func ParseIncompleteTypesMode(value string) (IncompleteTypesMode, error) {
	switch value {
	case "", "off":
		return IncompleteTypesOff, nil
	case "warn", "true", "on":
		return IncompleteTypesWarn, nil
	case "quiet":
		return IncompleteTypesQuiet, nil
	default:
		return "", fmt.Errorf("invalid --allow-incomplete-types value '%s'. Valid values: warn, quiet", value)
	}
}

// LoaderOptions converts the mode into loader options.
func (m IncompleteTypesMode) LoaderOptions() []loader.Option {
	switch m {
	case IncompleteTypesWarn:
		return []loader.Option{loader.WithAllowIncompleteTypes(true)}
	case IncompleteTypesQuiet:
		return []loader.Option{
			loader.WithAllowIncompleteTypes(true),
			loader.WithQuietIncompleteTypes(true),
		}
	default:
		return nil
	}
}

// CheckFormatVersion enforces the --format-version flag: only the current
// format is accepted.
func CheckFormatVersion(v int) error {
	if v != loader.FormatVersion {
		return fmt.Errorf("unsupported format version %d (only %d is supported)", v, loader.FormatVersion)
	}
	return nil
}

// verboseLogger builds the debug logger behind -v/--verbose.
func verboseLogger() loader.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return loader.NewSlogAdapter(slog.New(handler))
}
