package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/rngtools/internal/schemastats"
	"github.com/erraggy/rngtools/loader"
)

type inspectInput struct {
	SchemaPath           string `json:"schema_path"                      jsonschema:"Path to the compiled schema file (JSON format version 3)"`
	AllowIncompleteTypes bool   `json:"allow_incomplete_types,omitempty" jsonschema:"Degrade unimplemented datatypes to token semantics instead of failing the load"`
}

type inspectOutput struct {
	Defines  int            `json:"defines"`
	Patterns map[string]int `json:"patterns"`
	Warnings []string       `json:"warnings,omitempty"`
}

func handleInspect(_ context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	if input.SchemaPath == "" {
		return errResult(fmt.Errorf("schema_path is required")), inspectOutput{}, nil
	}

	loadOpts := []loader.Option{loader.WithFilePath(input.SchemaPath)}
	if input.AllowIncompleteTypes {
		loadOpts = append(loadOpts, loader.WithAllowIncompleteTypes(true))
	}
	loaded, err := loader.LoadWithOptions(loadOpts...)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	stats := schemastats.Collect(loaded.Grammar)
	output := inspectOutput{
		Defines:  stats.Defines,
		Patterns: stats.Patterns,
	}
	for _, warning := range loaded.Warnings {
		output.Warnings = append(output.Warnings, warning.Message)
	}
	return nil, output, nil
}
