package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/rngtools/loader"
	"github.com/erraggy/rngtools/xmlevents"
)

type validateInput struct {
	SchemaPath           string `json:"schema_path"                      jsonschema:"Path to the compiled schema file (JSON format version 3)"`
	DocumentPath         string `json:"document_path,omitempty"          jsonschema:"Path to the XML document to validate"`
	DocumentContent      string `json:"document_content,omitempty"       jsonschema:"Inline XML document content (alternative to document_path)"`
	AllowIncompleteTypes bool   `json:"allow_incomplete_types,omitempty" jsonschema:"Degrade unimplemented datatypes to token semantics instead of failing the load"`
	Limit                int    `json:"limit,omitempty"                  jsonschema:"Maximum number of issues to return (default 100)"`
}

type validateIssue struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type validateOutput struct {
	Valid      bool            `json:"valid"`
	ErrorCount int             `json:"error_count"`
	Returned   int             `json:"returned"`
	Issues     []validateIssue `json:"issues,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	if input.SchemaPath == "" {
		return errResult(fmt.Errorf("schema_path is required")), validateOutput{}, nil
	}
	hasPath := input.DocumentPath != ""
	hasContent := input.DocumentContent != ""
	if hasPath == hasContent {
		return errResult(fmt.Errorf("exactly one of document_path or document_content is required")), validateOutput{}, nil
	}

	loadOpts := []loader.Option{loader.WithFilePath(input.SchemaPath)}
	if input.AllowIncompleteTypes {
		loadOpts = append(loadOpts, loader.WithAllowIncompleteTypes(true))
	}
	loaded, err := loader.LoadWithOptions(loadOpts...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	var result *xmlevents.Result
	if hasPath {
		result, err = xmlevents.ValidateFile(loaded.Grammar, input.DocumentPath)
	} else {
		result, err = xmlevents.ValidateReader(loaded.Grammar, strings.NewReader(input.DocumentContent))
	}
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 100
	}

	output := validateOutput{
		Valid:      result.Valid,
		ErrorCount: result.ErrorCount,
	}
	for _, warning := range loaded.Warnings {
		output.Warnings = append(output.Warnings, warning.Message)
	}
	for i, issue := range result.Issues {
		if i >= limit {
			break
		}
		output.Issues = append(output.Issues, validateIssue{
			Kind:    issue.Kind.String(),
			Path:    issue.Path,
			Message: issue.Message,
			Line:    issue.Line,
			Column:  issue.Column,
		})
	}
	output.Returned = len(output.Issues)
	return nil, output, nil
}
