// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes rngtools capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/rngtools"
)

const serverInstructions = `rngtools MCP server — validates XML documents against compiled Relax NG schemas.

Schemas must be pre-compiled to the JSON schema format (version 3) by an external
conversion tool; the server does not read .rng files directly.

Tools:
- validate: validate an XML document (file path or inline content) against a schema file
- inspect: load a schema file and return a structure summary

Datatypes this build does not implement fail the load by default; pass
allow_incomplete_types to degrade them to token semantics instead.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "rngtools", Version: rngtools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an XML document against a compiled Relax NG schema (JSON format version 3). Provide the schema as a file path and the document as either a file path or inline content. Returns validation issues with element paths and line/column positions.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Load a compiled Relax NG schema (JSON format version 3) and return a structure summary: define count and pattern counts by kind. Useful to confirm a schema compiles before validating documents against it.",
	}, handleInspect)
}

// errResult renders a fatal condition as a tool error result.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
