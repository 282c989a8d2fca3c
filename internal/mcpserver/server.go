// Package mcpserver exposes the knowledge graph over the Model Context
// Protocol on stdio. Each tool follows the same pattern: a struct with
// dependencies injected via constructor, Definition() returning the
// mcp.Tool schema, and Handle() processing the request.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"kindex/kin/internal/retrieve"
	"kindex/kin/internal/store"
)

// Version is reported in the MCP handshake.
const Version = "0.3.0"

// New builds the MCP server with all graph tools registered. The caller
// owns the store and must close it after the server stops.
func New(s *store.Store) *server.MCPServer {
	engine := retrieve.NewEngine(s)

	srv := server.NewMCPServer(
		"kin",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Kin is a personal knowledge graph. Use kin_search to find nodes, "+
				"kin_context for a token-budgeted context block, kin_add to record "+
				"new knowledge, and kin_link to connect nodes.",
		),
	)

	searchTool := NewSearchTool(engine)
	srv.AddTool(searchTool.Definition(), searchTool.Handle)

	addTool := NewAddTool(s)
	srv.AddTool(addTool.Definition(), addTool.Handle)

	contextTool := NewContextTool(engine)
	srv.AddTool(contextTool.Definition(), contextTool.Handle)

	showTool := NewShowTool(s)
	srv.AddTool(showTool.Definition(), showTool.Handle)

	linkTool := NewLinkTool(s)
	srv.AddTool(linkTool.Definition(), linkTool.Handle)

	statsTool := NewStatsTool(s)
	srv.AddTool(statsTool.Definition(), statsTool.Handle)

	return srv
}

// ServeStdio runs the server on stdin/stdout until the client hangs up.
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}
