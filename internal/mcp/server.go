package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/content"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"lektor_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"lektor_cleanup": {
		def:     cleanupToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCleanup },
	},
	"lektor_site_config": {
		def:     siteConfigToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSiteConfig },
	},
}

var exportToolDef = mcp.NewTool("lektor_export",
	mcp.WithDescription("Export published content into a Lektor-compatible tree and optionally package it as a zip archive. Returns the run summary with the output location and any skipped items."),
	mcp.WithArray("post_types",
		mcp.Description("Content types to export (defaults to the configured types, normally post and page)"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithBoolean("zip",
		mcp.Description("Package the export tree into a zip archive"),
	),
	mcp.WithBoolean("keep",
		mcp.Description("Keep the export tree on disk after packaging"),
	),
)

var cleanupToolDef = mcp.NewTool("lektor_cleanup",
	mcp.WithDescription("Remove an export run's output directory and archive. Idempotent."),
	mcp.WithString("run_id",
		mcp.Required(),
		mcp.Description("Run identifier, with or without the wp-lektor- prefix"),
	),
)

var siteConfigToolDef = mcp.NewTool("lektor_site_config",
	mcp.WithDescription("Preview the _config.yml that an export would write, derived from the site options."),
)

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with the exporter tools registered.
func NewServer(src content.Source, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"lektorexport",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(src, cfg)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(src content.Source, cfg *config.Config, version string) error {
	s := NewServer(src, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
