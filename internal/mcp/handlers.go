package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/content"
	"github.com/staticpress/lektorexport/internal/errors"
	"github.com/staticpress/lektorexport/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	src content.Source
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(src content.Source, cfg *config.Config) *Handlers {
	return &Handlers{src: src, cfg: cfg}
}

// Request types for each tool

// ExportRequest represents the arguments for lektor_export.
type ExportRequest struct {
	PostTypes []string `json:"post_types,omitempty"`
	Zip       bool     `json:"zip,omitempty"`
	Keep      bool     `json:"keep,omitempty"`
}

// CleanupRequest represents the arguments for lektor_cleanup.
type CleanupRequest struct {
	RunID string `json:"run_id"`
}

// HandleExport handles the lektor_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.src, h.cfg, ops.ExportInput{
		Types: input.PostTypes,
		Zip:   input.Zip,
		Keep:  input.Keep,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCleanup handles the lektor_cleanup tool call.
func (h *Handlers) HandleCleanup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CleanupRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Cleanup(h.cfg, ops.CleanupInput{RunID: input.RunID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSiteConfig handles the lektor_site_config tool call.
func (h *Handlers) HandleSiteConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := h.src.SiteOptions(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	data, err := ops.SiteConfigYAML(opts)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"filename": ops.SiteConfigFilename,
		"yaml":     string(data),
		"site":     opts,
	})
}

// errorResult wraps a typed error as an MCP error result.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if eErr, ok := err.(*errors.ExportError); ok {
		errorObj := map[string]any{
			"code":    eErr.Code,
			"message": eErr.Message,
			"status":  eErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if eErr.Code != errors.ErrInternal && eErr.Details != nil {
			errorObj["details"] = eErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	body, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(body)}},
		IsError: true,
	}
}

// successResult wraps a payload as a JSON MCP result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
