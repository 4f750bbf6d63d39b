// ABOUTME: MCP tool definitions and registration for the transcript server
// ABOUTME: Exposes transcript cleaning and chunk previews to MCP clients
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/transcript-tidy/internal/config"
	"github.com/harper/transcript-tidy/internal/llm"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, service llm.CorrectionService, cfg *config.Config) *Handlers {
	handlers := &Handlers{
		service:   service,
		cfg:       cfg,
		estimator: llm.NewTokenEstimator(),
	}

	// 1. clean_transcript - Clean a transcript end to end
	server.AddTool(mcp.Tool{
		Name:        "clean_transcript",
		Description: "Clean raw speech-to-text transcript text: fix punctuation, capitalisation, and transcription errors while preserving the speaker's voice. Long text is chunked, cleaned chunk by chunk, and merged.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw transcript text to clean",
				},
				"chunk_size": map[string]interface{}{
					"type":        "number",
					"description": "Chunk size in characters (default: configured chunk size)",
				},
				"overlap": map[string]interface{}{
					"type":        "number",
					"description": "Overlap between chunks in characters (default: configured overlap)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.CleanTranscript)

	// 2. preview_chunks - Show how text would be chunked without cleaning it
	server.AddTool(mcp.Tool{
		Name:        "preview_chunks",
		Description: "Preview how transcript text would be split into chunks: boundaries, sizes, and token estimates. Makes no service calls.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw transcript text to preview",
				},
				"chunk_size": map[string]interface{}{
					"type":        "number",
					"description": "Chunk size in characters (default: configured chunk size)",
				},
				"overlap": map[string]interface{}{
					"type":        "number",
					"description": "Overlap between chunks in characters (default: configured overlap)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.PreviewChunks)

	return handlers
}
