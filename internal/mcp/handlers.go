// ABOUTME: MCP tool handlers for transcript cleaning and chunk previews
// ABOUTME: Runs the in-memory pipeline, no checkpoint files for MCP callers
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/transcript-tidy/internal/config"
	"github.com/harper/transcript-tidy/internal/core"
	"github.com/harper/transcript-tidy/internal/llm"
)

// Handlers contains the tool handlers and their collaborators
type Handlers struct {
	service   llm.CorrectionService
	cfg       *config.Config
	estimator *llm.TokenEstimator
}

// CleanTranscript handles the clean_transcript tool
func (h *Handlers) CleanTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	chunkSize := request.GetInt("chunk_size", h.cfg.ChunkSize)
	overlap := request.GetInt("overlap", h.cfg.Overlap)

	chunker, err := core.NewChunker(chunkSize, overlap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chunk parameters: %v", err)), nil
	}

	normalized := core.Normalize(text)
	chunks := chunker.Split(normalized)
	if len(chunks) == 0 {
		return textResult(map[string]interface{}{
			"cleaned_text": "",
			"chunks":       0,
		})
	}

	cleaned, err := core.CleanAll(ctx, h.service, chunks, h.cfg.ContextRunes, h.cfg.Delay())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cleaning failed: %v", err)), nil
	}
	merged := core.NewMerger(overlap).Merge(cleaned)

	return textResult(map[string]interface{}{
		"cleaned_text": merged,
		"chunks":       len(chunks),
		"service":      h.service.Name(),
	})
}

// PreviewChunks handles the preview_chunks tool
func (h *Handlers) PreviewChunks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	chunkSize := request.GetInt("chunk_size", h.cfg.ChunkSize)
	overlap := request.GetInt("overlap", h.cfg.Overlap)

	chunker, err := core.NewChunker(chunkSize, overlap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chunk parameters: %v", err)), nil
	}

	normalized := core.Normalize(text)
	chunks := chunker.Split(normalized)

	preview := make([]map[string]interface{}, 0, len(chunks))
	for _, chunk := range chunks {
		preview = append(preview, map[string]interface{}{
			"index":  chunk.Index,
			"start":  chunk.Start,
			"end":    chunk.End,
			"runes":  chunk.Runes(),
			"tokens": h.estimator.Estimate(chunk.Text),
		})
	}

	return textResult(map[string]interface{}{
		"total_chunks":     len(chunks),
		"normalized_runes": len([]rune(normalized)),
		"chunk_size":       chunkSize,
		"overlap":          overlap,
		"chunks":           preview,
	})
}

func textResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
