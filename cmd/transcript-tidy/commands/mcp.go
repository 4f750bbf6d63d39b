// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to clean transcripts via stdio
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/transcript-tidy/internal/config"
	"github.com/harper/transcript-tidy/internal/llm"
	"github.com/harper/transcript-tidy/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents.

Runs transcript-tidy as an MCP (Model Context Protocol) server,
exposing clean_transcript and preview_chunks tools over stdio.
Cleaning happens in memory; no checkpoint files are written.

The correction provider's API key must be configured, the same as for
a normal cleaning run.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  transcript-tidy mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "transcript-tidy": {
  #       "command": "transcript-tidy",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	glossary := ""
	if cfg.Glossary != "" {
		data, err := os.ReadFile(cfg.Glossary)
		if err != nil {
			return fmt.Errorf("failed to read glossary file: %w", err)
		}
		glossary = string(data)
	}

	service, err := llm.NewService(llm.ServiceConfig{
		Provider:  cfg.Provider,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.Timeout(),
		Prompts:   llm.NewPromptBuilder(glossary),
	})
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("transcript-tidy", versionInfo.Version)
	mcp.RegisterTools(server, service, cfg)

	if !quiet {
		logger.Info("MCP server starting on stdio", "service", service.Name())
	}

	// Serve until the client closes stdio or the command context is
	// cancelled by a shutdown signal.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-cmd.Context().Done():
		if !quiet {
			logger.Info("shutdown signal received")
		}
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
