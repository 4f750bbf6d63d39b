// ABOUTME: CLI command to inspect chunk boundaries
// ABOUTME: Shows how an input file would be cut, without any service calls
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/transcript-tidy/internal/config"
	"github.com/harper/transcript-tidy/internal/core"
	"github.com/harper/transcript-tidy/internal/llm"
	"github.com/harper/transcript-tidy/internal/models"
)

var (
	chunksSize    int
	chunksOverlap int
)

// NewChunksCmd creates the chunks command
func NewChunksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunks <input-file>",
		Short: "Preview chunk boundaries for an input file",
		Long: `Preview how an input file would be split into chunks.

Shows each chunk's rune offsets, length, and an estimated token count.
Nothing is sent to the correction service.

Examples:
  transcript-tidy chunks interview.txt
  transcript-tidy chunks --chunk-size 4000 --overlap 300 talk.txt
  transcript-tidy chunks --format json talk.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runChunks,
	}

	cmd.Flags().IntVar(&chunksSize, "chunk-size", config.DefaultChunkSize, "Chunk size in characters")
	cmd.Flags().IntVar(&chunksOverlap, "overlap", config.DefaultOverlap, "Overlap between chunks in characters")

	return cmd
}

func runChunks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = chunksSize
	}
	if cmd.Flags().Changed("overlap") {
		cfg.Overlap = chunksOverlap
	}

	normalized, err := readNormalized(args[0])
	if err != nil {
		return err
	}

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.Overlap)
	if err != nil {
		return err
	}

	return printChunkPreview(cmd, chunker.Split(normalized), normalized, cfg)
}

// chunkPreview is one row of the chunks table
type chunkPreview struct {
	Index  int    `json:"index"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Runes  int    `json:"runes"`
	Tokens int    `json:"tokens"`
	Head   string `json:"head"`
}

// printChunkPreview renders chunk boundaries as a table or JSON. Shared
// by the chunks command and the root command's --dry-run.
func printChunkPreview(cmd *cobra.Command, chunks []models.Chunk, normalized string, cfg *config.Config) error {
	estimator := llm.NewTokenEstimator()

	previews := make([]chunkPreview, 0, len(chunks))
	for _, chunk := range chunks {
		previews = append(previews, chunkPreview{
			Index:  chunk.Index,
			Start:  chunk.Start,
			End:    chunk.End,
			Runes:  chunk.Runes(),
			Tokens: estimator.Estimate(chunk.Text),
			Head:   truncate(chunk.Text, 40),
		})
	}

	if outputFormat == "json" {
		out := map[string]interface{}{
			"total_chunks":     len(chunks),
			"normalized_runes": len([]rune(normalized)),
			"chunk_size":       cfg.ChunkSize,
			"overlap":          cfg.Overlap,
			"chunks":           previews,
		}
		jsonData, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "INDEX\tSTART\tEND\tRUNES\tTOKENS\tHEAD\n")
	fmt.Fprintf(w, "-----\t-----\t---\t-----\t------\t----\n")
	for _, p := range previews {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%s\n", p.Index, p.Start, p.End, p.Runes, p.Tokens, p.Head)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d chunk(s) over %d runes (size %d, overlap %d)\n",
			len(chunks), len([]rune(normalized)), cfg.ChunkSize, cfg.Overlap)
	}
	return nil
}
