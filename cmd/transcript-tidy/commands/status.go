// ABOUTME: CLI command to show checkpoint progress for an input file
// ABOUTME: Read-only view of a run's completed and pending chunks
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/transcript-tidy/internal/checkpoint"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <input-file>",
		Short: "Show checkpoint progress for an input file",
		Long: `Show the checkpoint progress of a cleaning run.

Reads the checkpoint file beside the input and reports how many chunks
are already cleaned and which ones are still pending. Does not touch
the run lock, so it is safe while another run is in flight.

Examples:
  transcript-tidy status interview.txt
  transcript-tidy status --format json interview.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runStatus,
	}

	return cmd
}

// statusView is the progress summary for one checkpoint
type statusView struct {
	RunID       string    `json:"run_id"`
	InputFile   string    `json:"input_file"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	ChunkSize   int       `json:"chunk_size"`
	Overlap     int       `json:"overlap"`
	TotalChunks int       `json:"total_chunks"`
	Completed   int       `json:"completed"`
	Pending     []int     `json:"pending"`
	Complete    bool      `json:"complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	store := checkpoint.NewStore(inputPath)

	cp, err := store.Load()
	if err != nil {
		return err
	}
	if cp == nil {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No checkpoint found for %s\n", inputPath)
		}
		return nil
	}

	view := statusView{
		RunID:       cp.RunID,
		InputFile:   cp.InputFile,
		Provider:    cp.Provider,
		Model:       cp.Model,
		ChunkSize:   cp.ChunkSize,
		Overlap:     cp.Overlap,
		TotalChunks: cp.TotalChunks,
		Completed:   cp.CompletedCount(),
		Pending:     cp.PendingIndices(),
		Complete:    cp.IsComplete(),
		CreatedAt:   cp.CreatedAt,
		UpdatedAt:   cp.UpdatedAt,
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FIELD\tVALUE\n")
	fmt.Fprintf(w, "-----\t-----\n")
	fmt.Fprintf(w, "Run ID\t%s\n", view.RunID)
	fmt.Fprintf(w, "Service\t%s/%s\n", view.Provider, view.Model)
	fmt.Fprintf(w, "Chunk size\t%d\n", view.ChunkSize)
	fmt.Fprintf(w, "Overlap\t%d\n", view.Overlap)
	fmt.Fprintf(w, "Progress\t%d/%d chunk(s)\n", view.Completed, view.TotalChunks)
	fmt.Fprintf(w, "Started\t%s\n", formatTime(view.CreatedAt))
	fmt.Fprintf(w, "Last update\t%s\n", formatTime(view.UpdatedAt))
	w.Flush()

	if !quiet {
		if view.Complete {
			fmt.Fprintf(cmd.OutOrStdout(), "\nAll chunks cleaned; the final merge did not finish. Rerun with --resume.\n")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d chunk(s) pending. Rerun with --resume to continue.\n", len(view.Pending))
		}
	}
	return nil
}
