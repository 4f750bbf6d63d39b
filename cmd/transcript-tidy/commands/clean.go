// ABOUTME: The cleaning pipeline behind the root command
// ABOUTME: Normalize, chunk, clean chunk by chunk with checkpoints, merge, write
package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/transcript-tidy/internal/checkpoint"
	"github.com/harper/transcript-tidy/internal/config"
	"github.com/harper/transcript-tidy/internal/core"
	"github.com/harper/transcript-tidy/internal/llm"
	"github.com/harper/transcript-tidy/internal/models"
	"github.com/harper/transcript-tidy/internal/util"
)

var (
	cleanOutput    string
	cleanAPIKey    string
	cleanProvider  string
	cleanModel     string
	cleanChunkSize int
	cleanOverlap   int
	cleanDelay     float64
	cleanGlossary  string
	cleanResume    bool
	cleanDryRun    bool
)

// addCleanFlags registers the cleaning flags on the root command
func addCleanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "Output file (default: <input>_cleaned beside the input)")
	cmd.Flags().StringVar(&cleanAPIKey, "api-key", "", "API key (default: provider's environment variable)")
	cmd.Flags().StringVar(&cleanProvider, "provider", config.DefaultProvider, "Correction provider: anthropic or openai")
	cmd.Flags().StringVar(&cleanModel, "model", "", "Model identifier (default: provider's default)")
	cmd.Flags().IntVar(&cleanChunkSize, "chunk-size", config.DefaultChunkSize, "Chunk size in characters")
	cmd.Flags().IntVar(&cleanOverlap, "overlap", config.DefaultOverlap, "Overlap between chunks in characters")
	cmd.Flags().Float64Var(&cleanDelay, "delay", config.DefaultDelaySeconds, "Seconds to pause between service calls")
	cmd.Flags().StringVar(&cleanGlossary, "glossary", "", "Glossary file of proper nouns for the correction prompt")
	cmd.Flags().BoolVar(&cleanResume, "resume", false, "Resume from an existing checkpoint")
	cmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show chunk boundaries without calling the service")
}

// applyCleanFlags overlays flags the user actually set onto the loaded
// configuration. The provider flag is applied before the API key is
// re-resolved, so --provider openai picks up OPENAI_API_KEY.
func applyCleanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("provider") {
		cfg.Provider = cleanProvider
		cfg.APIKey = config.APIKeyFromEnv(cfg.Provider)
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = cleanModel
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = cleanChunkSize
	}
	if cmd.Flags().Changed("overlap") {
		cfg.Overlap = cleanOverlap
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySeconds = cleanDelay
	}
	if cmd.Flags().Changed("glossary") {
		cfg.Glossary = cleanGlossary
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = cleanAPIKey
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyCleanFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()
	inputPath := args[0]

	normalized, err := readNormalized(inputPath)
	if err != nil {
		return err
	}
	if normalized == "" {
		return fmt.Errorf("input file %s is empty after normalization", inputPath)
	}

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.Overlap)
	if err != nil {
		return err
	}
	chunks := chunker.Split(normalized)

	logger.Info("chunked input",
		"file", inputPath,
		"runes", len([]rune(normalized)),
		"chunks", len(chunks),
		"chunk_size", cfg.ChunkSize,
		"overlap", cfg.Overlap)

	estimator := llm.NewTokenEstimator()
	for _, chunk := range chunks {
		if est := estimator.Estimate(chunk.Text); est > cfg.MaxTokens {
			logger.Warn("chunk estimate exceeds the response budget",
				"chunk", chunk.Index,
				"tokens", est,
				"max_tokens", cfg.MaxTokens,
				"hint", "lower --chunk-size or raise max_tokens")
		}
	}

	if cleanDryRun {
		return printChunkPreview(cmd, chunks, normalized, cfg)
	}

	outputPath := cleanOutput
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	model := cfg.Model
	if model == "" {
		model = llm.DefaultModel(cfg.Provider)
	}

	store := checkpoint.NewStore(inputPath)
	if err := store.Acquire(); err != nil {
		return err
	}
	defer store.Release()

	var cp *models.Checkpoint
	if cleanResume {
		cp, err = store.Resume(cfg.ChunkSize, cfg.Overlap, len(chunks))
		if err != nil {
			if errors.Is(err, checkpoint.ErrStale) {
				return fmt.Errorf("%w; rerun without --resume to discard it and start fresh", err)
			}
			return err
		}
		if cp != nil && cp.Model != model {
			return fmt.Errorf("%w: checkpoint was cleaned with %s, this run uses %s; rerun without --resume to start fresh",
				checkpoint.ErrStale, cp.Model, model)
		}
		if cp == nil {
			logger.Info("no checkpoint found, starting fresh", "file", inputPath)
		}
	} else if existing, lerr := store.Load(); lerr == nil && existing != nil {
		logger.Warn("existing checkpoint will be overwritten",
			"path", store.Path(),
			"done", existing.CompletedCount(),
			"hint", "pass --resume to continue it")
	}
	if cp == nil {
		cp = models.NewCheckpoint(inputPath, cfg.Provider, model, cfg.ChunkSize, cfg.Overlap, len(chunks))
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

	processor := core.NewProcessor(core.ProcessorConfig{
		Service:      service,
		Store:        store,
		Logger:       logger,
		Delay:        cfg.Delay(),
		ContextRunes: cfg.ContextRunes,
	})
	if err := processor.Run(cmd.Context(), cp, chunks); err != nil {
		return fmt.Errorf("%w; progress is saved, rerun with --resume to continue", err)
	}

	merged := core.NewMerger(cfg.Overlap).Merge(cp.CleanedInOrder())
	if err := util.WriteFileAtomic(outputPath, []byte(merged+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := store.Clear(); err != nil {
		logger.Warn("could not remove checkpoint", "err", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleaned %d chunk(s) into %s\n", cp.TotalChunks, outputPath)
	}
	return nil
}

// defaultOutputPath places the cleaned file beside the input, keeping
// the extension: talk.txt -> talk_cleaned.txt.
func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_cleaned" + ext
}
