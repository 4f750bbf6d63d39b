// ABOUTME: Processor drives chunks through the correction service one at a time
// ABOUTME: Persists the checkpoint after every chunk and paces calls with a delay
package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/transcript-tidy/internal/checkpoint"
	"github.com/harper/transcript-tidy/internal/llm"
	"github.com/harper/transcript-tidy/internal/models"
)

// Processor cleans pending chunks sequentially, saving progress after
// every chunk so an interrupted run can resume where it stopped.
type Processor struct {
	service      llm.CorrectionService
	store        *checkpoint.Store
	logger       *log.Logger
	delay        time.Duration
	contextRunes int
	estimator    *llm.TokenEstimator
}

// ProcessorConfig carries the collaborators and pacing for a Processor
type ProcessorConfig struct {
	Service      llm.CorrectionService
	Store        *checkpoint.Store
	Logger       *log.Logger
	Delay        time.Duration
	ContextRunes int
}

// NewProcessor creates a Processor from the given configuration
func NewProcessor(cfg ProcessorConfig) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Processor{
		service:      cfg.Service,
		store:        cfg.Store,
		logger:       logger,
		delay:        cfg.Delay,
		contextRunes: cfg.ContextRunes,
		estimator:    llm.NewTokenEstimator(),
	}
}

// Run cleans every pending chunk in index order, skipping chunks the
// checkpoint already holds. The checkpoint is saved after each chunk, so a
// failure part way through loses at most the chunk in flight. A service
// error stops the run immediately and leaves the checkpoint intact.
func (p *Processor) Run(ctx context.Context, cp *models.Checkpoint, chunks []models.Chunk) error {
	pending := make([]models.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if !cp.Done(chunk.Index) {
			pending = append(pending, chunk)
		}
	}
	if len(pending) == 0 {
		p.logger.Info("all chunks already cleaned", "total", cp.TotalChunks)
		return nil
	}
	if done := cp.CompletedCount(); done > 0 {
		p.logger.Info("resuming from checkpoint", "done", done, "remaining", len(pending))
	}

	for i, chunk := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		prior := ""
		if chunk.Index > 0 {
			prior = ContextTail(cp.Cleaned[chunk.Index-1], p.contextRunes)
		}

		p.logger.Info("cleaning chunk",
			"chunk", fmt.Sprintf("%d/%d", chunk.Index+1, cp.TotalChunks),
			"runes", chunk.Runes(),
			"tokens", p.estimator.Estimate(chunk.Text),
			"service", p.service.Name())

		cleaned, err := p.service.Clean(ctx, chunk.Text, prior)
		if err != nil {
			return fmt.Errorf("failed to clean chunk %d of %d: %w", chunk.Index+1, cp.TotalChunks, err)
		}

		cp.MarkCleaned(chunk.Index, cleaned)
		if p.store != nil {
			if err := p.store.Save(cp); err != nil {
				return fmt.Errorf("failed to save checkpoint: %w", err)
			}
			p.logger.Debug("checkpoint saved", "done", cp.CompletedCount(), "total", cp.TotalChunks)
		}

		if p.delay > 0 && i < len(pending)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay):
			}
		}
	}

	return nil
}

// CleanAll cleans chunks in memory without checkpointing, for callers that
// have no input file to resume from.
func CleanAll(ctx context.Context, svc llm.CorrectionService, chunks []models.Chunk, contextRunes int, delay time.Duration) ([]string, error) {
	cleaned := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prior := ""
		if i > 0 {
			prior = ContextTail(cleaned[i-1], contextRunes)
		}
		text, err := svc.Clean(ctx, chunk.Text, prior)
		if err != nil {
			return nil, fmt.Errorf("failed to clean chunk %d of %d: %w", i+1, len(chunks), err)
		}
		cleaned = append(cleaned, text)

		if delay > 0 && i < len(chunks)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return cleaned, nil
}
