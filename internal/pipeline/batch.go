// Package pipeline drives chunked extraction against the remote model:
// fixed-size batches with bounded concurrency, per-call pacing, a retry
// policy per error kind, and an ordered merge of the results. Small
// batches plus fixed pacing plus backoff is deliberate admission
// control against a quota-limited dependency.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"manualqa/internal/extract"
	"manualqa/internal/manual"
)

// Extractor is the external extraction collaborator: one chunk prompt
// in, one structured result out. Single-shot; the batcher owns retries.
type Extractor interface {
	ExtractChunk(ctx context.Context, prompt string) (manual.ExtractionResult, error)
}

// BatchConfig controls pacing and retry behavior.
type BatchConfig struct {
	BatchSize int           // Chunks dispatched concurrently per batch.
	PaceDelay time.Duration // Wait before each call; inter-batch cooldown is twice this.
	Retry     Policy
}

func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize: 2,
		PaceDelay: 5 * time.Second,
		Retry: Policy{
			MaxAttempts: 3,
			Delay:       2 * time.Second,
		},
	}
}

// ChunkError is the terminal failure for one chunk after its retry
// budget is exhausted. It aborts the whole Process call: a partial
// summary is never served as if complete.
type ChunkError struct {
	Index    int   // Position in the input chunk sequence
	Page     int   // Source page of the failing chunk
	Attempts int   // Calls actually made before giving up
	Err      error // Last underlying cause
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d (page %d) failed after %d attempts: %s", e.Index, e.Page, e.Attempts, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// Batcher submits chunks to the extraction service in order-preserving
// batches.
type Batcher struct {
	client Extractor
	cfg    BatchConfig
	log    *slog.Logger
}

func NewBatcher(client Extractor, cfg BatchConfig, log *slog.Logger) *Batcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 2
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	return &Batcher{client: client, cfg: cfg, log: log}
}

// Process runs every chunk through the extraction client and returns
// results in input order: results[i] corresponds to chunks[i]. Within a
// batch, calls run concurrently (bounded by the batch size) and every
// call waits the pacing delay first. A chunk that exhausts its retry
// budget fails the whole call with a *ChunkError.
func (b *Batcher) Process(ctx context.Context, chunks []manual.Chunk) ([]manual.ExtractionResult, error) {
	results := make([]manual.ExtractionResult, len(chunks))
	errs := make([]error, len(chunks))
	attempts := make([]int, len(chunks))

	for start := 0; start < len(chunks); start += b.cfg.BatchSize {
		end := start + b.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := sleepCtx(ctx, b.cfg.PaceDelay); err != nil {
					errs[i] = err
					return
				}
				prompt := extract.BuildChunkPrompt(chunks[i].Text)
				attempts[i], errs[i] = b.cfg.Retry.Do(ctx, func() error {
					res, err := b.client.ExtractChunk(ctx, prompt)
					if err != nil {
						return err
					}
					results[i] = res
					return nil
				})
			}(i)
		}
		wg.Wait()

		// Join the batch before judging it so the ordered output is
		// assembled from completed calls, never streamed.
		for i := start; i < end; i++ {
			if errs[i] == nil {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &ChunkError{
				Index:    i,
				Page:     chunks[i].SourcePage,
				Attempts: attempts[i],
				Err:      errs[i],
			}
		}

		b.log.Debug("batch extracted", "from", start, "to", end-1, "total", len(chunks))

		if end < len(chunks) {
			if err := sleepCtx(ctx, 2*b.cfg.PaceDelay); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
