package sc13dg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ResultSink stores the rows of processed documents. Implementations must
// be safe for concurrent use.
type ResultSink interface {
	Persist(ctx context.Context, res *DocumentResult) error
}

// Batch processes filing documents with a fixed number of workers. Each
// document is fetched, extracted and persisted independently.
type Batch struct {
	Fetcher TextFetcher
	Sink    ResultSink
	// Workers defaults to GOMAXPROCS.
	Workers int
	// Done holds Keys of documents already processed; they are skipped.
	Done   map[string]bool
	Logger *slog.Logger
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Total       int           `json:"total"`
	Skipped     int           `json:"skipped"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Unavailable int           `json:"unavailable"`
	Duration    time.Duration `json:"duration"`
}

// Run processes refs. A ref with an unsupported form type persists a
// failure row without being fetched. A document that cannot be fetched is counted as
// unavailable and not persisted, so a later run retries it. A document
// whose extraction fails persists a failure row. A sink error stops the
// batch and is returned.
func (b *Batch) Run(ctx context.Context, refs []FilingRef) (*BatchResult, error) {
	start := time.Now()
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	result := &BatchResult{Total: len(refs)}
	var mu sync.Mutex
	count := func(n *int) {
		mu.Lock()
		*n++
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ref := range refs {
		if b.Done[ref.Key()] {
			result.Skipped++
			continue
		}
		ref := ref
		g.Go(func() error {
			var res *DocumentResult
			if _, err := ParseFormType(ref.FormType); err != nil {
				res = NewDocumentResult(ref, nil, err)
			} else {
				text, err := b.Fetcher.FetchFilingText(ctx, ref)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					logger.Warn("document unavailable", "file", ref.FileName, "document", ref.Document, "error", err)
					count(&result.Unavailable)
					return nil
				}
				res = ProcessDocument(ref, text)
			}

			if !res.Index.Success {
				logger.Info("extraction failed", "file", ref.FileName, "document", ref.Document, "error", res.Index.Error)
			}
			if err := b.Sink.Persist(ctx, res); err != nil {
				return fmt.Errorf("failed to persist %s: %w", ref.Key(), err)
			}
			if res.Index.Success {
				count(&result.Succeeded)
			} else {
				count(&result.Failed)
			}
			return nil
		})
	}

	err := g.Wait()
	result.Duration = time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("batch aborted", "error", err)
	}
	logger.Info("batch finished",
		"total", result.Total,
		"skipped", result.Skipped,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"unavailable", result.Unavailable,
		"duration", result.Duration)
	return result, err
}

// ProcessDocument extracts text and builds its rows. It never returns a
// partial record set.
func ProcessDocument(ref FilingRef, text string) *DocumentResult {
	ext, err := ExtractRecords(text, ref.FormType)
	return NewDocumentResult(ref, ext, err)
}
