package usecase

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-fukushima/mdbatch/pkg/domain/interfaces"
	"github.com/m-fukushima/mdbatch/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// MaxConcurrency is the upper bound of the worker pool size. Requested
// values outside [1, MaxConcurrency] are clamped, never rejected.
const MaxConcurrency = 8

type batchConverter struct {
	engine interfaces.Engine
}

// NewBatchConverter creates a new instance of ConvertUseCase backed by the
// given conversion engine.
func NewBatchConverter(engine interfaces.Engine) (interfaces.ConvertUseCase, error) {
	if engine == nil {
		return nil, goerr.New("conversion engine is required")
	}
	return &batchConverter{engine: engine}, nil
}

// ConvertBatch fans the input files out across a pool of worker goroutines
// and collects the results. Workers complete in arbitrary order; each job
// carries its input index so the returned slice is reconstructed in input
// order. Position is tracked by index rather than filename because
// filenames may repeat within a batch.
func (uc *batchConverter) ConvertBatch(ctx context.Context, files []model.InputFile, concurrency int) []model.Outcome {
	logger := ctxlog.From(ctx)

	outcomes := make([]model.Outcome, len(files))
	if len(files) == 0 {
		return outcomes
	}

	workers := clampConcurrency(concurrency)
	if workers > len(files) {
		workers = len(files)
	}

	logger.Info("Starting batch conversion",
		"files", len(files),
		"workers", workers,
	)

	type job struct {
		index int
		file  model.InputFile
	}
	type result struct {
		index   int
		outcome model.Outcome
	}

	jobs := make(chan job)
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- result{index: j.index, outcome: uc.convertOne(ctx, j.file)}
			}
		}()
	}

	for i, f := range files {
		jobs <- job{index: i, file: f}
	}
	close(jobs)

	// The batch runs to completion: no mid-batch cancellation.
	wg.Wait()
	close(results)

	for r := range results {
		outcomes[r.index] = r.outcome
	}

	logger.Info("Batch conversion complete",
		"files", len(files),
		"succeeded", succeededCount(outcomes),
	)

	return outcomes
}

// convertOne converts a single file and never lets a failure escape: engine
// errors and panics both become failed Outcomes so one file can never take
// down its siblings.
func (uc *batchConverter) convertOne(ctx context.Context, file model.InputFile) (out model.Outcome) {
	logger := ctxlog.From(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic during conversion",
				"filename", file.Name,
				"recover", r,
				"stack", string(debug.Stack()),
			)
			out = model.NewFailure(file.Name, "internal error during conversion")
		}
	}()

	text, err := uc.engine.ToMarkdown(ctx, file.Data)
	if err != nil {
		logger.Warn("Conversion failed",
			"filename", file.Name,
			"size_bytes", len(file.Data),
			"error", err,
		)
		return model.NewFailure(file.Name, err.Error())
	}
	if text == "" {
		return model.NewFailure(file.Name, "conversion produced no content")
	}

	logger.Debug("Converted file",
		"filename", file.Name,
		"size_bytes", len(file.Data),
		"markdown_bytes", len(text),
	)

	return model.NewSuccess(file.Name, text)
}

// clampConcurrency forces the worker count into [1, MaxConcurrency].
func clampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}

func succeededCount(outcomes []model.Outcome) int {
	n := 0
	for i := range outcomes {
		if outcomes[i].Succeeded {
			n++
		}
	}
	return n
}
