package interfaces

import (
	"context"

	"github.com/m-fukushima/mdbatch/pkg/domain/model"
)

// ConvertUseCase defines batch conversion operations
type ConvertUseCase interface {
	// ConvertBatch converts every input file through a bounded worker pool
	// and returns exactly one Outcome per file, in input order. Individual
	// conversion failures are reported as failed Outcomes, never as errors.
	// The concurrency value is clamped to the supported range.
	ConvertBatch(ctx context.Context, files []model.InputFile, concurrency int) []model.Outcome
}
