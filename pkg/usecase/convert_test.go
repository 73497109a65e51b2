package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-fukushima/mdbatch/pkg/domain/model"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// stubEngine is a deterministic conversion engine for pipeline tests.
type stubEngine struct {
	fn func(ctx context.Context, data []byte) (string, error)
}

func (s *stubEngine) ToMarkdown(ctx context.Context, data []byte) (string, error) {
	return s.fn(ctx, data)
}

// echoEngine returns "md:<input>" after a small random delay so workers
// complete in shuffled order.
func echoEngine() *stubEngine {
	return &stubEngine{
		fn: func(ctx context.Context, data []byte) (string, error) {
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
			return "md:" + string(data), nil
		},
	}
}

func numberedFiles(n int) []model.InputFile {
	files := make([]model.InputFile, n)
	for i := range files {
		files[i] = model.InputFile{
			Name: fmt.Sprintf("file-%d.pdf", i),
			Data: []byte(strconv.Itoa(i)),
		}
	}
	return files
}

func TestBatchConverter_RequiresEngine(t *testing.T) {
	_, err := usecase.NewBatchConverter(nil)
	gt.Error(t, err)
}

func TestConvertBatch_PreservesInputOrder(t *testing.T) {
	ctx := context.Background()
	files := numberedFiles(40)

	// Out-of-range values must clamp, not deadlock or drop results.
	for _, concurrency := range []int{-3, 0, 1, 2, 4, 8, 100} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			uc := gt.R1(usecase.NewBatchConverter(echoEngine())).NoError(t)

			outcomes := uc.ConvertBatch(ctx, files, concurrency)

			gt.Number(t, len(outcomes)).Equal(len(files))
			for i, o := range outcomes {
				gt.Value(t, o.Filename).Equal(fmt.Sprintf("file-%d.pdf", i))
				gt.True(t, o.Succeeded)
				gt.Value(t, o.Content).Equal("md:" + strconv.Itoa(i))
			}
		})
	}
}

func TestConvertBatch_EmptyInput(t *testing.T) {
	uc := gt.R1(usecase.NewBatchConverter(echoEngine())).NoError(t)

	outcomes := uc.ConvertBatch(context.Background(), nil, 4)
	gt.Number(t, len(outcomes)).Equal(0)
}

func TestConvertBatch_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	engine := &stubEngine{
		fn: func(ctx context.Context, data []byte) (string, error) {
			if strings.HasPrefix(string(data), "bad") {
				return "", errors.New("cannot open broken document")
			}
			return "# converted", nil
		},
	}
	uc := gt.R1(usecase.NewBatchConverter(engine)).NoError(t)

	files := []model.InputFile{
		{Name: "report.pdf", Data: []byte("good content")},
		{Name: "broken.pdf", Data: []byte("bad content")},
		{Name: "notes.pdf", Data: []byte("good content")},
	}

	outcomes := uc.ConvertBatch(ctx, files, 2)

	gt.Number(t, len(outcomes)).Equal(3)

	gt.True(t, outcomes[0].Succeeded)
	gt.Value(t, outcomes[0].Content).Equal("# converted")
	gt.Value(t, outcomes[0].Error).Equal("")

	gt.False(t, outcomes[1].Succeeded)
	gt.Value(t, outcomes[1].Content).Equal("")
	gt.String(t, outcomes[1].Error).Contains("cannot open broken document")

	gt.True(t, outcomes[2].Succeeded)
}

func TestConvertBatch_DuplicateFilenames(t *testing.T) {
	ctx := context.Background()
	uc := gt.R1(usecase.NewBatchConverter(echoEngine())).NoError(t)

	files := []model.InputFile{
		{Name: "a.pdf", Data: []byte("first")},
		{Name: "a.pdf", Data: []byte("second")},
	}

	outcomes := uc.ConvertBatch(ctx, files, 2)

	// Positional identity survives the name collision.
	gt.Number(t, len(outcomes)).Equal(2)
	gt.Value(t, outcomes[0].Content).Equal("md:first")
	gt.Value(t, outcomes[1].Content).Equal("md:second")
}

func TestConvertBatch_EmptyContentIsFailure(t *testing.T) {
	engine := &stubEngine{
		fn: func(ctx context.Context, data []byte) (string, error) {
			return "", nil
		},
	}
	uc := gt.R1(usecase.NewBatchConverter(engine)).NoError(t)

	outcomes := uc.ConvertBatch(context.Background(), numberedFiles(1), 1)

	gt.False(t, outcomes[0].Succeeded)
	gt.String(t, outcomes[0].Error).Contains("no content")
}

func TestConvertBatch_RecoversEnginePanic(t *testing.T) {
	engine := &stubEngine{
		fn: func(ctx context.Context, data []byte) (string, error) {
			if string(data) == "0" {
				panic("engine blew up")
			}
			return "ok", nil
		},
	}
	uc := gt.R1(usecase.NewBatchConverter(engine)).NoError(t)

	outcomes := uc.ConvertBatch(context.Background(), numberedFiles(3), 2)

	gt.Number(t, len(outcomes)).Equal(3)
	gt.False(t, outcomes[0].Succeeded)
	gt.String(t, outcomes[0].Error).Contains("internal error")
	gt.True(t, outcomes[1].Succeeded)
	gt.True(t, outcomes[2].Succeeded)
}
