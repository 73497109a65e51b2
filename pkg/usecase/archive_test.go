package usecase_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/m-fukushima/mdbatch/pkg/domain/model"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// readEntries extracts the archive in entry order, later duplicates
// overwriting earlier ones, the way a normal extractor behaves.
func readEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	gt.NoError(t, err)

	entries := map[string]string{}
	for _, f := range zr.File {
		rc := gt.R1(f.Open()).NoError(t)
		content := gt.R1(io.ReadAll(rc)).NoError(t)
		gt.NoError(t, rc.Close())
		entries[f.Name] = string(content)
	}
	return entries
}

func TestBuildArchive_SuccessfulOutcomesOnly(t *testing.T) {
	outcomes := []model.Outcome{
		model.NewSuccess("report.pdf", "# Report"),
		model.NewFailure("broken.pdf", "corrupt file"),
		model.NewSuccess("docs/notes.pdf", "# Notes"),
	}

	data := gt.R1(usecase.BuildArchive(outcomes)).NoError(t)

	entries := readEntries(t, data)
	gt.Number(t, len(entries)).Equal(2)
	gt.Value(t, entries["report.md"]).Equal("# Report")
	gt.Value(t, entries["notes.md"]).Equal("# Notes")
}

func TestBuildArchive_EmptyInputs(t *testing.T) {
	t.Run("No outcomes", func(t *testing.T) {
		data := gt.R1(usecase.BuildArchive(nil)).NoError(t)
		gt.Number(t, len(readEntries(t, data))).Equal(0)
	})

	t.Run("Only failures", func(t *testing.T) {
		outcomes := []model.Outcome{
			model.NewFailure("a.pdf", "bad"),
			model.NewFailure("b.pdf", "bad"),
		}
		data := gt.R1(usecase.BuildArchive(outcomes)).NoError(t)
		gt.Number(t, len(readEntries(t, data))).Equal(0)
	})
}

func TestBuildArchive_Idempotent(t *testing.T) {
	outcomes := []model.Outcome{
		model.NewSuccess("a.pdf", "alpha"),
		model.NewSuccess("b.pdf", "beta"),
	}

	first := gt.R1(usecase.BuildArchive(outcomes)).NoError(t)
	second := gt.R1(usecase.BuildArchive(outcomes)).NoError(t)

	gt.Value(t, readEntries(t, first)).Equal(readEntries(t, second))
}

func TestBuildArchive_DuplicateNamesLastWriteWins(t *testing.T) {
	outcomes := []model.Outcome{
		model.NewSuccess("a.pdf", "first version"),
		model.NewSuccess("a.pdf", "second version"),
	}

	data := gt.R1(usecase.BuildArchive(outcomes)).NoError(t)

	zr := gt.R1(zip.NewReader(bytes.NewReader(data), int64(len(data)))).NoError(t)
	// Both entries are written; extraction order makes the later one win.
	gt.Number(t, len(zr.File)).Equal(2)
	gt.Value(t, zr.File[0].Name).Equal("a.md")
	gt.Value(t, zr.File[1].Name).Equal("a.md")

	entries := readEntries(t, data)
	gt.Value(t, entries["a.md"]).Equal("second version")
}

func TestBuildArchive_DoesNotMutateOutcomes(t *testing.T) {
	outcomes := []model.Outcome{
		model.NewSuccess("a.pdf", "alpha"),
	}

	_ = gt.R1(usecase.BuildArchive(outcomes)).NoError(t)

	gt.Value(t, outcomes[0].Filename).Equal("a.pdf")
	gt.Value(t, outcomes[0].Content).Equal("alpha")
	gt.True(t, outcomes[0].Succeeded)
}
