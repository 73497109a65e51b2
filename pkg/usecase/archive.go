package usecase

import (
	"archive/zip"
	"bytes"

	"github.com/m-fukushima/mdbatch/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ArchiveFilename is the fixed download name for the bulk archive.
const ArchiveFilename = "converted_markdown_files.zip"

// BuildArchive packages the successful outcomes into a single ZIP blob,
// one deflate-compressed entry per file, named by MarkdownName. Failed or
// empty outcomes are skipped silently; an input with no successes yields a
// valid zero-entry archive. Duplicate entry names are written as-is, so
// extraction is last-write-wins.
//
// The function is pure: it never mutates the outcomes and the same input
// always yields an archive with the same entries.
func BuildArchive(outcomes []model.Outcome) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i := range outcomes {
		o := &outcomes[i]
		if !o.Succeeded || o.Content == "" {
			continue
		}

		w, err := zw.Create(o.MarkdownName())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create archive entry",
				goerr.V("entry", o.MarkdownName()))
		}
		if _, err := w.Write([]byte(o.Content)); err != nil {
			return nil, goerr.Wrap(err, "failed to write archive entry",
				goerr.V("entry", o.MarkdownName()))
		}
	}

	if err := zw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize archive")
	}

	return buf.Bytes(), nil
}
