package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-fukushima/mdbatch/pkg/domain/interfaces"
	"github.com/m-fukushima/mdbatch/pkg/domain/model"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// multipartMemoryLimit is how much of a parsed multipart body is held in
// memory before the runtime spills parts to temporary files.
const multipartMemoryLimit = 32 << 20

// ConvertHandler handles PDF upload, conversion, and result downloads
type ConvertHandler struct {
	convertUC          interfaces.ConvertUseCase
	store              *usecase.Store
	maxUploadBytes     int64
	defaultConcurrency int
}

// NewConvertHandler creates a new ConvertHandler
func NewConvertHandler(
	convertUC interfaces.ConvertUseCase,
	store *usecase.Store,
	maxUploadBytes int64,
	defaultConcurrency int,
) *ConvertHandler {
	return &ConvertHandler{
		convertUC:          convertUC,
		store:              store,
		maxUploadBytes:     maxUploadBytes,
		defaultConcurrency: defaultConcurrency,
	}
}

// batchResponse is the JSON representation of a stored batch
type batchResponse struct {
	ID        string         `json:"id"`
	Files     []fileResponse `json:"files"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	ElapsedMS int64          `json:"elapsed_ms"`
}

// fileResponse is the JSON representation of one outcome. The converted
// text itself is downloaded separately; only its size travels here.
type fileResponse struct {
	Index        int    `json:"index"`
	Filename     string `json:"filename"`
	MarkdownName string `json:"markdown_name,omitempty"`
	Succeeded    bool   `json:"succeeded"`
	Error        string `json:"error,omitempty"`
	SizeBytes    int    `json:"size_bytes"`
}

func newBatchResponse(batch *model.BatchResult) *batchResponse {
	resp := &batchResponse{
		ID:        batch.ID,
		Files:     make([]fileResponse, len(batch.Outcomes)),
		Succeeded: batch.SucceededCount(),
		Failed:    batch.FailedCount(),
		ElapsedMS: batch.Elapsed.Milliseconds(),
	}
	for i := range batch.Outcomes {
		o := &batch.Outcomes[i]
		f := fileResponse{
			Index:     i,
			Filename:  o.Filename,
			Succeeded: o.Succeeded,
			Error:     o.Error,
			SizeBytes: len(o.Content),
		}
		if o.Succeeded {
			f.MarkdownName = o.MarkdownName()
		}
		resp.Files[i] = f
	}
	return resp
}

// HandleConvert accepts a multipart upload ("files" parts plus an optional
// "concurrency" field), converts the batch, retains the result, and
// responds with the batch summary.
func (h *ConvertHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		logger.Warn("Failed to parse multipart form", "error", err)
		writeError(w, goerr.Wrap(err, "invalid multipart form"), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, goerr.New("no files uploaded"), http.StatusBadRequest)
		return
	}

	concurrency := h.defaultConcurrency
	if v := r.FormValue("concurrency"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, goerr.Wrap(err, "invalid concurrency value"), http.StatusBadRequest)
			return
		}
		concurrency = n
	}

	files := make([]model.InputFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			logger.Error("Failed to read uploaded file",
				"filename", fh.Filename,
				"error", err,
			)
			writeError(w, goerr.Wrap(err, "failed to read uploaded file",
				goerr.V("filename", fh.Filename)), http.StatusBadRequest)
			return
		}
		files = append(files, model.InputFile{Name: fh.Filename, Data: data})
	}

	started := time.Now()
	outcomes := h.convertUC.ConvertBatch(ctx, files, concurrency)

	batch := &model.BatchResult{
		Outcomes:  outcomes,
		StartedAt: started,
		Elapsed:   time.Since(started),
	}
	h.store.Put(batch)

	logger.Info("Stored conversion batch",
		"batch_id", batch.ID,
		"files", len(outcomes),
		"succeeded", batch.SucceededCount(),
		"failed", batch.FailedCount(),
		"elapsed_ms", batch.Elapsed.Milliseconds(),
	)

	writeJSON(ctx, w, http.StatusOK, newBatchResponse(batch))
}

// HandleBatch returns the stored summary of one batch
func (h *ConvertHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.store.Get(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, goerr.New("batch not found"), http.StatusNotFound)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, newBatchResponse(batch))
}

// HandleDeleteBatch discards stored results for one batch
func (h *ConvertHandler) HandleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	if !h.store.Delete(chi.URLParam(r, "batchID")) {
		writeError(w, goerr.New("batch not found"), http.StatusNotFound)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleFile serves one converted Markdown document as a download
func (h *ConvertHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	batch, ok := h.store.Get(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, goerr.New("batch not found"), http.StatusNotFound)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(batch.Outcomes) {
		writeError(w, goerr.New("file not found"), http.StatusNotFound)
		return
	}

	outcome := &batch.Outcomes[index]
	if !outcome.Succeeded {
		writeError(w, goerr.New("conversion failed for this file",
			goerr.V("reason", outcome.Error)), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", outcome.MarkdownName()))
	if _, err := io.WriteString(w, outcome.Content); err != nil {
		ctxlog.From(ctx).Error("Failed to write file response", "error", err)
	}
}

// HandleArchive builds the ZIP of all successful outcomes on demand and
// serves it under a fixed filename
func (h *ConvertHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	batch, ok := h.store.Get(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, goerr.New("batch not found"), http.StatusNotFound)
		return
	}

	data, err := usecase.BuildArchive(batch.Outcomes)
	if err != nil {
		logger.Error("Failed to build archive", "batch_id", batch.ID, "error", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", usecase.ArchiveFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write archive response", "error", err)
	}
}

// readPart reads one uploaded part fully into memory
func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
