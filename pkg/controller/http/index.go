package http

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/m-fukushima/mdbatch/pkg/domain/types"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	Version            string
	DefaultConcurrency int
	MaxConcurrency     int
}

// HandleIndex renders the upload page
func (h *ConvertHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Version:            types.Version,
		DefaultConcurrency: h.defaultConcurrency,
		MaxConcurrency:     usecase.MaxConcurrency,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to render index page", "error", err)
	}
}
