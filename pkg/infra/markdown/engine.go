package markdown

import (
	"context"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gen2brain/go-fitz"
	"github.com/m-fukushima/mdbatch/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// inlineImagePattern matches Markdown images whose source is an embedded
// base64 data URI. MuPDF inlines raster content this way and the payloads
// dwarf the extracted text.
var inlineImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(data:image/[^)]+\)`)

type engine struct {
	keepImages bool
}

// Option configures the conversion engine.
type Option func(*engine)

// WithInlineImages keeps embedded base64 images in the output instead of
// stripping them.
func WithInlineImages() Option {
	return func(e *engine) {
		e.keepImages = true
	}
}

// New creates the production conversion Engine. It renders each PDF page
// to HTML with MuPDF and converts the HTML to Markdown, which preserves
// headings and basic formatting rather than producing flat text.
func New(opts ...Option) interfaces.Engine {
	e := &engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToMarkdown converts raw PDF bytes into Markdown text. The document
// handle is released on every exit path.
func (e *engine) ToMarkdown(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open document")
	}
	defer doc.Close()

	converter := md.NewConverter("", true, nil)

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		html, err := doc.HTML(page, true)
		if err != nil {
			return "", goerr.Wrap(err, "failed to render page", goerr.V("page", page+1))
		}

		text, err := converter.ConvertString(html)
		if err != nil {
			return "", goerr.Wrap(err, "failed to convert page", goerr.V("page", page+1))
		}

		if !e.keepImages {
			text = inlineImagePattern.ReplaceAllString(text, "")
		}

		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String()), nil
}
