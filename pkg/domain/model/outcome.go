package model

import (
	"path"
	"strings"
)

// InputFile is one uploaded document: the user-supplied name and the raw
// bytes. The name is a label only and is never interpreted as a path.
type InputFile struct {
	Name string
	Data []byte
}

// Outcome represents the result of converting one file. Exactly one of
// Content and Error is populated, determined by Succeeded.
type Outcome struct {
	Filename  string `json:"filename"`        // Original input filename
	Content   string `json:"-"`               // Converted Markdown text (success only)
	Succeeded bool   `json:"succeeded"`       // Whether conversion produced text
	Error     string `json:"error,omitempty"` // Failure description (failure only)
}

// NewSuccess creates a successful Outcome carrying the converted text.
func NewSuccess(filename, content string) Outcome {
	return Outcome{
		Filename:  filename,
		Content:   content,
		Succeeded: true,
	}
}

// NewFailure creates a failed Outcome carrying a human-readable message.
func NewFailure(filename, message string) Outcome {
	return Outcome{
		Filename:  filename,
		Succeeded: false,
		Error:     message,
	}
}

// MarkdownName returns the archive/download entry name for this outcome:
// directory components are stripped and the final extension is replaced
// with ".md". Duplicate input names therefore collide; callers accept
// last-write-wins.
func (o *Outcome) MarkdownName() string {
	return MarkdownName(o.Filename)
}

// MarkdownName derives a Markdown filename from an arbitrary user-supplied
// filename. Backslashes are treated as separators so Windows-style paths
// are also reduced to their base name.
func MarkdownName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem + ".md"
}
