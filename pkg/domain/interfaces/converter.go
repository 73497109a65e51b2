package interfaces

import "context"

// Engine is the external document-conversion capability: raw document
// bytes in, Markdown text out. It is the only boundary where a third-party
// conversion library is invoked; every failure mode it has is recoverable
// and is turned into a failed Outcome by the use case layer.
type Engine interface {
	// ToMarkdown converts one document's raw bytes into Markdown text.
	ToMarkdown(ctx context.Context, data []byte) (string, error)
}
