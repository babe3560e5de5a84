// Package generation holds the image-generation provider clients. The rest
// of the system treats a provider response as an opaque payload source; wire
// schemas stay in here.
package generation

import "context"

// Request describes one image-generation call. Width/Height are the
// canonical dimensions of the chosen aspect-ratio preset; providers map them
// onto their closest supported output size.
type Request struct {
	Prompt string
	Width  int
	Height int
	// ReferenceImage optionally grounds the generation on existing pixels
	// (typically the current selection). Raw bytes, any common format.
	ReferenceImage []byte
}

// Result is an inline generated image.
type Result struct {
	Data     []byte
	MimeType string
}

// Provider is a single image-generation backend.
type Provider interface {
	Name() string
	GenerateImage(ctx context.Context, req Request) (*Result, error)
	// OptimizePrompt rewrites a user prompt with the provider's text model,
	// optionally grounded on a reference image.
	OptimizePrompt(ctx context.Context, prompt string, referenceImage []byte) (string, error)
}
