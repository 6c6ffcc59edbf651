package outbound

import "context"

// TextRequest is a single-turn text completion request.
type TextRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// TextGeneratorPort produces text completions.
type TextGeneratorPort interface {
	Complete(ctx context.Context, req *TextRequest) (string, error)
}

// Image is a binary image payload.
type Image struct {
	Data        []byte
	ContentType string
}

// ImageGeneratorPort synthesizes and edits images.
type ImageGeneratorPort interface {
	// Generate creates an image from a prompt.
	Generate(ctx context.Context, prompt string) (*Image, error)

	// Edit rewrites a source image following the prompt.
	Edit(ctx context.Context, source *Image, prompt string) (*Image, error)
}
