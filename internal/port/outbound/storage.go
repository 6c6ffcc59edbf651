package outbound

import "context"

// AssetStoragePort stores generated binary assets.
type AssetStoragePort interface {
	// Store uploads data under key and returns its public URL.
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// DocumentReaderPort extracts plain text from uploaded documents.
type DocumentReaderPort interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ImageProcessorPort prepares uploaded images for provider calls.
type ImageProcessorPort interface {
	// Normalize decodes data, bounds its size and re-encodes it as PNG.
	Normalize(data []byte) (*Image, error)
}
