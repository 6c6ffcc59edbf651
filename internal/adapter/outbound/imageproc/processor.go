package imageproc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/quickai/server/internal/port/outbound"
)

// DefaultMaxDimension bounds the longest side of normalized images.
const DefaultMaxDimension = 1024

// ErrUnsupportedImage is returned when the upload cannot be decoded.
var ErrUnsupportedImage = errors.New("unsupported image")

type processor struct {
	maxDimension int
}

// NewProcessor creates an image processor. Images larger than maxDimension
// on either side are scaled down preserving aspect ratio.
func NewProcessor(maxDimension int) outbound.ImageProcessorPort {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &processor{maxDimension: maxDimension}
}

func (p *processor) Normalize(data []byte) (*outbound.Image, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	b := img.Bounds()
	if b.Dx() > p.maxDimension || b.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &outbound.Image{Data: buf.Bytes(), ContentType: "image/png"}, nil
}

// Compile-time check
var _ outbound.ImageProcessorPort = (*processor)(nil)
