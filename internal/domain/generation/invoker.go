package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quickai/server/internal/domain/entitlement"
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/port/outbound"
)

// Article length bounds in words.
const (
	MinArticleLength = 100
	MaxArticleLength = 2000
)

// MaxDocumentSize is the largest accepted resume upload.
const MaxDocumentSize = 5 << 20

const (
	defaultCategory = "General"
	defaultStyle    = "Realistic"
	temperature     = 0.7
)

// Providers groups the outbound ports the invoker dispatches to.
type Providers struct {
	Text      outbound.TextGeneratorPort
	Image     outbound.ImageGeneratorPort
	Storage   outbound.AssetStoragePort
	Images    outbound.ImageProcessorPort
	Documents outbound.DocumentReaderPort
}

// Job is a validated, provider-ready request.
type Job struct {
	capability entitlement.Capability
	// prompt is what the provider receives.
	prompt string
	// label is what the ledger records as the creation prompt.
	label     string
	maxTokens int
	source    *outbound.Image
	publish   bool
}

// Invoker maps a capability to its provider calls.
type Invoker struct {
	p     Providers
	newID func() uuid.UUID
}

// NewInvoker creates an invoker.
func NewInvoker(p Providers) *Invoker {
	return &Invoker{p: p, newID: uuid.New}
}

// Prepare validates in for capability c and builds the provider request.
// Uploaded files are decoded here so malformed uploads fail before the
// gate runs.
func (v *Invoker) Prepare(ctx context.Context, c entitlement.Capability, in *inbound.GenerationInput) (*Job, error) {
	prompt := strings.TrimSpace(in.Prompt)

	switch c {
	case entitlement.CapabilityArticle:
		if prompt == "" {
			return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
		}
		if in.Length < MinArticleLength || in.Length > MaxArticleLength {
			return nil, fmt.Errorf("%w: length must be between %d and %d words", ErrInvalidInput, MinArticleLength, MaxArticleLength)
		}
		text := fmt.Sprintf("Write an article about %s in about %d words.", prompt, in.Length)
		return &Job{capability: c, prompt: text, label: text, maxTokens: articleTokens(in.Length)}, nil

	case entitlement.CapabilityBlogTitle:
		if prompt == "" {
			return nil, fmt.Errorf("%w: keyword is required", ErrInvalidInput)
		}
		category := strings.TrimSpace(in.Category)
		if category == "" {
			category = defaultCategory
		}
		text := fmt.Sprintf("Generate a list of blog titles for the keyword %s in the category %s.", prompt, category)
		return &Job{capability: c, prompt: text, label: text, maxTokens: 200}, nil

	case entitlement.CapabilityImage:
		if prompt == "" {
			return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
		}
		style := strings.TrimSpace(in.Style)
		if style == "" {
			style = defaultStyle
		}
		text := fmt.Sprintf("Generate an image of %s in the style %s", prompt, style)
		return &Job{capability: c, prompt: text, label: text, publish: in.Publish}, nil

	case entitlement.CapabilityRemoveBackground:
		src, err := v.normalize(in.File)
		if err != nil {
			return nil, err
		}
		return &Job{
			capability: c,
			prompt:     "Remove the background from this image. Keep the main subject unchanged on a transparent background.",
			label:      "Remove background from image",
			source:     src,
		}, nil

	case entitlement.CapabilityRemoveObject:
		object := strings.TrimSpace(in.Object)
		if object == "" {
			return nil, fmt.Errorf("%w: object is required", ErrInvalidInput)
		}
		if len(strings.Fields(object)) > 1 {
			return nil, fmt.Errorf("%w: only one object name is accepted", ErrInvalidInput)
		}
		src, err := v.normalize(in.File)
		if err != nil {
			return nil, err
		}
		return &Job{
			capability: c,
			prompt:     fmt.Sprintf("Remove the %s from this image and fill the area so it blends with the surroundings.", object),
			label:      fmt.Sprintf("Removed %s from image", object),
			source:     src,
		}, nil

	case entitlement.CapabilityResumeReview:
		if len(in.File) == 0 {
			return nil, fmt.Errorf("%w: resume file is required", ErrInvalidInput)
		}
		if len(in.File) > MaxDocumentSize {
			return nil, fmt.Errorf("%w: resume exceeds 5MB", ErrInvalidInput)
		}
		text, err := v.p.Documents.ExtractText(ctx, in.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		review := "Review the following resume and provide constructive feedback on its strengths, " +
			"weaknesses, and areas for improvement.\n\nResume content:\n\n" + text
		return &Job{capability: c, prompt: review, label: "Review the uploaded resume", maxTokens: 1000}, nil
	}

	return nil, fmt.Errorf("%w: %q", entitlement.ErrUnknownCapability, string(c))
}

func (v *Invoker) normalize(data []byte) (*outbound.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image file is required", ErrInvalidInput)
	}
	img, err := v.p.Images.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return img, nil
}

func articleTokens(words int) int {
	return words*2 + 100
}

// Invoke runs the provider calls for j and returns the creation content:
// text for text capabilities, a public URL for image capabilities.
func (v *Invoker) Invoke(ctx context.Context, userID string, j *Job) (string, error) {
	switch j.capability {
	case entitlement.CapabilityArticle, entitlement.CapabilityBlogTitle, entitlement.CapabilityResumeReview:
		out, err := v.p.Text.Complete(ctx, &outbound.TextRequest{
			Prompt:      j.prompt,
			MaxTokens:   j.maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrProvider, err)
		}
		return out, nil

	case entitlement.CapabilityImage:
		img, err := v.p.Image.Generate(ctx, j.prompt)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrProvider, err)
		}
		return v.store(ctx, userID, img)

	case entitlement.CapabilityRemoveBackground, entitlement.CapabilityRemoveObject:
		img, err := v.p.Image.Edit(ctx, j.source, j.prompt)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrProvider, err)
		}
		return v.store(ctx, userID, img)
	}

	return "", fmt.Errorf("%w: %q", entitlement.ErrUnknownCapability, string(j.capability))
}

func (v *Invoker) store(ctx context.Context, userID string, img *outbound.Image) (string, error) {
	key := fmt.Sprintf("creations/%s/%s%s", userID, v.newID(), extension(img.ContentType))
	url, err := v.p.Storage.Store(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: store image: %v", ErrProvider, err)
	}
	return url, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
