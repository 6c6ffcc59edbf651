package inbound

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/quickai/server/internal/model"
)

// GenerationInput is one request to a metered capability. Fields not used
// by the capability are ignored.
type GenerationInput struct {
	Capability string
	Prompt     string
	Length     int
	Category   string
	Style      string
	Object     string
	Publish    bool
	File       []byte
}

// GenerationOutput is a successful generation. Warning is set when the
// content was produced but a follow-up write failed.
type GenerationOutput struct {
	Content   string
	Creation  *model.Creation
	IsPremium bool
	FreeUsage int64
	Warning   string
}

// UsageOutput describes a user's current entitlement.
type UsageOutput struct {
	Plan      string `json:"plan"`
	FreeUsage int64  `json:"free_usage"`
	FreeLimit int64  `json:"free_limit"`
	Remaining int64  `json:"remaining"`
}

// GenerationDomain runs metered generations.
type GenerationDomain interface {
	// Generate resolves the credential, gates, invokes, records and meters.
	Generate(ctx context.Context, credential string, in *GenerationInput) (*GenerationOutput, error)

	// Usage returns the user's current entitlement snapshot.
	Usage(ctx context.Context, userID string) (*UsageOutput, error)
}

// GenerationHttpPort defines generation HTTP handlers.
type GenerationHttpPort interface {
	GenerateArticle(c *gin.Context)
	GenerateBlogTitle(c *gin.Context)
	GenerateImage(c *gin.Context)
	RemoveImageBackground(c *gin.Context)
	RemoveImageObject(c *gin.Context)
	ReviewResume(c *gin.Context)
	Usage(c *gin.Context)
}
