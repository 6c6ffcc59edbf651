package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/quickai/server/internal/domain/entitlement"
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/shared/middleware"
	"github.com/quickai/server/internal/shared/response"
)

// generationHandler implements inbound.GenerationHttpPort.
type generationHandler struct {
	domain        inbound.GenerationDomain
	maxUploadSize int64
}

// NewGenerationHandler creates a new generation HTTP handler.
func NewGenerationHandler(domain inbound.GenerationDomain, maxUploadSize int64) inbound.GenerationHttpPort {
	return &generationHandler{domain: domain, maxUploadSize: maxUploadSize}
}

type articleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

type blogTitleRequest struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

type imageRequest struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style"`
	Publish bool   `json:"publish"`
}

func (h *generationHandler) GenerateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body")
		return
	}
	h.generate(c, &inbound.GenerationInput{
		Capability: string(entitlement.CapabilityArticle),
		Prompt:     req.Prompt,
		Length:     req.Length,
	})
}

func (h *generationHandler) GenerateBlogTitle(c *gin.Context) {
	var req blogTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body")
		return
	}
	h.generate(c, &inbound.GenerationInput{
		Capability: string(entitlement.CapabilityBlogTitle),
		Prompt:     req.Prompt,
		Category:   req.Category,
	})
}

func (h *generationHandler) GenerateImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body")
		return
	}
	h.generate(c, &inbound.GenerationInput{
		Capability: string(entitlement.CapabilityImage),
		Prompt:     req.Prompt,
		Style:      req.Style,
		Publish:    req.Publish,
	})
}

func (h *generationHandler) RemoveImageBackground(c *gin.Context) {
	data, err := readUpload(c, "image", h.maxUploadSize)
	if err != nil {
		invalidInput(c, err.Error())
		return
	}
	h.generate(c, &inbound.GenerationInput{
		Capability: string(entitlement.CapabilityRemoveBackground),
		File:       data,
	})
}

func (h *generationHandler) RemoveImageObject(c *gin.Context) {
	data, err := readUpload(c, "image", h.maxUploadSize)
	if err != nil {
		invalidInput(c, err.Error())
		return
	}
	h.generate(c, &inbound.GenerationInput{
		Capability: string(entitlement.CapabilityRemoveObject),
		Object:     c.PostForm("object"),
		File:       data,
	})
}

func (h *generationHandler) ReviewResume(c *gin.Context) {
	data, err := readUpload(c, "resume", h.maxUploadSize)
	if err != nil {
		invalidInput(c, err.Error())
		return
	}
	h.generate(c, &inbound.GenerationInput{
		Capability: string(entitlement.CapabilityResumeReview),
		File:       data,
	})
}

func (h *generationHandler) generate(c *gin.Context, in *inbound.GenerationInput) {
	out, err := h.domain.Generate(c.Request.Context(), middleware.GetCredential(c), in)
	if err != nil {
		_ = c.Error(err)
		response.HandleErrorWithDefault(c, err, generationErrors)
		return
	}

	body := gin.H{
		"content":    out.Content,
		"free_usage": out.FreeUsage,
	}
	if out.Creation != nil {
		body["creation"] = toCreationResponse(out.Creation)
	}
	if out.Warning != "" {
		body["warning"] = out.Warning
	}
	response.OK(c, body)
}

func (h *generationHandler) Usage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	usage, err := h.domain.Usage(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.HandleErrorWithDefault(c, err, generationErrors)
		return
	}
	response.OK(c, gin.H{"usage": usage})
}

// Compile-time check
var _ inbound.GenerationHttpPort = (*generationHandler)(nil)
