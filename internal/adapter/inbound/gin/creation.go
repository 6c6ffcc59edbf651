package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/shared/response"
)

// creationHandler implements inbound.CreationHttpPort.
type creationHandler struct {
	domain inbound.CreationDomain
}

// NewCreationHandler creates a new creation HTTP handler.
func NewCreationHandler(domain inbound.CreationDomain) inbound.CreationHttpPort {
	return &creationHandler{domain: domain}
}

// CreationResponse is the wire form of a creation. Likes lists the ids of
// users who like it.
type CreationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Publish   bool      `json:"publish"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

func toCreationResponse(c *model.Creation) *CreationResponse {
	return &CreationResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID,
		Prompt:    c.Prompt,
		Content:   c.Content,
		Type:      string(c.Type),
		Publish:   c.Publish,
		Likes:     c.LikeUserIDs(),
		CreatedAt: c.CreatedAt,
	}
}

func toCreationResponses(in []*model.Creation) []*CreationResponse {
	out := make([]*CreationResponse, 0, len(in))
	for _, c := range in {
		out = append(out, toCreationResponse(c))
	}
	return out
}

func (h *creationHandler) ListOwn(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	creations, err := h.domain.ListOwn(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.HandleErrorWithDefault(c, err, creationErrors)
		return
	}
	response.OK(c, gin.H{"creations": toCreationResponses(creations)})
}

func (h *creationHandler) ListPublished(c *gin.Context) {
	creations, err := h.domain.ListPublished(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.HandleErrorWithDefault(c, err, creationErrors)
		return
	}
	response.OK(c, gin.H{"creations": toCreationResponses(creations)})
}

type toggleLikeRequest struct {
	ID string `json:"id"`
}

func (h *creationHandler) ToggleLike(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		invalidInput(c, "Creation id is required")
		return
	}

	liked, err := h.domain.ToggleLike(c.Request.Context(), req.ID, userID)
	if err != nil {
		_ = c.Error(err)
		response.HandleErrorWithDefault(c, err, creationErrors)
		return
	}

	message := "Creation Unliked"
	if liked {
		message = "Creation Liked"
	}
	response.OK(c, gin.H{"liked": liked, "message": message})
}

// Compile-time check
var _ inbound.CreationHttpPort = (*creationHandler)(nil)
