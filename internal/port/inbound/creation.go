package inbound

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/quickai/server/internal/model"
)

// CreationAppendInput is one generation result to record.
type CreationAppendInput struct {
	UserID  string
	Prompt  string
	Content string
	Type    model.CreationType
	Publish bool
}

// CreationDomain is the creation ledger.
type CreationDomain interface {
	// Append records a generation result under a fresh id.
	Append(ctx context.Context, in CreationAppendInput) (*model.Creation, error)

	// ToggleLike flips the user's like and reports whether it is now set.
	ToggleLike(ctx context.Context, creationID, userID string) (bool, error)

	Get(ctx context.Context, creationID string) (*model.Creation, error)

	// ListOwn lists the user's creations, newest first.
	ListOwn(ctx context.Context, userID string) ([]*model.Creation, error)

	// ListPublished lists published creations, newest first.
	ListPublished(ctx context.Context) ([]*model.Creation, error)
}

// CreationHttpPort defines creation HTTP handlers.
type CreationHttpPort interface {
	ListOwn(c *gin.Context)
	ListPublished(c *gin.Context)
	ToggleLike(c *gin.Context)
}
