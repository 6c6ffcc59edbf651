package model

import (
	"time"

	"github.com/google/uuid"
)

// CreationType is the kind of content a creation holds.
type CreationType string

const (
	CreationTypeArticle      CreationType = "article"
	CreationTypeBlogTitle    CreationType = "blog-title"
	CreationTypeImage        CreationType = "image"
	CreationTypeResumeReview CreationType = "resume-review"
)

// Valid reports whether t is one of the known creation types.
func (t CreationType) Valid() bool {
	switch t {
	case CreationTypeArticle, CreationTypeBlogTitle, CreationTypeImage, CreationTypeResumeReview:
		return true
	}
	return false
}

// Creation is one persisted generation result.
// Only the like set changes after insert, and it lives in creation_likes.
type Creation struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string         `json:"user_id" gorm:"not null;index:idx_creations_user_created,priority:1"`
	Prompt    string         `json:"prompt" gorm:"type:text;not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Type      CreationType   `json:"type" gorm:"type:varchar(32);not null"`
	Publish   bool           `json:"publish" gorm:"not null;default:false;index"`
	Likes     []CreationLike `json:"likes" gorm:"foreignKey:CreationID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_creations_user_created,priority:2,sort:desc"`
}

// TableName returns the table name.
func (Creation) TableName() string {
	return "creations"
}

// LikeUserIDs returns the ids of users who like the creation.
func (c *Creation) LikeUserIDs() []string {
	ids := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

// CreationLike records one user's like of one creation. The composite
// primary key keeps a user in a creation's like set at most once.
type CreationLike struct {
	CreationID uuid.UUID `json:"creation_id" gorm:"type:uuid;primaryKey"`
	UserID     string    `json:"user_id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name.
func (CreationLike) TableName() string {
	return "creation_likes"
}
