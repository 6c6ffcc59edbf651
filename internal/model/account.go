package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserAccount is the local identity store's per-user record: the plan the
// user holds plus free-form metadata. The free usage counter has its own
// column so it can be incremented atomically.
type UserAccount struct {
	UserID    string            `json:"user_id" gorm:"primaryKey"`
	Plan      string            `json:"plan" gorm:"type:varchar(32);not null;default:'free'"`
	FreeUsage *int64            `json:"free_usage,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TableName returns the table name.
func (UserAccount) TableName() string {
	return "user_accounts"
}

// All returns every persisted model, in migration order.
func All() []any {
	return []any{&UserAccount{}, &Creation{}, &CreationLike{}}
}
