package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to exactly one complaint. IsOfficial is set when the
// authoring user is an officer or admin.
type Comment struct {
	ID          string `gorm:"primaryKey" json:"id"`
	ComplaintID string `gorm:"index;not null" json:"complaintId"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Content     string `json:"content"`
	IsOfficial  bool   `json:"isOfficial"`

	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

// BeforeCreate generates a UUID for the comment if the ID is not set yet.
func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
