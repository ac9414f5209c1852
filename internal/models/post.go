package models

import (
	"time"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Image    string `json:"image"` // media-relative path, optional
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID  *uint  `gorm:"index" json:"group_id"`
	Group    *Group `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	// PubDate is stamped once at creation and never touched afterwards.
	PubDate   time.Time `gorm:"not null;index;autoCreateTime;<-:create" json:"pub_date"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled by list queries, not persisted.
	CommentCount int `gorm:"-" json:"comment_count"`
}
