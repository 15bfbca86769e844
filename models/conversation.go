package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a discussion container. The like/dislike/neutral counters
// mirror the vote ledger; they are denormalized caches recomputed on every
// vote write, never authoritative on their own.
type Conversation struct {
	ZID         uint   `gorm:"primaryKey;column:zid" json:"zid"`
	Topic       string `gorm:"size:1000" json:"topic"`
	Description string `json:"description"`
	Owner       uint   `gorm:"not null;index" json:"owner"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	IsPublic    bool   `gorm:"default:true" json:"is_public"`

	ParticipantCount int `gorm:"default:0" json:"participant_count"`
	CommentsCount    int `gorm:"default:0" json:"comments_count"`
	LikeCount        int `gorm:"default:0" json:"like_count"`
	DislikeCount     int `gorm:"default:0" json:"dislike_count"`
	NeutralCount     int `gorm:"default:0" json:"neutral_count"`

	Comments  []Comment      `gorm:"foreignKey:ZID" json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
